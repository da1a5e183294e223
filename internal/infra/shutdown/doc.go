// Package shutdown coordinates graceful shutdown and reload for qreader-server.
//
// SIGINT and SIGTERM run the registered shutdown hooks in reverse order
// under a timeout. SIGHUP runs the reload hooks and keeps the process up.
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Stop)
//	h.OnReload(reloadConfig)
//	err := h.Wait(ctx)
package shutdown
