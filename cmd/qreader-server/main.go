package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/yndnr/qreader-go/internal/core/service"
	"github.com/yndnr/qreader-go/internal/infra/buildinfo"
	"github.com/yndnr/qreader-go/internal/infra/confloader"
	"github.com/yndnr/qreader-go/internal/infra/shutdown"
	"github.com/yndnr/qreader-go/internal/infra/tlsroots"
	"github.com/yndnr/qreader-go/internal/server/config"
	"github.com/yndnr/qreader-go/internal/server/httpserver"
	"github.com/yndnr/qreader-go/internal/telemetry/logger"
	"github.com/yndnr/qreader-go/internal/telemetry/metric"
)

const (
	limiterSweepInterval = time.Minute
	limiterMaxIdle       = 10 * time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile   = flag.String("config", "", "Path to configuration file")
		showVersion  = flag.Bool("version", false, "Show version information")
		defConfig    = flag.Bool("defconfig", false, "Print the default configuration and exit")
		currentToken = flag.Bool("current-token", false, "Print the API token accepted right now and exit")
		authToken    = flag.Bool("auth-token", false, "Print the AuthToken derived from the configured password and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.String())
		return nil
	}
	if *defConfig {
		fmt.Print(config.DefaultYAML)
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	metrics := metric.Global()
	authSvc, err := service.NewAuthService(credential(cfg), authConfig(cfg, metrics))
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	if *authToken {
		fmt.Println(authSvc.AuthToken())
		return nil
	}
	if *currentToken {
		fmt.Println(authSvc.CurrentToken())
		return nil
	}

	log.Info("starting qreader-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", *config.Sanitize(cfg)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var limiters *httpserver.LimiterRegistry
	if rl := cfg.Server.HTTP.RateLimit; rl.Enabled {
		limiters = httpserver.NewLimiterRegistry(rl.RPS, rl.Burst)
		go limiters.RunSweeper(ctx, limiterSweepInterval, limiterMaxIdle)
	}

	metricsPath := ""
	if cfg.Telemetry.Metrics.Enabled {
		metricsPath = cfg.Telemetry.Metrics.Path
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		AuthService: authSvc,
		Logger:      log,
		Metrics:     metrics,
		MetricsPath: metricsPath,
		ClientDir:   cfg.Server.HTTP.ClientDir,
		CORSOrigin:  cfg.Server.HTTP.CORSOrigin,
		Limiters:    limiters,
	})

	opts := []httpserver.Option{
		httpserver.WithTimeouts(cfg.Server.HTTP.ReadTimeout, cfg.Server.HTTP.WriteTimeout),
	}
	var certs *tlsroots.CertReloader
	if cfg.Server.HTTP.TLSCertFile != "" {
		certs, err = tlsroots.NewCertReloader(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile, log)
		if err != nil {
			return fmt.Errorf("load tls certificate: %w", err)
		}
		opts = append(opts, httpserver.WithCertificate(certs.GetCertificate))
	}
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router, opts...)

	reload := &reloader{
		configFile: *configFile,
		listenAddr: cfg.Server.HTTP.Addr,
		authSvc:    authSvc,
		certs:      certs,
		metrics:    metrics,
		logger:     log,
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout)
	shutdownHandler.OnReload(reload.reloadConfig)

	// Hooks run in reverse order of registration.
	shutdownHandler.OnShutdown(func(context.Context) error {
		cancel()
		return nil
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	watcher, err := reload.watch()
	if err != nil {
		log.Warn("config watcher disabled", "error", err)
	} else if watcher != nil {
		shutdownHandler.OnShutdown(func(context.Context) error {
			return watcher.Stop()
		})
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr(), "tls", httpServer.TLS())
		serveErr <- httpServer.ListenAndServe()
	}()

	waitCtx, stopWait := context.WithCancel(ctx)
	defer stopWait()
	go func() {
		if err := <-serveErr; err != nil {
			log.Error("HTTP server error", "error", err)
			serveErr <- err
			stopWait()
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(waitCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger initializes the structured logger and makes it the default.
func initLogger(cfg *config.ServerConfig) (*slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

func credential(cfg *config.ServerConfig) service.Credential {
	return service.Credential{
		Password:  cfg.Security.Password,
		AuthToken: cfg.Security.AuthToken,
	}
}

// authConfig builds the verifier settings. Verify has already checked the
// protocol parameters.
func authConfig(cfg *config.ServerConfig, metrics *metric.Registry) *service.AuthServiceConfig {
	p, _ := cfg.Security.Protocol()
	return &service.AuthServiceConfig{
		Protocol:       p,
		SlotTolerance:  cfg.Security.SlotTolerance,
		MonthTolerance: cfg.Security.MonthTolerance,
		Observer:       metrics,
	}
}

// reloader applies configuration changes to a running server.
type reloader struct {
	configFile string
	listenAddr string
	authSvc    *service.AuthService
	certs      *tlsroots.CertReloader
	metrics    *metric.Registry
	logger     *slog.Logger
}

// watch starts a file watcher on the config file and TLS files.
// It returns nil when there is nothing to watch.
func (r *reloader) watch() (*confloader.Watcher, error) {
	var paths []string
	if r.configFile != "" {
		paths = append(paths, r.configFile)
	}
	if r.certs != nil {
		certFile, keyFile := r.certs.Files()
		paths = append(paths, certFile, keyFile)
	}
	if len(paths) == 0 {
		return nil, nil
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(r.logger))
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			w.Stop()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
	}
	w.OnChange(r.onChange)
	w.StartAsync()
	return w, nil
}

func (r *reloader) onChange(path string) {
	if r.certs != nil {
		certFile, keyFile := r.certs.Files()
		if path == certFile || path == keyFile {
			if err := r.certs.Reload(); err != nil {
				r.logger.Error("tls certificate reload failed", "error", err)
			}
			return
		}
	}
	r.reloadConfig()
}

// reloadConfig re-reads the configuration and swaps the credential, the
// tolerance policy and the log level. A config that fails Verify is ignored.
func (r *reloader) reloadConfig() {
	cfg, err := loadConfig(r.configFile)
	if err != nil {
		r.logger.Error("config reload failed, keeping current settings", "error", err)
		return
	}

	if err := r.authSvc.SetCredential(credential(cfg), authConfig(cfg, r.metrics)); err != nil {
		r.logger.Error("credential reload failed, keeping current settings", "error", err)
		return
	}
	logger.SetLevel(cfg.Log.Level)

	if cfg.Server.HTTP.Addr != r.listenAddr {
		r.logger.Warn("listen address changed, restart to apply", "addr", cfg.Server.HTTP.Addr)
	}
	if r.certs != nil {
		if err := r.certs.Reload(); err != nil {
			r.logger.Error("tls certificate reload failed", "error", err)
		}
	}

	r.logger.Info("configuration reloaded", "slot_size", cfg.Security.SlotSize, "level", cfg.Log.Level)
}
