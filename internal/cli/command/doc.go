// Package command defines the qreader-cli command tree using urfave/cli/v2.
//
// Commands share an Env built in the root Before hook: the merged
// configuration, the token protocol and, on first use, the durable session.
package command
