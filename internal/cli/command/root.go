package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/qreader-go/internal/cli/config"
	"github.com/yndnr/qreader-go/internal/infra/buildinfo"
)

const envKey = "qreader.env"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "qreader-cli",
		Usage:                "QReader command-line client",
		Version:              buildinfo.Version,
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Writer:               os.Stdout,
		ErrWriter:            os.Stderr,
		Reader:               os.Stdin,
		Metadata:             map[string]any{},
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			CheckCommand(),
			TokenCommand(),
			TimeSlotCommand(),
			InfoCommand(),
			APICommand(),
			ConfigCommand(),
			StoreCommand(),
		},
		Before: func(c *cli.Context) error {
			env, err := newEnv(c)
			if err != nil {
				return err
			}
			c.App.Metadata[envKey] = env
			return nil
		},
		After: func(c *cli.Context) error {
			if env, ok := c.App.Metadata[envKey].(*Env); ok {
				return env.Close()
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"QREADER_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "QReader server URL (e.g. http://127.0.0.1:4664)",
			EnvVars: []string{"QREADER_SERVER"},
		},
		&cli.StringFlag{
			Name:    "salt",
			Usage:   "shared salt, must match the server",
			EnvVars: []string{"QREADER_SALT"},
		},
		&cli.StringFlag{
			Name:    "digest",
			Usage:   "token digest: sha1, sha256",
			EnvVars: []string{"QREADER_DIGEST"},
		},
		&cli.StringFlag{
			Name:    "kdf",
			Usage:   "password derivation: plain, argon2id",
			EnvVars: []string{"QREADER_KDF"},
		},
		&cli.IntFlag{
			Name:    "slot-size",
			Usage:   "time slot width in minutes",
			EnvVars: []string{"QREADER_SLOT_SIZE"},
		},
		&cli.StringFlag{
			Name:    "store-dir",
			Usage:   "directory of the saved login",
			EnvVars: []string{"QREADER_STORE_DIR"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, json, yaml",
			EnvVars: []string{"QREADER_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    "ca-cert",
			Usage:   "CA certificate for https servers",
			EnvVars: []string{"QREADER_CA_CERT"},
		},
		&cli.BoolFlag{
			Name:    "insecure",
			Aliases: []string{"k"},
			Usage:   "skip TLS certificate verification",
			EnvVars: []string{"QREADER_INSECURE"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "enable debug logging on stderr",
		},
	}
}

// applyFlags overrides cfg with the global flags the user set.
func applyFlags(c *cli.Context, cfg *config.CLIConfig) {
	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("salt") {
		cfg.Salt = c.String("salt")
	}
	if c.IsSet("digest") {
		cfg.Digest = c.String("digest")
	}
	if c.IsSet("kdf") {
		cfg.KDF = c.String("kdf")
	}
	if c.IsSet("slot-size") {
		cfg.SlotSize = c.Int("slot-size")
	}
	if c.IsSet("store-dir") {
		cfg.StoreDir = c.String("store-dir")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("ca-cert") {
		cfg.CACert = c.String("ca-cert")
	}
	if c.IsSet("insecure") {
		cfg.Insecure = c.Bool("insecure")
	}
}

// envFrom returns the Env set up by the root Before hook.
func envFrom(c *cli.Context) (*Env, error) {
	lineage := c.Lineage()
	for i := len(lineage) - 1; i >= 0; i-- {
		if lineage[i].App == nil {
			continue
		}
		if env, ok := lineage[i].App.Metadata[envKey].(*Env); ok {
			return env, nil
		}
	}
	return nil, fmt.Errorf("command environment not initialized")
}

// printf writes a plain message regardless of the output format.
func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
