package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/qreader-go/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
			{
				Name:  "init",
				Usage: "Write the effective configuration to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "overwrite an existing file",
					},
				},
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	return env.Print(env.Config)
}

func configPath(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	printf(env.Stdout, "%s", env.ConfigPath)
	return nil
}

func configInit(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	if _, err := os.Stat(env.ConfigPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists, use --force to overwrite", env.ConfigPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.Save(env.Config, env.ConfigPath); err != nil {
		return err
	}
	printf(env.Stdout, "Wrote %s.", env.ConfigPath)
	return nil
}
