package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/qreader-go/internal/cli/connection"
	"github.com/yndnr/qreader-go/internal/server/httpserver/handler"
)

// InfoCommand returns the info command.
func InfoCommand() *cli.Command {
	return &cli.Command{
		Name:   "info",
		Usage:  "Show the server's protocol parameters and clock skew",
		Action: info,
	}
}

// APICommand returns the api subcommand group.
func APICommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Call an API endpoint with the saved token",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Send a GET request",
				ArgsUsage: "PATH",
				Action:    apiGet,
			},
			{
				Name:      "post",
				Usage:     "Send a POST request with a JSON body",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON request body",
					},
				},
				Action: apiPost,
			},
		},
	}
}

// ServerInfo is printed by info.
type ServerInfo struct {
	Server         string    `json:"server"`
	Version        string    `json:"version"`
	ServerTime     time.Time `json:"server_time"`
	ClockSkew      string    `json:"clock_skew"`
	ServerSlot     string    `json:"server_time_slot"`
	LocalSlot      string    `json:"local_time_slot"`
	SlotSize       int       `json:"slot_size"`
	SlotTolerance  int       `json:"slot_tolerance"`
	MonthTolerance bool      `json:"month_tolerance"`
	Digest         string    `json:"digest"`
	KDF            string    `json:"kdf"`
	Compatible     bool      `json:"compatible"`
}

func info(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	sess, err := env.Session()
	if err != nil {
		return err
	}

	resp, err := sess.Client().Get(c.Context, "/api/system/info")
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	var si handler.SystemInfo
	if err := resp.Decode(&si); err != nil {
		return err
	}

	p := env.Protocol
	local := p.Now()
	out := ServerInfo{
		Server:         env.Config.Server,
		Version:        si.Version,
		ServerTime:     si.ServerTime,
		ClockSkew:      local.Sub(si.ServerTime).Round(time.Second).String(),
		ServerSlot:     si.TimeSlot,
		LocalSlot:      p.CurrentTimeSlot().String(),
		SlotSize:       si.SlotSize,
		SlotTolerance:  si.SlotTolerance,
		MonthTolerance: si.MonthTolerance,
		Digest:         si.Digest,
		KDF:            si.KDF,
		Compatible: si.SlotSize == p.SlotSize() &&
			si.Digest == string(p.Digest()) &&
			si.KDF == string(p.KDF()),
	}
	return env.Print(out)
}

func apiGet(c *cli.Context) error {
	env, sess, path, err := apiArgs(c)
	if err != nil {
		return err
	}
	resp, err := sess.Client().Get(c.Context, path)
	if err != nil {
		return err
	}
	return printResponse(env, resp)
}

func apiPost(c *cli.Context) error {
	env, sess, path, err := apiArgs(c)
	if err != nil {
		return err
	}

	var body any
	if data := c.String("data"); data != "" {
		if err := json.Unmarshal([]byte(data), &body); err != nil {
			return fmt.Errorf("parse --data: %w", err)
		}
	}

	resp, err := sess.Client().Post(c.Context, path, body)
	if err != nil {
		return err
	}
	return printResponse(env, resp)
}

func apiArgs(c *cli.Context) (*Env, *connection.Session, string, error) {
	if c.NArg() != 1 {
		return nil, nil, "", fmt.Errorf("expected exactly one PATH argument")
	}
	env, err := envFrom(c)
	if err != nil {
		return nil, nil, "", err
	}
	sess, err := env.Session()
	if err != nil {
		return nil, nil, "", err
	}
	return env, sess, c.Args().First(), nil
}

// printResponse prints the result payload, or returns the envelope error.
func printResponse(env *Env, resp *connection.Response) error {
	if err := resp.Err(); err != nil {
		return err
	}
	var result any
	if err := resp.Decode(&result); err != nil {
		return err
	}
	return env.Print(result)
}
