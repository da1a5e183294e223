package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/qreader-go/internal/cli/connection"
	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// TokenCommand returns the token command.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:   "token",
		Usage:  "Print the API token for the current time slot",
		Action: token,
	}
}

// TimeSlotCommand returns the timeslot command.
func TimeSlotCommand() *cli.Command {
	return &cli.Command{
		Name:  "timeslot",
		Usage: "Print the time slot for now or a given instant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "at",
				Usage: "RFC 3339 instant, e.g. 2024-03-01T10:02:30Z",
			},
		},
		Action: timeSlot,
	}
}

// TokenInfo is printed by token.
type TokenInfo struct {
	Header   string `json:"header"`
	APIToken string `json:"api_token"`
	TimeSlot string `json:"time_slot"`
	SlotSize int    `json:"slot_size"`
}

// TimeSlotInfo is printed by timeslot.
type TimeSlotInfo struct {
	At       time.Time `json:"at"`
	TimeSlot string    `json:"time_slot"`
	SlotSize int       `json:"slot_size"`
}

func token(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	sess, err := env.Session()
	if err != nil {
		return err
	}

	authToken, err := sess.AuthToken(c.Context)
	if err != nil {
		return err
	}
	if authToken == "" {
		return connection.ErrNotLoggedIn
	}

	now := env.Protocol.Now()
	slot, err := qtoken.TimeSlotAt(now, env.Protocol.SlotSize())
	if err != nil {
		return err
	}
	return env.Print(TokenInfo{
		Header:   qtoken.HeaderName,
		APIToken: env.Protocol.ComputeAPITokenAt(authToken, now),
		TimeSlot: slot,
		SlotSize: env.Protocol.SlotSize(),
	})
}

func timeSlot(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	at := env.Protocol.Now().UTC()
	if s := c.String("at"); s != "" {
		at, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse --at: %w", err)
		}
		at = at.UTC()
	}

	slot, err := qtoken.TimeSlotAt(at, env.Protocol.SlotSize())
	if err != nil {
		return err
	}
	return env.Print(TimeSlotInfo{At: at, TimeSlot: slot, SlotSize: env.Protocol.SlotSize()})
}
