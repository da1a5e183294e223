package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/qreader-go/internal/cli/connection"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and save the derived token",
		Description: "The password is turned into an AuthToken locally. Only short-lived " +
			"API tokens derived from it are sent to the server.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "password (prompted when omitted)",
				EnvVars: []string{"QREADER_PASSWORD"},
			},
		},
		Action: login,
	}
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the saved token",
		Action: logout,
	}
}

// CheckCommand returns the check command.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:    "check",
		Aliases: []string{"status"},
		Usage:   "Check the saved token against the server",
		Action:  check,
	}
}

// LoginStatus is printed by check.
type LoginStatus struct {
	Server   string `json:"server"`
	LoggedIn bool   `json:"logged_in"`
	Valid    bool   `json:"valid"`
	TimeSlot string `json:"time_slot"`
}

func login(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	password := c.String("password")
	if password == "" {
		password, err = readPassword(env.Stdin, env.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	sess, err := env.Session()
	if err != nil {
		return err
	}
	if err := sess.Login(c.Context, password); err != nil {
		return err
	}

	env.Logger.Debug("login succeeded", "server", env.Config.Server)
	printf(env.Stdout, "Logged in to %s.", env.Config.Server)
	return nil
}

func logout(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	sess, err := env.Session()
	if err != nil {
		return err
	}
	if err := sess.Logout(c.Context); err != nil {
		return err
	}
	printf(env.Stdout, "Logged out.")
	return nil
}

func check(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	sess, err := env.Session()
	if err != nil {
		return err
	}

	status := LoginStatus{
		Server:   env.Config.Server,
		TimeSlot: env.Protocol.CurrentTimeSlot().String(),
	}

	err = sess.Check(c.Context)
	switch {
	case err == nil:
		status.LoggedIn = true
		status.Valid = true
	case errors.Is(err, connection.ErrNotLoggedIn):
	case errors.Is(err, connection.ErrAuthenticationFailure):
		status.LoggedIn = true
	default:
		return err
	}

	if perr := env.Print(status); perr != nil {
		return perr
	}
	if !status.Valid {
		return err
	}
	return nil
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
