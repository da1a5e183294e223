package command

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/qreader-go/internal/cli/config"
	"github.com/yndnr/qreader-go/internal/cli/connection"
	"github.com/yndnr/qreader-go/internal/cli/output"
	"github.com/yndnr/qreader-go/internal/infra/tlsroots"
	"github.com/yndnr/qreader-go/internal/storage"
	"github.com/yndnr/qreader-go/internal/telemetry/logger"
	"github.com/yndnr/qreader-go/pkg/qtoken"
)

// Env is the per-invocation state shared by commands.
type Env struct {
	Config     *config.CLIConfig
	ConfigPath string
	Protocol   *qtoken.Protocol
	Format     output.Format
	Logger     *slog.Logger
	Stdout     io.Writer
	Stderr     io.Writer
	Stdin      io.Reader

	store   storage.KV
	session *connection.Session
}

func newEnv(c *cli.Context) (*Env, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)

	proto, err := cfg.Protocol()
	if err != nil {
		return nil, fmt.Errorf("protocol settings: %w", err)
	}
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	log := logger.Discard()
	if c.Bool("verbose") {
		log, err = logger.New(logger.Config{Level: "debug", Format: "text", Output: c.App.ErrWriter})
		if err != nil {
			return nil, err
		}
	}

	return &Env{
		Config:     cfg,
		ConfigPath: path,
		Protocol:   proto,
		Format:     format,
		Logger:     log,
		Stdout:     c.App.Writer,
		Stderr:     c.App.ErrWriter,
		Stdin:      c.App.Reader,
	}, nil
}

// Session opens the token store and returns the login session.
func (e *Env) Session() (*connection.Session, error) {
	if e.session != nil {
		return e.session, nil
	}

	tlsCfg, err := tlsroots.ClientConfig(e.Config.CACert, e.Config.Insecure)
	if err != nil {
		return nil, fmt.Errorf("tls: %w", err)
	}

	store, err := e.Store()
	if err != nil {
		return nil, err
	}

	sess := connection.NewSession(store, e.Protocol, e.Config.Server,
		connection.WithTLSConfig(tlsCfg),
		connection.WithTimeout(e.Config.Timeout),
		connection.WithOnAuthFailure(func() {
			printf(e.Stderr, "The server rejected the saved token. Run `qreader-cli login` to sign in again.")
		}),
	)

	e.session = sess
	return sess, nil
}

// Store opens the token store.
func (e *Env) Store() (storage.KV, error) {
	if e.store != nil {
		return e.store, nil
	}

	store, err := storage.Open(storage.KVConfig{
		Engine: e.Config.StoreEngine,
		Dir:    e.Config.StoreDir,
		Badger: storage.DefaultBadgerConfig(),
	}, e.Logger)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	e.Logger.Debug("token store opened", "engine", e.Config.StoreEngine, "dir", e.Config.StoreDir)

	e.store = store
	return store, nil
}

// Print writes data in the selected output format.
func (e *Env) Print(data any) error {
	return output.NewFormatter(e.Format).Format(e.Stdout, data)
}

// Close releases the token store.
func (e *Env) Close() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	e.session = nil
	return err
}
