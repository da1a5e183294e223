package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/qreader-go/internal/telemetry/logger"
)

// StoreCommand returns the store subcommand group.
func StoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Inspect the local token store",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show token store size and GC statistics",
				Action: storeStats,
			},
			{
				Name:  "keys",
				Usage: "List stored keys with masked values",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "only list keys with this prefix",
					},
				},
				Action: storeKeys,
			},
		},
	}
}

// StoreStats is printed by store stats.
type StoreStats struct {
	Engine           string     `json:"engine"`
	Dir              string     `json:"dir"`
	Keys             uint64     `json:"keys"`
	TotalSize        uint64     `json:"total_size"`
	LSMSize          uint64     `json:"lsm_size"`
	ValueLogSize     uint64     `json:"value_log_size"`
	LastGC           *time.Time `json:"last_gc,omitempty"`
	GCBytesReclaimed uint64     `json:"gc_bytes_reclaimed"`
}

// StoreEntry is one row of store keys.
type StoreEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Size  int    `json:"size"`
}

func storeStats(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	store, err := env.Store()
	if err != nil {
		return err
	}

	stats, err := store.Stats(c.Context)
	if err != nil {
		return err
	}

	out := StoreStats{
		Engine:           env.Config.StoreEngine,
		Dir:              env.Config.StoreDir,
		Keys:             stats.TotalKeys,
		TotalSize:        stats.TotalSize,
		LSMSize:          stats.LSMSize,
		ValueLogSize:     stats.ValueLogSize,
		GCBytesReclaimed: stats.GCBytesReclaimed,
	}
	if stats.LastGCTime > 0 {
		at := time.UnixMilli(stats.LastGCTime).UTC()
		out.LastGC = &at
	}
	return env.Print(out)
}

func storeKeys(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	store, err := env.Store()
	if err != nil {
		return err
	}

	entries := []StoreEntry{}
	err = store.Scan(c.Context, []byte(c.String("prefix")), func(key, value []byte) bool {
		entries = append(entries, StoreEntry{
			Key:   string(key),
			Value: logger.RedactString(string(value)),
			Size:  len(value),
		})
		return true
	})
	if err != nil {
		return err
	}
	return env.Print(entries)
}
