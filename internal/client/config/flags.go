package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/traveljournal/internal/flagx"
)

var ownFlags = []string{"-d", "-p", "-a", "-m", "-k", "-t", "-i", "-w", "-l"}

// parseFlags overlays cfg with command-line flags. Only the flags listed in
// ownFlags are looked at, so other consumers of os.Args are not disturbed.
// Parse errors panic.
func parseFlags(cfg *Config) {
	args := flagx.Select(os.Args[1:], ownFlags...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (sqlite path or postgres:// URL)")
	fs.StringVar(&cfg.PhotosDir, "p", cfg.PhotosDir, "directory relative photo paths are resolved against")
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "journal API base URL")
	fs.StringVar(&cfg.InferenceURL, "m", cfg.InferenceURL, "image classification endpoint")
	fs.StringVar(&cfg.ProbeKind, "k", cfg.ProbeKind, "connectivity probe kind: http or grpc")
	fs.StringVar(&cfg.ProbeTarget, "t", cfg.ProbeTarget, "connectivity probe target (defaults to the API base URL)")
	interval := cfg.OnlineCheckInterval
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online check interval, e.g. 3s or 500ms")
	fs.IntVar(&cfg.SyncWorkers, "w", cfg.SyncWorkers, "entries synced concurrently")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// a ticker needs a positive period
	if cfg.OnlineCheckInterval <= 0 {
		cfg.OnlineCheckInterval = interval
	}
}
