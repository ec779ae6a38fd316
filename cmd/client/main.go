package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/traveljournal/internal/buildinfo"
	"github.com/dmitrijs2005/traveljournal/internal/client/cli"
	"github.com/dmitrijs2005/traveljournal/internal/client/config"
	"github.com/dmitrijs2005/traveljournal/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "cannot start journal", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
