// Package main runs the survivors console companion: a table-side dice, brawl and
// swarm engine driven by typed commands.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/config"
	"github.com/cory-johannsen/survivors/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	script := flag.String("script", "", "read commands from this file instead of stdin")
	solo := flag.Bool("solo", false, "force single-player mode")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *solo {
		cfg.Game.SoloMode = true
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app, cleanup, err := initApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing companion", zap.Error(err))
	}
	defer cleanup()

	in := os.Stdin
	if *script != "" {
		f, err := os.Open(*script)
		if err != nil {
			logger.Fatal("opening script", zap.String("path", *script), zap.Error(err))
		}
		defer f.Close()
		in = f
	} else {
		app.Prompt = "> "
	}

	logger.Info("companion ready",
		zap.Bool("solo", cfg.Game.SoloMode),
		zap.String("roster", cfg.Game.Roster),
		zap.Duration("startup", time.Since(start)),
	)

	if err := app.Run(ctx, in, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error("session ended with error", zap.Error(err))
	}
	logger.Info("companion stopped")
}
