package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/config"
	"github.com/cory-johannsen/survivors/internal/events"
	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/content"
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/session"
	"github.com/cory-johannsen/survivors/internal/game/swarm"
	"github.com/cory-johannsen/survivors/internal/game/table"
	"github.com/cory-johannsen/survivors/internal/roster"
	"github.com/cory-johannsen/survivors/internal/scripting"
	"github.com/cory-johannsen/survivors/internal/storage/postgres"
)

// healthTimeout bounds the startup database health check.
const healthTimeout = 5 * time.Second

func provideLibrary(cfg config.Config, logger *zap.Logger) (*content.Library, error) {
	lib, err := content.Load(cfg.Game.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Game.ContentDir),
		zap.Int("items", lib.Items.Len()),
		zap.Int("characters", len(lib.Sheets)),
		zap.Strings("npc_templates", lib.TemplateIDs()),
		zap.Strings("tables", lib.Tables.IDs()),
	)
	return lib, nil
}

// provideSource seeds the dice when game.seed is set so a session can be replayed.
func provideSource(cfg config.Config) dice.Source {
	if cfg.Game.Seed != 0 {
		return dice.NewSeededSource(cfg.Game.Seed)
	}
	return dice.NewCryptoSource()
}

func provideTables(lib *content.Library) *table.Registry {
	return lib.Tables
}

// provideScripts returns a nil manager when scripting is disabled.
func provideScripts(cfg config.Config, roller *dice.Roller, logger *zap.Logger) (*scripting.Manager, func(), error) {
	if cfg.Game.ScriptDir == "" {
		logger.Info("scripting disabled")
		return nil, func() {}, nil
	}
	mgr := scripting.NewManager(roller, logger, cfg.Game.InstructionLimit)
	if err := mgr.LoadDir(cfg.Game.ScriptDir); err != nil {
		mgr.Close()
		return nil, nil, fmt.Errorf("loading scripts: %w", err)
	}
	return mgr, mgr.Close, nil
}

func provideNarrator(mgr *scripting.Manager) combat.Narrator {
	if mgr == nil {
		return nil
	}
	return mgr
}

func provideEnv(checks *check.Resolver, brawls *combat.Resolver, swarms *swarm.Resolver, tables *table.Registry) session.Env {
	return session.Env{Checks: checks, Combat: brawls, Swarm: swarms, Tables: tables}
}

func provideStore(ctx context.Context, cfg config.Config, lib *content.Library, logger *zap.Logger) (roster.Store, func(), error) {
	switch cfg.Game.Roster {
	case config.RosterPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Health(ctx, healthTimeout); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database health check: %w", err)
		}
		store := postgres.NewRosterStore(pool.DB(), lib, logger)
		n, err := store.Seed(ctx)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("seeding roster: %w", err)
		}
		logger.Info("postgres roster ready", zap.String("host", cfg.Database.Host), zap.Int("seeded", n))
		return store, pool.Close, nil
	default:
		store, err := roster.NewMemoryFromLibrary(lib)
		if err != nil {
			return nil, nil, fmt.Errorf("building roster: %w", err)
		}
		logger.Info("memory roster ready", zap.Strings("characters", store.CharacterIDs()))
		return store, func() {}, nil
	}
}

// provideSink always journals to the log and adds NATS when events are enabled.
func provideSink(cfg config.Config, logger *zap.Logger) (events.Sink, func(), error) {
	sinks := events.Multi{events.NewLogSink(logger)}
	if !cfg.Events.Enabled() {
		return sinks, func() {}, nil
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	url := cfg.Events.NATSURL
	if cfg.Events.Embedded {
		ns, err := events.StartEmbeddedServer(logger)
		if err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, ns.Shutdown)
		url = ns.ClientURL()
	}
	nats, err := events.NewNATSSink(url, cfg.Events.Subject)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, func() {
		if err := nats.Close(); err != nil {
			logger.Warn("closing NATS sink", zap.Error(err))
		}
	})
	logger.Info("publishing events to NATS", zap.String("url", url), zap.String("subject", cfg.Events.Subject))
	return append(sinks, nats), cleanup, nil
}
