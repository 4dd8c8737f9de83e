//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/config"
	"github.com/cory-johannsen/survivors/internal/game/check"
	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/command"
	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/session"
	"github.com/cory-johannsen/survivors/internal/game/swarm"
)

func initApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		provideLibrary,
		provideSource,
		dice.NewLoggedRoller,
		check.NewResolver,
		provideScripts,
		provideNarrator,
		combat.NewResolver,
		provideTables,
		swarm.NewResolver,
		provideEnv,
		provideStore,
		provideSink,
		session.NewManager,
		command.DefaultRegistry,
		wire.Struct(new(App), "Sessions", "Commands", "Library", "Logger", "Config"),
	)
	return nil, nil, nil
}
