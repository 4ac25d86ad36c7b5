package app

import (
	"context"
	"time"

	"github.com/uber-go/tally"
	"github.com/uber/pyvenv/src/pyvenv/handler"
	"github.com/uber/pyvenv/src/pyvenv/internal/core"
	"github.com/uber/pyvenv/src/pyvenv/internal/environment"
	"github.com/uber/pyvenv/src/pyvenv/internal/executor"
	"github.com/uber/pyvenv/src/pyvenv/internal/fs"
	"go.uber.org/fx"
)

// Module defines the pyvenv application module.
var Module = fx.Options(
	handler.Module, // inbounds
	fs.Module,
	executor.Module,
	environment.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "pyvenv",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateConfigProvider),
)
