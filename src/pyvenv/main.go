package main

import (
	"context"
	"fmt"
	"os"

	"github.com/uber/pyvenv/src/pyvenv/app"
	"github.com/uber/pyvenv/src/pyvenv/handler/cli"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	var h cli.Handler
	a := fx.New(opts(), fx.Populate(&h))
	if err := a.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pyvenv: %v\n", err)
		return cli.ExitFailure
	}
	defer func() {
		if err := a.Stop(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "pyvenv: %v\n", err)
		}
	}()

	return h.Execute(ctx, args)
}
