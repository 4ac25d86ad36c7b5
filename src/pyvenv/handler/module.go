package handler

import (
	"github.com/uber/pyvenv/src/pyvenv/controller"
	"github.com/uber/pyvenv/src/pyvenv/handler/cli"
	"github.com/uber/pyvenv/src/pyvenv/repository/resolution"
	"go.uber.org/fx"
)

// Module provides the pyvenv command-line handler into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(resolution.New),
	fx.Provide(cli.DefaultStreams),
	fx.Provide(cli.New),
)
