package controller

import (
	"github.com/uber/pyvenv/src/pyvenv/controller/activator"
	"github.com/uber/pyvenv/src/pyvenv/controller/indicator"
	"github.com/uber/pyvenv/src/pyvenv/controller/resolver"
	"github.com/uber/pyvenv/src/pyvenv/controller/venv"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(resolver.New),
	fx.Provide(activator.New),
	fx.Provide(venv.New),
	fx.Provide(indicator.New),
)
