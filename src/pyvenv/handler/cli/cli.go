package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gofrs/uuid"
	"github.com/spf13/cobra"
	"github.com/uber/pyvenv/src/pyvenv/controller/indicator"
	"github.com/uber/pyvenv/src/pyvenv/controller/resolver"
	"github.com/uber/pyvenv/src/pyvenv/controller/venv"
	"github.com/uber/pyvenv/src/pyvenv/internal/environment"
	"github.com/uber/pyvenv/src/pyvenv/internal/errors"
	"github.com/uber/pyvenv/src/pyvenv/internal/executor"
	"github.com/uber/pyvenv/src/pyvenv/internal/fs"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "cli"

	// ExitFailure is returned when pyvenv itself fails.
	ExitFailure = 1
	// ExitUsage is returned for malformed flags or arguments.
	ExitUsage = 2
	// ExitNotFound is returned by exec when the command cannot be found.
	ExitNotFound = 127
)

// Handler runs one pyvenv invocation.
type Handler interface {
	// Execute parses args, runs the selected command and returns the process exit code.
	Execute(ctx context.Context, args []string) int
}

// Streams are the standard streams of the invocation.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// DefaultStreams returns the process standard streams.
func DefaultStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Params are inbound parameters to initialize a new handler.
type Params struct {
	fx.In

	Venv      venv.Controller
	Indicator indicator.Controller
	Resolver  resolver.Resolver
	Env       environment.Environment
	FS        fs.PyvenvFS
	Executor  executor.Executor
	Streams   Streams
	Logger    *zap.SugaredLogger
}

type handler struct {
	venv      venv.Controller
	indicator indicator.Controller
	resolver  resolver.Resolver
	env       environment.Environment
	fs        fs.PyvenvFS
	executor  executor.Executor
	streams   Streams
	logger    *zap.SugaredLogger
}

// New creates the command-line handler.
func New(p Params) Handler {
	return &handler{
		venv:      p.Venv,
		indicator: p.Indicator,
		resolver:  p.Resolver,
		env:       p.Env,
		fs:        p.FS,
		executor:  p.Executor,
		streams:   p.Streams,
		logger:    p.Logger.With("plugin", _nameKey),
	}
}

func (h *handler) Execute(ctx context.Context, args []string) int {
	// Commands that run a child report its exit code here.
	exitCode := 0
	root := h.rootCommand(&exitCode)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(h.streams.Err, "pyvenv: %v\n", err)
		switch {
		case exitCode != 0:
			return exitCode
		case errors.IsBadRequest(err):
			return ExitUsage
		default:
			return ExitFailure
		}
	}
	return exitCode
}

func (h *handler) rootCommand(exitCode *int) *cobra.Command {
	root := &cobra.Command{
		Use:           "pyvenv",
		Short:         "Run commands with the Python virtual environment of a directory activated",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(h.streams.In)
	root.SetOut(h.streams.Out)
	root.SetErr(h.streams.Err)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errors.InvalidArgumentError, err)
	})

	root.AddCommand(
		h.execCommand(exitCode),
		h.statusCommand(),
		h.diffCommand(),
		h.strategiesCommand(),
		h.watchCommand(),
	)
	return root
}

// openContext opens a resolution context for dir (the working directory when
// empty) and returns a func that closes it again.
func (h *handler) openContext(ctx context.Context, dir string) (uuid.UUID, func(), error) {
	if dir == "" {
		wd, err := h.fs.Getwd()
		if err != nil {
			return uuid.Nil, nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	id, err := h.venv.Open(ctx, dir)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, func() {
		if err := h.venv.Close(ctx, id); err != nil {
			h.logger.Warnf("closing context %s: %v", id, err)
		}
	}, nil
}
