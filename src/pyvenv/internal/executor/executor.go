package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides an Executor that logs through the application logger.
var Module = fx.Provide(func(logger *zap.SugaredLogger) Executor {
	return NewExecutor(WithLogger(logger.With("component", "executor")))
})

// Command describes a single process invocation.
type Command struct {
	// Path is the binary to run, either absolute or looked up by os/exec.
	Path string
	Args []string
	Dir  string
	// Env is passed verbatim; nil means the child inherits nothing.
	Env []string
	// Timeout bounds the invocation when positive.
	Timeout time.Duration

	// Stdio is only used by Attach.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result is the captured outcome of Output.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor wraps the execution of "os/exec".Cmd's to allow adding logs/metrics to
// each exec and makes it easier to test.
type Executor interface {
	// Output runs the command to completion and captures its output.
	Output(ctx context.Context, c Command) (Result, error)
	// Attach runs the command wired to the given stdio and returns its exit code.
	// A non-zero exit is not an error; failing to start the process is.
	Attach(ctx context.Context, c Command) (int, error)
}

type executorImp struct {
	Logger *zap.SugaredLogger
	// ExecFunc may be swapped in tests.
	ExecFunc func(e *exec.Cmd) error
}

// Option defines options to customize executorImp's behavior
type Option func(*executorImp)

// WithLogger overrides the default noop logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(executor *executorImp) {
		executor.Logger = logger
	}
}

// WithExecFunc provides customized exec behavior for executorImp
func WithExecFunc(execFunc func(e *exec.Cmd) error) Option {
	return func(executor *executorImp) {
		executor.ExecFunc = execFunc
	}
}

// NewExecutor creates a new Executor with a noop logger that runs commands for real.
func NewExecutor(opts ...Option) Executor {
	executor := &executorImp{
		Logger:   zap.NewNop().Sugar(),
		ExecFunc: func(cmd *exec.Cmd) error { return cmd.Run() },
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor
}

func (l *executorImp) Output(ctx context.Context, c Command) (Result, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := l.build(ctx, c)
	var stdoutB, stderrB bytes.Buffer
	cmd.Stdout = &stdoutB
	cmd.Stderr = &stderrB

	start := time.Now()
	l.logCommand(cmd, c.Timeout)
	err := l.ExecFunc(cmd)
	res := Result{
		Stdout:   stdoutB.String(),
		Stderr:   stderrB.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("%s timed out after %s: %w", c.Path, time.Since(start).Round(time.Millisecond), context.DeadlineExceeded)
	}
	return res, err
}

func (l *executorImp) Attach(ctx context.Context, c Command) (int, error) {
	cmd := l.build(ctx, c)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	l.logCommand(cmd, c.Timeout)
	err := l.ExecFunc(cmd)

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return -1, err
	}
	return cmd.ProcessState.ExitCode(), nil
}

func (l *executorImp) build(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	// Don't wait forever on grandchildren holding our pipes after a kill.
	cmd.WaitDelay = time.Second
	return cmd
}

// Logs the command specified: Path, Dir, Args and the timeout if any.
func (l *executorImp) logCommand(cmd *exec.Cmd, timeout time.Duration) {
	logKeysAndValues := []interface{}{
		"Path", cmd.Path,
		"Dir", cmd.Dir,
		"Args", cmd.Args[1:], // First arg is always the command itself
	}
	if timeout > 0 {
		logKeysAndValues = append(logKeysAndValues, "Timeout", timeout.String())
	}

	l.Logger.Infow("Exec", logKeysAndValues...)
}
