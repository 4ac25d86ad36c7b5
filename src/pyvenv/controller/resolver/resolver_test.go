package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"github.com/uber/pyvenv/src/pyvenv/entity"
	"github.com/uber/pyvenv/src/pyvenv/internal/environment"
	"github.com/uber/pyvenv/src/pyvenv/internal/errors"
	"github.com/uber/pyvenv/src/pyvenv/internal/executor"
	"github.com/uber/pyvenv/src/pyvenv/internal/executor/executormock"
	"github.com/uber/pyvenv/src/pyvenv/internal/fs"
	"github.com/uber/pyvenv/src/pyvenv/repository/resolution"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const _testConfig = `
venv:
  strategies: [%s]
  interpreter: python
  primaryDir: .venv
  alternateDir: venv
  toolTimeout: 2s
  pipenv:
    binary: pipenv
  poetry:
    binary: poetry
`

type testDeps struct {
	fs       fs.PyvenvFS
	executor executor.Executor
	env      environment.Environment
}

func newTestResolver(t *testing.T, strategies []string, deps testDeps) (Resolver, resolution.Repository, tally.TestScope) {
	provider, err := config.NewYAML(config.Source(strings.NewReader(
		strings.Replace(_testConfig, "%s", strings.Join(strategies, ", "), 1),
	)))
	require.NoError(t, err)

	if deps.fs == nil {
		deps.fs = fs.New()
	}
	if deps.executor == nil {
		deps.executor = executormock.NewMockExecutor(gomock.NewController(t))
	}
	if deps.env == nil {
		deps.env = environment.NewMemory(nil, nil)
	}

	scope := tally.NewTestScope("testing", nil)
	repo := resolution.New(scope)
	r, err := New(Params{
		Contexts: repo,
		Logger:   zap.NewNop().Sugar(),
		Config:   provider,
		Stats:    scope,
		FS:       deps.fs,
		Executor: deps.executor,
		Env:      deps.env,
	})
	require.NoError(t, err)
	return r, repo, scope
}

func openContext(t *testing.T, repo resolution.Repository, baseDir string, override *string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	require.NoError(t, repo.Set(context.Background(), &entity.ResolutionContext{UUID: id, BaseDir: baseDir, Override: override}))
	return id
}

func countingStrategy(name string, path string, calls *int) Strategy {
	return Strategy{
		Name: name,
		Detect: func(ctx context.Context, dir string) (Detection, bool) {
			*calls++
			if path == "" {
				return Detection{}, false
			}
			return Detection{Path: path, Label: entity.TypeLabel(name)}, true
		},
	}
}

func counterValue(scope tally.TestScope, name string) int64 {
	var total int64
	for _, c := range scope.Snapshot().Counters() {
		if c.Name() == name {
			total += c.Value()
		}
	}
	return total
}

func mkVenv(t *testing.T, dir string) {
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "python"), []byte("#!/bin/sh\n"), 0o755))
}

func TestNew(t *testing.T) {
	t.Run("builtins in configured order", func(t *testing.T) {
		r, _, _ := newTestResolver(t, []string{"venv", "dot-venv", "project-root", "poetry", "pipenv"}, testDeps{})
		assert.Equal(t, []string{"venv", "dot-venv", "project-root", "poetry", "pipenv"}, r.Strategies())
	})

	t.Run("unknown strategy", func(t *testing.T) {
		provider, err := config.NewYAML(config.Source(strings.NewReader("venv:\n  strategies: [conda]\n")))
		require.NoError(t, err)
		_, err = New(Params{
			Contexts: resolution.New(tally.NoopScope),
			Logger:   zap.NewNop().Sugar(),
			Config:   provider,
			Stats:    tally.NoopScope,
			FS:       fs.New(),
			Env:      environment.NewMemory(nil, nil),
		})
		var unknown *errors.UnknownStrategyError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "conda", unknown.Name)
	})
}

func TestResolveOverride(t *testing.T) {
	ctx := context.Background()
	r, repo, _ := newTestResolver(t, nil, testDeps{})
	calls := 0
	require.NoError(t, r.Register(countingStrategy("always", "/detected", &calls)))

	t.Run("explicit path wins without checking disk", func(t *testing.T) {
		override := "/x/venv"
		id := openContext(t, repo, "/proj", &override)

		venv, err := r.Resolve(ctx, id, false)
		require.NoError(t, err)
		assert.Equal(t, entity.Found("/x/venv"), venv)

		venv, err = r.Resolve(ctx, id, true)
		require.NoError(t, err)
		assert.Equal(t, entity.Found("/x/venv"), venv)
		assert.Equal(t, 0, calls)
	})

	t.Run("empty override skips search", func(t *testing.T) {
		empty := ""
		id := openContext(t, repo, "/proj", &empty)

		venv, err := r.Resolve(ctx, id, true)
		require.NoError(t, err)
		assert.Equal(t, entity.NotFound(), venv)
		assert.Equal(t, 0, calls)

		stored, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.VenvUnset, stored.Venv.State)
	})
}

func TestResolveCache(t *testing.T) {
	ctx := context.Background()

	t.Run("second call runs no strategies", func(t *testing.T) {
		r, repo, scope := newTestResolver(t, nil, testDeps{})
		calls := 0
		require.NoError(t, r.Register(countingStrategy("first", "/proj/.venv", &calls)))
		id := openContext(t, repo, "/proj", nil)

		first, err := r.Resolve(ctx, id, false)
		require.NoError(t, err)
		second, err := r.Resolve(ctx, id, false)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, entity.Found("/proj/.venv"), second)
		assert.Equal(t, 1, calls)
		assert.Equal(t, int64(1), counterValue(scope, "testing.resolver.cache_hit"))
		assert.Equal(t, int64(1), counterValue(scope, "testing.resolver.search"))

		stored, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.TypeLabel("first"), stored.TypeLabel)
	})

	t.Run("negative result is cached", func(t *testing.T) {
		r, repo, scope := newTestResolver(t, nil, testDeps{})
		calls := 0
		require.NoError(t, r.Register(countingStrategy("never", "", &calls)))
		id := openContext(t, repo, "/proj", nil)

		for i := 0; i < 3; i++ {
			venv, err := r.Resolve(ctx, id, false)
			require.NoError(t, err)
			assert.Equal(t, entity.NotFound(), venv)
		}
		assert.Equal(t, 1, calls)
		assert.Equal(t, int64(1), counterValue(scope, "testing.resolver.not_found"))
	})

	t.Run("refresh searches again and clears the label", func(t *testing.T) {
		r, repo, _ := newTestResolver(t, nil, testDeps{})
		calls := 0
		require.NoError(t, r.Register(countingStrategy("first", "/proj/.venv", &calls)))
		id := openContext(t, repo, "/proj", nil)

		_, err := r.Resolve(ctx, id, false)
		require.NoError(t, err)

		require.NoError(t, r.Register(countingStrategy("first", "", &calls)))
		venv, err := r.Resolve(ctx, id, true)
		require.NoError(t, err)
		assert.Equal(t, entity.NotFound(), venv)
		assert.Equal(t, 2, calls)

		stored, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.TypeLabel(""), stored.TypeLabel)
		assert.Equal(t, entity.NotFound(), stored.Venv)
	})

	t.Run("unknown context", func(t *testing.T) {
		r, _, _ := newTestResolver(t, nil, testDeps{})
		_, err := r.Resolve(ctx, uuid.Must(uuid.NewV4()), false)
		_, ok := errors.NotFoundUUID(err)
		assert.True(t, ok)
	})
}

func TestFirstMatchWins(t *testing.T) {
	r, repo, scope := newTestResolver(t, nil, testDeps{})
	firstCalls, secondCalls := 0, 0
	require.NoError(t, r.Register(countingStrategy("first", "/first", &firstCalls)))
	require.NoError(t, r.Register(countingStrategy("second", "/second", &secondCalls)))
	id := openContext(t, repo, "/proj", nil)

	venv, err := r.Resolve(context.Background(), id, false)
	require.NoError(t, err)
	assert.Equal(t, entity.Found("/first"), venv)
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 0, secondCalls)

	matches := scope.Snapshot().Counters()["testing.resolver.match+strategy=first"]
	require.NotNil(t, matches)
	assert.Equal(t, int64(1), matches.Value())
}

func TestStrategyRegistry(t *testing.T) {
	r, _, _ := newTestResolver(t, []string{"pipenv", "poetry", "dot-venv"}, testDeps{})
	calls := 0

	assert.Error(t, r.Register(Strategy{Name: "nameless"}))
	assert.Error(t, r.Register(Strategy{Detect: countingStrategy("x", "", &calls).Detect}))

	require.NoError(t, r.Register(countingStrategy("custom", "/custom", &calls)))
	assert.Equal(t, []string{"pipenv", "poetry", "dot-venv", "custom"}, r.Strategies())

	require.NoError(t, r.Reorder("custom", "dot-venv", "custom"))
	assert.Equal(t, []string{"custom", "dot-venv", "pipenv", "poetry"}, r.Strategies())

	var unknown *errors.UnknownStrategyError
	assert.ErrorAs(t, r.Reorder("conda"), &unknown)
	assert.Equal(t, []string{"custom", "dot-venv", "pipenv", "poetry"}, r.Strategies())

	assert.True(t, r.Unregister("pipenv"))
	assert.False(t, r.Unregister("pipenv"))
	assert.Equal(t, []string{"custom", "dot-venv", "poetry"}, r.Strategies())

	// Replacing keeps the position.
	require.NoError(t, r.Register(countingStrategy("dot-venv", "/replaced", &calls)))
	assert.Equal(t, []string{"custom", "dot-venv", "poetry"}, r.Strategies())
	require.True(t, r.Unregister("custom"))
	d, ok := r.Detect(context.Background(), "/proj")
	require.True(t, ok)
	assert.Equal(t, "/replaced", d.Path)
}

func TestConventionStrategies(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	t.Run("walks upward to .venv", func(t *testing.T) {
		mkVenv(t, filepath.Join(root, ".venv"))
		defer os.RemoveAll(filepath.Join(root, ".venv"))

		r, _, _ := newTestResolver(t, []string{"dot-venv", "venv"}, testDeps{})
		d, ok := r.Detect(context.Background(), nested)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, ".venv"), d.Path)
		assert.Equal(t, entity.TypeLabel(".venv"), d.Label)
	})

	t.Run("alternate name", func(t *testing.T) {
		mkVenv(t, filepath.Join(root, "src", "venv"))
		defer os.RemoveAll(filepath.Join(root, "src", "venv"))

		r, _, _ := newTestResolver(t, []string{"dot-venv", "venv"}, testDeps{})
		d, ok := r.Detect(context.Background(), nested)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "src", "venv"), d.Path)
		assert.Equal(t, entity.TypeLabel("venv"), d.Label)
	})

	t.Run("directory without interpreter is ignored", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(nested, ".venv", "bin"), 0o755))
		defer os.RemoveAll(filepath.Join(nested, ".venv"))

		r, _, _ := newTestResolver(t, []string{"dot-venv"}, testDeps{})
		_, ok := r.Detect(context.Background(), nested)
		assert.False(t, ok)
	})
}

type projectRootFS struct {
	fs.PyvenvFS
	root string
	err  error
}

func (p projectRootFS) ProjectRoot(ctx context.Context, path string) (string, error) {
	return p.root, p.err
}

func TestProjectRootStrategy(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	mkVenv(t, filepath.Join(root, "venv"))

	t.Run("found at project root", func(t *testing.T) {
		r, _, _ := newTestResolver(t, []string{"project-root"}, testDeps{fs: projectRootFS{PyvenvFS: fs.New(), root: root}})
		d, ok := r.Detect(context.Background(), nested)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "venv"), d.Path)
		assert.Equal(t, LabelProject, d.Label)
	})

	t.Run("primary name preferred", func(t *testing.T) {
		mkVenv(t, filepath.Join(root, ".venv"))
		defer os.RemoveAll(filepath.Join(root, ".venv"))

		r, _, _ := newTestResolver(t, []string{"project-root"}, testDeps{fs: projectRootFS{PyvenvFS: fs.New(), root: root}})
		d, ok := r.Detect(context.Background(), nested)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, ".venv"), d.Path)
	})

	t.Run("no project root", func(t *testing.T) {
		r, _, _ := newTestResolver(t, []string{"project-root"}, testDeps{fs: projectRootFS{PyvenvFS: fs.New(), err: errors.New("not a git repository")}})
		_, ok := r.Detect(context.Background(), nested)
		assert.False(t, ok)
	})
}

func TestToolStrategies(t *testing.T) {
	ctx := context.Background()
	binDir := t.TempDir()
	for _, tool := range []string{"pipenv", "poetry"} {
		require.NoError(t, os.WriteFile(filepath.Join(binDir, tool), []byte("#!/bin/sh\n"), 0o755))
	}
	project := t.TempDir()
	newEnv := func() environment.Environment {
		return environment.NewMemory([]string{binDir}, []string{"PATH=" + binDir, "VIRTUAL_ENV=/outer/venv", "HOME=/home/sample"})
	}

	t.Run("poetry first line is the path", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		execMock := executormock.NewMockExecutor(ctrl)
		execMock.EXPECT().Output(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c executor.Command) (executor.Result, error) {
			assert.Equal(t, filepath.Join(binDir, "poetry"), c.Path)
			assert.Equal(t, []string{"env", "info", "--path"}, c.Args)
			assert.Equal(t, project, c.Dir)
			assert.NotContains(t, c.Env, "VIRTUAL_ENV=/outer/venv")
			assert.Contains(t, c.Env, "HOME=/home/sample")
			assert.Equal(t, "2s", c.Timeout.String())
			return executor.Result{Stdout: "/cache/virtualenvs/proj-py3.12\r\nextra line\n"}, nil
		})

		r, _, _ := newTestResolver(t, []string{"poetry"}, testDeps{executor: execMock, env: newEnv()})
		d, ok := r.Detect(ctx, project)
		require.True(t, ok)
		assert.Equal(t, "/cache/virtualenvs/proj-py3.12", d.Path)
		assert.Equal(t, entity.TypeLabel("poetry"), d.Label)
	})

	t.Run("enclosing venv cannot answer", func(t *testing.T) {
		outer := t.TempDir()
		outerBin := filepath.Join(outer, "bin")
		require.NoError(t, os.MkdirAll(outerBin, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(outerBin, "poetry"), []byte("#!/bin/sh\n"), 0o755))
		sep := string(filepath.ListSeparator)
		env := environment.NewMemory(
			[]string{outerBin, binDir},
			[]string{"PATH=" + outerBin + sep + binDir, "VIRTUAL_ENV=" + outer},
		)

		ctrl := gomock.NewController(t)
		execMock := executormock.NewMockExecutor(ctrl)
		execMock.EXPECT().Output(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c executor.Command) (executor.Result, error) {
			assert.Equal(t, filepath.Join(binDir, "poetry"), c.Path)
			assert.Equal(t, []string{"PATH=" + binDir}, c.Env)
			return executor.Result{Stdout: "/cache/virtualenvs/proj\n"}, nil
		})

		r, _, _ := newTestResolver(t, []string{"poetry"}, testDeps{executor: execMock, env: env})
		d, ok := r.Detect(ctx, project)
		require.True(t, ok)
		assert.Equal(t, "/cache/virtualenvs/proj", d.Path)
	})

	t.Run("pipenv arguments", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		execMock := executormock.NewMockExecutor(ctrl)
		execMock.EXPECT().Output(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c executor.Command) (executor.Result, error) {
			assert.Equal(t, []string{"--venv"}, c.Args)
			return executor.Result{Stdout: "/home/sample/.local/share/virtualenvs/proj-abc\n"}, nil
		})

		r, _, _ := newTestResolver(t, []string{"pipenv"}, testDeps{executor: execMock, env: newEnv()})
		d, ok := r.Detect(ctx, project)
		require.True(t, ok)
		assert.Equal(t, "/home/sample/.local/share/virtualenvs/proj-abc", d.Path)
	})

	t.Run("non-zero exit falls through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		execMock := executormock.NewMockExecutor(ctrl)
		execMock.EXPECT().Output(gomock.Any(), gomock.Any()).Return(executor.Result{ExitCode: 1, Stderr: "No virtualenv has been created"}, errors.New("exit status 1"))
		execMock.EXPECT().Output(gomock.Any(), gomock.Any()).Return(executor.Result{Stdout: "/from/poetry\n"}, nil)

		r, _, _ := newTestResolver(t, []string{"pipenv", "poetry"}, testDeps{executor: execMock, env: newEnv()})
		d, ok := r.Detect(ctx, project)
		require.True(t, ok)
		assert.Equal(t, "/from/poetry", d.Path)
	})

	t.Run("empty output is no result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		execMock := executormock.NewMockExecutor(ctrl)
		execMock.EXPECT().Output(gomock.Any(), gomock.Any()).Return(executor.Result{Stdout: "\n"}, nil)

		r, _, _ := newTestResolver(t, []string{"poetry"}, testDeps{executor: execMock, env: newEnv()})
		_, ok := r.Detect(ctx, project)
		assert.False(t, ok)
	})

	t.Run("missing binary is never executed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		execMock := executormock.NewMockExecutor(ctrl)

		r, _, _ := newTestResolver(t, []string{"pipenv", "poetry"}, testDeps{
			executor: execMock,
			env:      environment.NewMemory([]string{t.TempDir()}, nil),
		})
		_, ok := r.Detect(ctx, project)
		assert.False(t, ok)
	})
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "/a", firstLine("/a\n/b\n"))
	assert.Equal(t, "/a", firstLine("/a\r\n"))
	assert.Equal(t, "/a", firstLine("/a"))
	assert.Equal(t, "", firstLine(""))
}
