package resolver

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/uber/pyvenv/src/pyvenv/entity"
	"github.com/uber/pyvenv/src/pyvenv/internal/environment"
	"github.com/uber/pyvenv/src/pyvenv/internal/executor"
)

// Built-in strategy names, as used in the venv.strategies configuration.
const (
	StrategyPipenv      = "pipenv"
	StrategyPoetry      = "poetry"
	StrategyDotVenv     = "dot-venv"
	StrategyVenv        = "venv"
	StrategyProjectRoot = "project-root"
)

// LabelProject marks a venv found relative to the project root.
const LabelProject entity.TypeLabel = "project"

func (r *resolver) builtins() map[string]Strategy {
	return map[string]Strategy{
		StrategyPipenv:      r.toolStrategy(StrategyPipenv, r.cfg.Pipenv, "--venv"),
		StrategyPoetry:      r.toolStrategy(StrategyPoetry, r.cfg.Poetry, "env", "info", "--path"),
		StrategyDotVenv:     r.conventionStrategy(StrategyDotVenv, r.cfg.PrimaryDir),
		StrategyVenv:        r.conventionStrategy(StrategyVenv, r.cfg.AlternateDir),
		StrategyProjectRoot: r.projectRootStrategy(),
	}
}

// toolStrategy asks a package manager for the environment it manages in dir.
// Exit code 0 and a non-empty first line of stdout is a match.
func (r *resolver) toolStrategy(name string, tool ToolConfig, args ...string) Strategy {
	return Strategy{
		Name: name,
		Detect: func(ctx context.Context, dir string) (Detection, bool) {
			if tool.Binary == "" {
				return Detection{}, false
			}
			dirs, environ := r.toolEnvironment()
			bin, err := r.fs.Which(dirs, tool.Binary)
			if err != nil {
				r.logger.Debugf("%s not on search path: %v", tool.Binary, err)
				return Detection{}, false
			}

			res, err := r.executor.Output(ctx, executor.Command{
				Path:    bin,
				Args:    args,
				Dir:     dir,
				Env:     environ,
				Timeout: r.cfg.ToolTimeout,
			})
			if err != nil || res.ExitCode != 0 {
				r.logger.Debugw("venv query failed", "tool", bin, "exitCode", res.ExitCode, "error", err, "stderr", res.Stderr)
				return Detection{}, false
			}

			path := firstLine(res.Stdout)
			if path == "" {
				return Detection{}, false
			}
			return Detection{Path: path, Label: entity.TypeLabel(name)}, true
		},
	}
}

// toolEnvironment returns the search path and variables for a tool query with
// any enclosing activation taken out, so the outer venv cannot answer for the tool.
func (r *resolver) toolEnvironment() (dirs []string, environ []string) {
	dirs = r.env.SearchPath()
	environ = environment.Without(r.env.Environ(), environment.VirtualEnvVar)

	outer, ok := r.env.Lookup(environment.VirtualEnvVar)
	if !ok || outer == "" {
		return dirs, environ
	}
	outerBin := filepath.Join(outer, "bin")
	dirs = withoutDir(dirs, outerBin)
	if path, ok := r.env.Lookup(environment.PathVar); ok {
		stripped := withoutDir(filepath.SplitList(path), outerBin)
		environ = append(environment.Without(environ, environment.PathVar),
			environment.PathVar+"="+strings.Join(stripped, string(filepath.ListSeparator)))
	}
	return dirs, environ
}

func withoutDir(dirs []string, drop string) []string {
	kept := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if filepath.Clean(d) != filepath.Clean(drop) {
			kept = append(kept, d)
		}
	}
	return kept
}

// conventionStrategy walks from dir to the filesystem root looking for <dirName>/bin/<interpreter>.
func (r *resolver) conventionStrategy(name string, dirName string) Strategy {
	return Strategy{
		Name: name,
		Detect: func(ctx context.Context, dir string) (Detection, bool) {
			if dirName == "" {
				return Detection{}, false
			}
			path, ok := r.searchUpward(dir, dirName)
			if !ok {
				return Detection{}, false
			}
			return Detection{Path: path, Label: entity.TypeLabel(dirName)}, true
		},
	}
}

// projectRootStrategy runs the convention search from the project root instead of dir.
func (r *resolver) projectRootStrategy() Strategy {
	return Strategy{
		Name: StrategyProjectRoot,
		Detect: func(ctx context.Context, dir string) (Detection, bool) {
			if r.cfg.ToolTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, r.cfg.ToolTimeout)
				defer cancel()
			}
			root, err := r.fs.ProjectRoot(ctx, dir)
			if err != nil || root == "" {
				r.logger.Debugf("no project root for %q: %v", dir, err)
				return Detection{}, false
			}

			for _, dirName := range []string{r.cfg.PrimaryDir, r.cfg.AlternateDir} {
				if dirName == "" {
					continue
				}
				if path, ok := r.searchUpward(root, dirName); ok {
					return Detection{Path: path, Label: LabelProject}, true
				}
			}
			return Detection{}, false
		},
	}
}

func (r *resolver) searchUpward(start string, dirName string) (string, bool) {
	dir := filepath.Clean(start)
	for {
		candidate := filepath.Join(dir, dirName)
		if ok, _ := r.fs.FileExists(filepath.Join(candidate, "bin", r.cfg.Interpreter)); ok {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func firstLine(out string) string {
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimRight(line, "\r")
}
