package fs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// PyvenvFS wraps the filesystem operations used when probing for virtual environments.
type PyvenvFS interface {
	Getwd() (string, error)
	Abs(path string) (string, error)
	MkdirAll(path string) error
	ProjectRoot(ctx context.Context, path string) (string, error)
	DirExists(path string) (bool, error)
	FileExists(path string) (bool, error)
	IsExecutable(path string) (bool, error)
	Which(dirs []string, name string) (string, error)
}

type fsImpl struct{}

// New creates a new PyvenvFS.
func New() PyvenvFS {
	return fsImpl{}
}

func (fsImpl) Getwd() (string, error) { return os.Getwd() }

func (fsImpl) Abs(path string) (string, error) { return filepath.Abs(path) }

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

// ProjectRoot returns the top level of the git checkout containing path.
func (fsImpl) ProjectRoot(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = path
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (fsImpl) DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// FileExists follows symlinks, so a venv interpreter linked to a base install counts.
func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (f fsImpl) IsExecutable(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0, nil
}

// Which looks name up in dirs the way a shell looks it up in PATH. An empty
// entry stands for the current directory.
func (f fsImpl) Which(dirs []string, name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if ok, _ := f.IsExecutable(name); ok {
			return name, nil
		}
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}

	for _, dir := range dirs {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if ok, _ := f.IsExecutable(candidate); ok {
			return candidate, nil
		}
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}
