package indicator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/uuid"
	"github.com/uber/pyvenv/src/pyvenv/controller/resolver"
	"github.com/uber/pyvenv/src/pyvenv/controller/venv"
	"github.com/uber/pyvenv/src/pyvenv/entity"
	"github.com/uber/pyvenv/src/pyvenv/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey         = "indicator"
	_debounceTimeout = 100 * time.Millisecond
)

// Controller renders the venv status of a context for display.
type Controller interface {
	// Indicator returns the display text for the cached state of a context.
	Indicator(ctx context.Context, id uuid.UUID) (string, error)
	// Watch refreshes the context and emits its status, then refreshes again
	// after every change to the base directory, or to the conventional venv
	// directories inside it, and emits whenever the result differs. Venvs
	// appearing in ancestors or at the project root are not noticed. It
	// returns when ctx is done.
	Watch(ctx context.Context, id uuid.UUID, emit func(entity.Status)) error
}

// Params are inbound parameters to initialize a new indicator controller.
type Params struct {
	fx.In

	Venv   venv.Controller
	FS     fs.PyvenvFS
	Config config.Provider
	Logger *zap.SugaredLogger
}

type controller struct {
	venv     venv.Controller
	fs       fs.PyvenvFS
	logger   *zap.SugaredLogger
	debounce time.Duration
	// dirNames are the conventional venv directory names watched under the base directory.
	dirNames []string
}

// New creates an indicator controller.
func New(p Params) (Controller, error) {
	cfg := resolver.Config{}
	if err := p.Config.Get(entity.VenvConfigKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", entity.VenvConfigKey, err)
	}

	return &controller{
		venv:     p.Venv,
		fs:       p.FS,
		logger:   p.Logger.With("plugin", _nameKey),
		debounce: _debounceTimeout,
		dirNames: []string{cfg.PrimaryDir, cfg.AlternateDir},
	}, nil
}

func (c *controller) Indicator(ctx context.Context, id uuid.UUID) (string, error) {
	status, err := c.venv.Status(ctx, id)
	if err != nil {
		return "", err
	}
	return status.Indicator(), nil
}

func (c *controller) Watch(ctx context.Context, id uuid.UUID, emit func(entity.Status)) error {
	last, err := c.venv.Refresh(ctx, id)
	if err != nil {
		return err
	}
	emit(last)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file system watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			c.logger.Warnf("Failed to close venv watcher: %v", err)
		}
	}()
	if err := watcher.Add(last.BaseDir); err != nil {
		return fmt.Errorf("watch %s: %w", last.BaseDir, err)
	}
	c.watchCandidates(watcher, last.BaseDir)

	// Events arrive in bursts while a venv is created, so refresh once the
	// directory has been quiet for the debounce period.
	timer := time.NewTimer(c.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			c.logger.Debugf("venv candidate changed: %s", event)
			c.watchCandidates(watcher, last.BaseDir)
			timer.Reset(c.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warnf("Failure in venv watcher: %v", err)

		case <-timer.C:
			status, err := c.venv.Refresh(ctx, id)
			if err != nil {
				return err
			}
			if status.Venv != last.Venv || status.TypeLabel != last.TypeLabel {
				emit(status)
			}
			last = status

		case <-ctx.Done():
			return nil
		}
	}
}

// watchCandidates watches the conventional venv directories under baseDir and
// their bin directories once they exist, so an interpreter appearing inside
// them triggers a refresh. Removed directories drop out of the watcher by themselves.
func (c *controller) watchCandidates(watcher *fsnotify.Watcher, baseDir string) {
	for _, name := range c.dirNames {
		if name == "" {
			continue
		}
		dir := filepath.Join(baseDir, name)
		for _, d := range []string{dir, filepath.Join(dir, "bin")} {
			if ok, _ := c.fs.DirExists(d); !ok {
				continue
			}
			if err := watcher.Add(d); err != nil {
				c.logger.Debugf("not watching %s: %v", d, err)
			}
		}
	}
}
