// Package environment models the two pieces of process state that venv
// activation overlays: the executable search-path list and the variable table.
package environment

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/multierr"
)

// Variables read or written by activation.
const (
	PathVar       = "PATH"
	VirtualEnvVar = "VIRTUAL_ENV"
	PythonHomeVar = "PYTHONHOME"
)

// Module provides the process-backed Environment.
var Module = fx.Provide(NewProcess)

// Environment is the mutable state an activation snapshots, overlays and restores.
type Environment interface {
	// SearchPath returns a copy of the directories searched for executables.
	SearchPath() []string
	SetSearchPath(dirs []string)
	// Environ returns a copy of the variable table in KEY=VALUE form.
	Environ() []string
	Lookup(key string) (string, bool)
	Set(key, value string) error
	Unset(key string) error
	Snapshot() Snapshot
	Restore(s Snapshot) error
}

// Snapshot is a deep copy of an Environment. Later mutation of the live
// environment never alters it.
type Snapshot struct {
	searchPath []string
	vars       map[string]string
}

// SearchPath returns a copy of the captured search-path list.
func (s Snapshot) SearchPath() []string {
	return clone(s.searchPath)
}

// Lookup returns a captured variable.
func (s Snapshot) Lookup(key string) (string, bool) {
	v, ok := s.vars[key]
	return v, ok
}

// Environ returns the captured variable table sorted by key.
func (s Snapshot) Environ() []string {
	return format(s.vars)
}

// Equal reports whether two snapshots hold the same search path and variables.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.searchPath) != len(o.searchPath) || len(s.vars) != len(o.vars) {
		return false
	}
	for i := range s.searchPath {
		if s.searchPath[i] != o.searchPath[i] {
			return false
		}
	}
	for k, v := range s.vars {
		if ov, ok := o.vars[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// NewSnapshot builds a snapshot from a search path and a KEY=VALUE table.
func NewSnapshot(searchPath []string, environ []string) Snapshot {
	return Snapshot{searchPath: clone(searchPath), vars: parse(environ)}
}

type process struct {
	mu         sync.Mutex
	searchPath []string
}

// NewProcess returns an Environment backed by os.Getenv/os.Setenv. The search
// path starts out as the split PATH of the running process.
func NewProcess() Environment {
	return &process{searchPath: filepath.SplitList(os.Getenv(PathVar))}
}

func (p *process) SearchPath() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return clone(p.searchPath)
}

func (p *process) SetSearchPath(dirs []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searchPath = clone(dirs)
}

func (p *process) Environ() []string { return os.Environ() }

func (p *process) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

func (p *process) Set(key, value string) error { return os.Setenv(key, value) }

func (p *process) Unset(key string) error { return os.Unsetenv(key) }

func (p *process) Snapshot() Snapshot {
	return NewSnapshot(p.SearchPath(), os.Environ())
}

// Restore only touches variables that differ from the snapshot.
func (p *process) Restore(s Snapshot) error {
	var err error
	current := parse(os.Environ())
	for k := range current {
		if _, ok := s.vars[k]; !ok {
			err = multierr.Append(err, os.Unsetenv(k))
		}
	}
	for k, v := range s.vars {
		if cv, ok := current[k]; !ok || cv != v {
			err = multierr.Append(err, os.Setenv(k, v))
		}
	}
	p.SetSearchPath(s.searchPath)
	return err
}

type memory struct {
	mu         sync.Mutex
	searchPath []string
	vars       map[string]string
}

// NewMemory returns an Environment that never touches the process.
func NewMemory(searchPath []string, environ []string) Environment {
	return &memory{searchPath: clone(searchPath), vars: parse(environ)}
}

func (m *memory) SearchPath() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.searchPath)
}

func (m *memory) SetSearchPath(dirs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchPath = clone(dirs)
}

func (m *memory) Environ() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return format(m.vars)
}

func (m *memory) Lookup(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *memory) Set(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\x00") {
		return os.NewSyscallError("setenv", os.ErrInvalid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
	return nil
}

func (m *memory) Unset(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, key)
	return nil
}

func (m *memory) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{searchPath: clone(m.searchPath), vars: copyVars(m.vars)}
}

func (m *memory) Restore(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchPath = clone(s.searchPath)
	m.vars = copyVars(s.vars)
	return nil
}

// Without returns environ minus the given keys.
func Without(environ []string, keys ...string) []string {
	res := make([]string, 0, len(environ))
	for _, kv := range environ {
		k, _, _ := strings.Cut(kv, "=")
		drop := false
		for _, key := range keys {
			if k == key {
				drop = true
				break
			}
		}
		if !drop {
			res = append(res, kv)
		}
	}
	return res
}

func parse(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	return vars
}

func format(vars map[string]string) []string {
	res := make([]string, 0, len(vars))
	for k, v := range vars {
		res = append(res, k+"="+v)
	}
	sort.Strings(res)
	return res
}

func copyVars(vars map[string]string) map[string]string {
	res := make(map[string]string, len(vars))
	for k, v := range vars {
		res[k] = v
	}
	return res
}

func clone(dirs []string) []string {
	if dirs == nil {
		return nil
	}
	res := make([]string, len(dirs))
	copy(res, dirs)
	return res
}
