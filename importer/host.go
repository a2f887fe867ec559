// Package importer makes notebooks importable as modules.
//
// A Host owns a module registry and an ordered chain of finders, the
// process-wide state a module system needs. Installing a notebook finder
// extends the chain so that Import resolves dotted names to notebook
// documents and executes their code cells into fresh namespaces.
package importer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/caffeineduck/gobook/engine"
)

// Finder decides whether a module name is satisfiable from its source
// and, if so, returns the loader for it. Declining (ok == false) is the
// normal "not mine" signal; the host then consults the next finder.
type Finder interface {
	Find(name string, path []string) (Loader, bool)
}

// Loader produces a fully populated module for a previously claimed name.
type Loader interface {
	Load(ctx context.Context, name string) (*Module, error)
}

// Host owns the module registry and the finder chain. Tests and embedders
// create their own Host; there is no package-level singleton.
type Host struct {
	engine engine.Engine
	logger *log.Logger

	mu      sync.RWMutex
	modules map[string]*Module
	finders []Finder
	path    []string
}

// HostOption configures a Host at creation time.
type HostOption func(*Host)

// WithPath sets the ordered directories notebook names resolve against.
func WithPath(dirs ...string) HostOption {
	return func(h *Host) {
		h.path = append([]string(nil), dirs...)
	}
}

// WithLogger sets the logger import activity is reported to. The host is
// silent by default.
func WithLogger(logger *log.Logger) HostOption {
	return func(h *Host) {
		h.logger = logger
	}
}

// NewHost creates a host with an empty registry and finder chain.
func NewHost(eng engine.Engine, opts ...HostOption) *Host {
	h := &Host{
		engine:  eng,
		logger:  log.New(io.Discard),
		modules: make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Engine returns the execution engine modules run on.
func (h *Host) Engine() engine.Engine { return h.engine }

// Path returns a copy of the current search path.
func (h *Host) Path() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.path...)
}

// SetPath replaces the search path for subsequent imports. Loaders
// already bound to the previous path keep it.
func (h *Host) SetPath(dirs ...string) {
	h.mu.Lock()
	h.path = append([]string(nil), dirs...)
	h.mu.Unlock()
}

// Register binds name to mod in the registry, replacing any previous
// binding. Loaders call this before executing any cell so that a module
// importing itself while partially populated sees the partial state, the
// way module systems tolerate circular imports.
func (h *Host) Register(name string, mod *Module) {
	h.mu.Lock()
	h.modules[name] = mod
	h.mu.Unlock()
}

// Lookup returns the module registered under name, if any.
func (h *Host) Lookup(name string) (*Module, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	mod, ok := h.modules[name]
	return mod, ok
}

// Hook is the removal handle for an installed finder.
type Hook struct {
	host   *Host
	finder Finder
}

// Finder returns the installed finder.
func (hk *Hook) Finder() Finder { return hk.finder }

// Install appends f to the finder chain and returns its removal handle.
// Installing a finder that is already in the chain is a no-op returning
// a handle to the existing entry; finders are compared by identity.
func (h *Host) Install(f Finder) *Hook {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, existing := range h.finders {
		if existing == f {
			return &Hook{host: h, finder: f}
		}
	}
	h.finders = append(h.finders, f)
	return &Hook{host: h, finder: f}
}

// Uninstall removes the hook's finder from the chain. Modules it already
// loaded stay registered.
func (h *Host) Uninstall(hook *Hook) {
	if hook == nil || hook.host != h {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, f := range h.finders {
		if f == hook.finder {
			h.finders = append(h.finders[:i], h.finders[i+1:]...)
			return
		}
	}
}

// Import resolves name to a module. Already-registered names return the
// registered module without re-execution. Otherwise finders are consulted
// in chain order with the host's current search path; the first one to
// claim the name loads it.
func (h *Host) Import(ctx context.Context, name string) (*Module, error) {
	if mod, ok := h.Lookup(name); ok {
		return mod, nil
	}

	h.mu.RLock()
	finders := append([]Finder(nil), h.finders...)
	path := append([]string(nil), h.path...)
	h.mu.RUnlock()

	for _, f := range finders {
		loader, ok := f.Find(name, path)
		if !ok {
			continue
		}
		return loader.Load(ctx, name)
	}

	return nil, fmt.Errorf("import %s: %w", name, ErrNotFound)
}
