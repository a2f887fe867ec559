package importer

import (
	"strings"
	"sync"
)

// pathKeySep joins search-path directories into a cache key. NUL cannot
// appear in a path, so distinct directory lists never collide.
const pathKeySep = "\x00"

// NotebookFinder claims module names that resolve to notebook files. It
// keeps one loader per distinct search path, so every import sharing a
// path configuration shares loader state.
type NotebookFinder struct {
	host *Host
	cfg  finderConfig

	mu      sync.Mutex
	loaders map[string]*NotebookLoader
}

type finderConfig struct {
	transformer Transformer
}

// Option configures a NotebookFinder.
type Option func(*finderConfig)

// WithTransformer sets the cell transformer applied before execution.
// The default is Identity.
func WithTransformer(t Transformer) Option {
	return func(c *finderConfig) {
		c.transformer = t
	}
}

// NewFinder creates a notebook finder for host.
func NewFinder(host *Host, opts ...Option) *NotebookFinder {
	cfg := finderConfig{transformer: Identity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &NotebookFinder{
		host:    host,
		cfg:     cfg,
		loaders: make(map[string]*NotebookLoader),
	}
}

// Install creates a notebook finder and appends it to host's chain.
func Install(host *Host, opts ...Option) *Hook {
	return host.Install(NewFinder(host, opts...))
}

// Find declines unless a notebook exists for name under path. On a match
// it returns the loader cached for that path, creating it on first use.
// Cache keys are built from path contents, so two calls with distinct
// slice values but equal directories share a loader.
func (f *NotebookFinder) Find(name string, path []string) (Loader, bool) {
	if _, err := FindNotebook(name, path); err != nil {
		return nil, false
	}

	key := strings.Join(path, pathKeySep)

	f.mu.Lock()
	defer f.mu.Unlock()

	if loader, ok := f.loaders[key]; ok {
		return loader, true
	}

	loader := &NotebookLoader{
		host:        f.host,
		path:        append([]string(nil), path...),
		transformer: f.cfg.transformer,
	}
	f.loaders[key] = loader
	return loader, true
}
