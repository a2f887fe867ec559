// Package wasm provides a sandboxed engine that executes cells inside a
// WASI interpreter module.
//
// Sandboxed namespaces have no binding introspection: each Exec replays
// the namespace's accumulated source in a fresh module instance, and the
// result of a notebook is its captured output rather than a set of Go
// values. Use the golang engine when bindings matter.
package wasm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/caffeineduck/gobook/engine"
)

// Interpreter describes a WASI-compiled language runtime.
type Interpreter interface {
	// Name returns a unique identifier, used as the compilation cache key.
	Name() string

	// Module returns the WASM binary for the interpreter.
	Module() []byte

	// Args returns the argv to run the given source.
	// For a Python build: []string{"python", "-c", source}.
	Args(source string) []string
}

type interpreter struct {
	name   string
	module []byte
	args   func(source string) []string
}

func (i *interpreter) Name() string                { return i.name }
func (i *interpreter) Module() []byte              { return i.module }
func (i *interpreter) Args(source string) []string { return i.args(source) }

// NewInterpreter builds an Interpreter from a name, a WASM binary and an
// argv builder.
func NewInterpreter(name string, module []byte, args func(source string) []string) Interpreter {
	return &interpreter{name: name, module: module, args: args}
}

// LoadInterpreter reads the WASM binary at path.
func LoadInterpreter(name, path string, args func(source string) []string) (Interpreter, error) {
	module, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load interpreter: %w", err)
	}
	return NewInterpreter(name, module, args), nil
}

// Namespace accumulates executed source and captured output.
type Namespace struct {
	name string

	mu    sync.Mutex
	cells []string
	out   string
}

// Name returns the identifier the namespace was created under.
func (ns *Namespace) Name() string { return ns.name }

// Get always fails: sandboxed namespaces do not expose bindings.
func (ns *Namespace) Get(string) (any, error) {
	return nil, engine.ErrOpaqueNamespace
}

// Output returns the stdout of the most recent successful replay.
func (ns *Namespace) Output() string {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.out
}

func (ns *Namespace) source(next string) string {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	parts := append(append([]string{}, ns.cells...), next)
	return strings.Join(parts, "\n")
}

func (ns *Namespace) commit(src, out string) {
	ns.mu.Lock()
	ns.cells = append(ns.cells, src)
	ns.out = out
	ns.mu.Unlock()
}

// Engine implements engine.Engine on a wazero runtime.
type Engine struct {
	runtime wazero.Runtime
	cache   wazero.CompilationCache
	interp  Interpreter
	cfg     engineConfig

	mu       sync.RWMutex
	compiled wazero.CompiledModule
	ambient  engine.Namespace
	closed   bool
}

// New creates a sandboxed engine for the given interpreter.
func New(interp Interpreter, opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := context.Background()

	var cache wazero.CompilationCache
	if cfg.cacheDir != "" {
		var err error
		cache, err = wazero.NewCompilationCacheWithDir(cfg.cacheDir)
		if err != nil {
			return nil, fmt.Errorf("create disk cache: %w", err)
		}
	}

	rtConfig := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cache != nil {
		rtConfig = rtConfig.WithCompilationCache(cache)
	}
	if cfg.memoryLimitPages > 0 {
		rtConfig = rtConfig.WithMemoryLimitPages(cfg.memoryLimitPages)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, rtConfig)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		if cache != nil {
			cache.Close(ctx)
		}
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate WASI: %w", err)
	}

	e := &Engine{
		runtime: rt,
		cache:   cache,
		interp:  interp,
		cfg:     cfg,
	}
	e.ambient = e.NewNamespace("session")
	return e, nil
}

// NewNamespace creates an empty namespace.
func (e *Engine) NewNamespace(name string) engine.Namespace {
	return &Namespace{name: name}
}

// Exec replays the namespace's accumulated source plus src in a fresh
// module instance. On success the namespace records src and the captured
// output; on failure the namespace is left as it was.
func (e *Engine) Exec(ctx context.Context, ns engine.Namespace, src string) error {
	wns, ok := ns.(*Namespace)
	if !ok {
		return engine.ErrForeignNamespace
	}

	if e.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, e.cfg.timeout, errExecTimeout)
		defer cancel()
	}

	compiled, err := e.getCompiled(ctx)
	if err != nil {
		return err
	}

	full := wns.source(src)

	var stdout, stderr bytes.Buffer
	moduleConfig := wazero.NewModuleConfig().
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithArgs(e.interp.Args(full)...).
		WithName("")

	mod, err := e.runtime.InstantiateModule(ctx, compiled, moduleConfig)
	if mod != nil {
		mod.Close(ctx)
	}
	if exitErr, ok := err.(*sys.ExitError); ok && exitErr.ExitCode() == 0 {
		err = nil
	}
	if err != nil {
		return e.execError(ctx, err, stderr.String())
	}

	wns.commit(src, stdout.String())
	return nil
}

// errExecTimeout is the cancel cause for the engine's own Exec deadline,
// distinguishing it from deadlines the caller set.
var errExecTimeout = errors.New("execution timed out")

// execError maps a failed run to the engine error. Only the engine's
// own deadline is reported as a timeout; a caller deadline surfaces as
// a plain execution failure.
func (e *Engine) execError(ctx context.Context, err error, stderr string) error {
	if errors.Is(context.Cause(ctx), errExecTimeout) {
		return fmt.Errorf("timeout after %v", e.cfg.timeout)
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("execution failed: %v: %s", err, msg)
	}
	return fmt.Errorf("execution failed: %w", err)
}

// Ambient returns the current ambient namespace.
func (e *Engine) Ambient() engine.Namespace {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ambient
}

// SetAmbient replaces the ambient namespace.
func (e *Engine) SetAmbient(ns engine.Namespace) {
	e.mu.Lock()
	e.ambient = ns
	e.mu.Unlock()
}

// getCompiled compiles the interpreter module once and caches it.
func (e *Engine) getCompiled(ctx context.Context) (wazero.CompiledModule, error) {
	e.mu.RLock()
	if e.compiled != nil {
		compiled := e.compiled
		e.mu.RUnlock()
		return compiled, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.compiled != nil {
		return e.compiled, nil
	}

	compiled, err := e.runtime.CompileModule(ctx, e.interp.Module())
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", e.interp.Name(), err)
	}

	e.compiled = compiled
	return compiled, nil
}

// Close releases the runtime and any compilation cache.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	ctx := context.Background()

	var errs []error
	if err := e.runtime.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if e.cache != nil {
		if err := e.cache.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

type engineConfig struct {
	timeout          time.Duration
	memoryLimitPages uint32
	cacheDir         string
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		timeout: 30 * time.Second,
	}
}

// Option configures the engine at creation time.
type Option func(*engineConfig)

// WithTimeout sets the maximum time one Exec replay may run.
func WithTimeout(d time.Duration) Option {
	return func(c *engineConfig) {
		c.timeout = d
	}
}

// WithMemoryLimit sets the maximum memory available to the interpreter
// module, in 64KB pages.
func WithMemoryLimit(pages uint32) Option {
	return func(c *engineConfig) {
		c.memoryLimitPages = pages
	}
}

// WithDiskCache enables a persistent compilation cache in dir.
func WithDiskCache(dir string) Option {
	return func(c *engineConfig) {
		c.cacheDir = dir
	}
}
