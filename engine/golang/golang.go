// Package golang provides a Go engine backed by the yaegi interpreter.
package golang

import (
	"context"
	"fmt"
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/caffeineduck/gobook/engine"
)

// Namespace wraps one yaegi interpreter instance. Each namespace owns its
// own interpreter, so bindings never leak between modules.
type Namespace struct {
	name string
	inst *interp.Interpreter
}

// Name returns the identifier the namespace was created under.
func (ns *Namespace) Name() string { return ns.name }

// Get evaluates name in the namespace and returns the bound value.
func (ns *Namespace) Get(name string) (any, error) {
	v, err := ns.inst.Eval(name)
	if err != nil || !v.IsValid() {
		return nil, fmt.Errorf("%s: %w", name, engine.ErrUndefined)
	}
	return v.Interface(), nil
}

// Engine implements engine.Engine on top of yaegi. Namespaces execute Go
// statements incrementally, REPL style: `x := 1` in one Exec call is
// visible to `y := x + 1` in the next.
type Engine struct {
	cfg engineConfig

	mu      sync.Mutex
	ambient engine.Namespace
}

type engineConfig struct {
	useStdlib bool
	goPath    string
	exports   interp.Exports
}

// Option configures the engine at creation time.
type Option func(*engineConfig)

// WithoutStdlib creates namespaces that cannot import the Go standard
// library.
func WithoutStdlib() Option {
	return func(c *engineConfig) {
		c.useStdlib = false
	}
}

// WithGoPath sets the GOPATH the interpreter resolves source imports
// against.
func WithGoPath(dir string) Option {
	return func(c *engineConfig) {
		c.goPath = dir
	}
}

// WithExports exposes host symbols to every namespace under the given
// import path. Cells reach back into the embedding program with a plain
// import:
//
//	golang.WithExports("host", map[string]any{"Now": time.Now})
//
//	// in a cell:
//	import "host"
//	t := host.Now()
//
// Symbol names must be exported identifiers.
func WithExports(pkg string, symbols map[string]any) Option {
	return func(c *engineConfig) {
		if c.exports == nil {
			c.exports = make(interp.Exports)
		}
		values := make(map[string]reflect.Value, len(symbols))
		for name, v := range symbols {
			values[name] = reflect.ValueOf(v)
		}
		c.exports[pkg+"/"+path.Base(pkg)] = values
	}
}

// New creates a Go engine. The initial ambient namespace is a fresh
// namespace named "session".
func New(opts ...Option) *Engine {
	cfg := engineConfig{useStdlib: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{cfg: cfg}
	e.ambient = e.NewNamespace("session")
	return e
}

// NewNamespace creates an empty namespace with its own interpreter.
func (e *Engine) NewNamespace(name string) engine.Namespace {
	inst := interp.New(interp.Options{GoPath: e.cfg.goPath})
	if e.cfg.useStdlib {
		inst.Use(stdlib.Symbols)
	}
	if len(e.cfg.exports) > 0 {
		inst.Use(e.cfg.exports)
	}
	return &Namespace{name: name, inst: inst}
}

// Exec runs src in ns. The namespace is both the read and the write
// scope; failures surface yaegi's error verbatim.
//
// Source containing an import declaration is parsed by yaegi in file
// mode, where trailing statements are invalid, so leading imports run
// in their own eval calls ahead of the remaining statements.
func (e *Engine) Exec(ctx context.Context, ns engine.Namespace, src string) error {
	gns, ok := ns.(*Namespace)
	if !ok {
		return engine.ErrForeignNamespace
	}

	imports, rest := splitImports(src)
	for _, decl := range imports {
		if _, err := gns.inst.EvalWithContext(ctx, decl); err != nil {
			return err
		}
	}
	if strings.TrimSpace(rest) == "" {
		return nil
	}
	if _, err := gns.inst.EvalWithContext(ctx, rest); err != nil {
		return err
	}
	return nil
}

// splitImports separates the import declarations at the top of src from
// the statements that follow. Blank and comment lines before an import
// are dropped; everything after the last leading import is returned
// unchanged. Source with no leading imports comes back whole.
func splitImports(src string) (imports []string, rest string) {
	lines := strings.Split(src, "\n")
	next := 0
	i := 0
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if t == "" || strings.HasPrefix(t, "//") {
			i++
			continue
		}
		if !isImportDecl(t) {
			break
		}
		end := i
		if open := strings.Index(t, "("); open >= 0 && !strings.Contains(t[open:], ")") {
			for end++; end < len(lines); end++ {
				if strings.Contains(lines[end], ")") {
					break
				}
			}
			if end == len(lines) {
				// Unterminated group; let yaegi report it.
				return nil, src
			}
		}
		imports = append(imports, strings.Join(lines[i:end+1], "\n"))
		i = end + 1
		next = i
	}
	return imports, strings.Join(lines[next:], "\n")
}

// isImportDecl reports whether line begins an import declaration rather
// than an identifier such as "importer".
func isImportDecl(line string) bool {
	after, ok := strings.CutPrefix(line, "import")
	if !ok {
		return false
	}
	return after == "" || strings.ContainsAny(after[:1], " \t(\"")
}

// Ambient returns the current ambient namespace.
func (e *Engine) Ambient() engine.Namespace {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ambient
}

// SetAmbient replaces the ambient namespace.
func (e *Engine) SetAmbient(ns engine.Namespace) {
	e.mu.Lock()
	e.ambient = ns
	e.mu.Unlock()
}
