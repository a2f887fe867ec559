package importer_test

import (
	"context"
	"sync"

	"github.com/caffeineduck/gobook/engine"
)

// fakeEngine implements engine.Engine for importer tests without the
// weight of a real interpreter. Exec records every call and defers to an
// optional onExec hook, which tests use to simulate evaluation or to
// trigger nested imports.
type fakeEngine struct {
	mu      sync.Mutex
	ambient engine.Namespace
	execs   []execRecord
	onExec  func(ns *fakeNamespace, src string) error
}

type execRecord struct {
	ns      string
	src     string
	ambient string
}

type fakeNamespace struct {
	name     string
	bindings map[string]any
}

func (ns *fakeNamespace) Name() string { return ns.name }

func (ns *fakeNamespace) Get(name string) (any, error) {
	if v, ok := ns.bindings[name]; ok {
		return v, nil
	}
	return nil, engine.ErrUndefined
}

func newFakeEngine() *fakeEngine {
	e := &fakeEngine{}
	e.ambient = e.NewNamespace("session")
	return e
}

func (e *fakeEngine) NewNamespace(name string) engine.Namespace {
	return &fakeNamespace{name: name, bindings: make(map[string]any)}
}

func (e *fakeEngine) Exec(ctx context.Context, ns engine.Namespace, src string) error {
	fns, ok := ns.(*fakeNamespace)
	if !ok {
		return engine.ErrForeignNamespace
	}

	e.mu.Lock()
	e.execs = append(e.execs, execRecord{ns: fns.name, src: src, ambient: e.ambient.Name()})
	hook := e.onExec
	e.mu.Unlock()

	if hook != nil {
		return hook(fns, src)
	}
	return nil
}

func (e *fakeEngine) Ambient() engine.Namespace {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ambient
}

func (e *fakeEngine) SetAmbient(ns engine.Namespace) {
	e.mu.Lock()
	e.ambient = ns
	e.mu.Unlock()
}

func (e *fakeEngine) execCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.execs)
}

func (e *fakeEngine) ambientTrace() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	trace := make([]string, len(e.execs))
	for i, rec := range e.execs {
		trace[i] = rec.ambient
	}
	return trace
}
