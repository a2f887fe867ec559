// Package engine defines the interpreter abstraction notebooks execute on.
package engine

import (
	"context"
	"errors"
)

var (
	// ErrUndefined is returned by Namespace.Get when no binding exists
	// under the requested name.
	ErrUndefined = errors.New("name not defined")

	// ErrOpaqueNamespace is returned by Namespace.Get when the engine
	// cannot expose individual bindings (sandboxed engines report
	// output instead).
	ErrOpaqueNamespace = errors.New("namespace does not expose bindings")

	// ErrForeignNamespace is returned by Engine.Exec when handed a
	// namespace created by a different engine.
	ErrForeignNamespace = errors.New("namespace belongs to a different engine")
)

// Namespace is a named variable-binding scope owned by an Engine.
type Namespace interface {
	// Name returns the identifier the namespace was created under.
	Name() string

	// Get returns the value bound to name, ErrUndefined if absent, or
	// ErrOpaqueNamespace if the engine cannot inspect bindings.
	Get(name string) (any, error)
}

// Engine executes source code against namespaces. Exec uses the given
// namespace as both the read and the write scope, so later executions
// against the same namespace see bindings from earlier ones.
//
// Engines also carry an ambient namespace: the implicit scope that
// interactive callers (a REPL, top-level helpers) execute against when
// they name no namespace explicitly. The importer temporarily points it
// at the module under construction so that ambient-scoped code run by a
// cell lands in the module, not in the interactive session.
type Engine interface {
	// NewNamespace creates a fresh, empty namespace.
	NewNamespace(name string) Namespace

	// Exec runs src with ns as both read and write scope.
	Exec(ctx context.Context, ns Namespace, src string) error

	// Ambient returns the current ambient namespace.
	Ambient() Namespace

	// SetAmbient replaces the ambient namespace.
	SetAmbient(ns Namespace)
}

// Swap points the engine's ambient namespace at ns and returns a restore
// function reinstating the previous value. Callers must invoke restore on
// every exit path, normally via defer; nested swaps then restore in
// last-swapped, first-restored order.
func Swap(e Engine, ns Namespace) (restore func()) {
	prev := e.Ambient()
	e.SetAmbient(ns)
	return func() { e.SetAmbient(prev) }
}
