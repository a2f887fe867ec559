package importer

import "github.com/caffeineduck/gobook/engine"

// Module is a named namespace populated from a notebook, plus the
// metadata a registry entry carries: the file it came from and the
// loader that built it.
type Module struct {
	name   string
	path   string
	loader Loader
	ns     engine.Namespace
}

// Name returns the dotted name the module was imported under.
func (m *Module) Name() string { return m.name }

// Path returns the notebook file the module was loaded from.
func (m *Module) Path() string { return m.path }

// Loader returns the loader that created the module.
func (m *Module) Loader() Loader { return m.loader }

// Namespace returns the module's binding scope.
func (m *Module) Namespace() engine.Namespace { return m.ns }

// Get returns the value bound in the module under name.
func (m *Module) Get(name string) (any, error) { return m.ns.Get(name) }
