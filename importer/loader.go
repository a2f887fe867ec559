package importer

import (
	"context"
	"fmt"

	"github.com/caffeineduck/gobook/engine"
	"github.com/caffeineduck/gobook/notebook"
)

// CellError reports a failure while transforming or executing one code
// cell. The partially populated module stays registered; Cell is the
// zero-based index of the failed cell within the document.
type CellError struct {
	Module string
	Cell   int
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("module %s: cell %d: %v", e.Module, e.Cell, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// NotebookLoader loads notebooks found under one search path. The path
// is the loader's only stored resolution state; the file location is
// re-resolved on every Load.
type NotebookLoader struct {
	host        *Host
	path        []string
	transformer Transformer
}

// Path returns a copy of the search path the loader is bound to.
func (l *NotebookLoader) Path() []string {
	return append([]string(nil), l.path...)
}

// Load imports the notebook for name and returns the populated module.
//
// The module is registered before any cell runs, so a document importing
// itself observes its partial state instead of recursing. While cells
// execute, the engine's ambient namespace points at the module and is
// restored on every exit path; nested imports therefore restore in
// reverse order of entry. A cell failure stops execution and surfaces as
// a *CellError with the partial module still registered.
func (l *NotebookLoader) Load(ctx context.Context, name string) (*Module, error) {
	path, err := FindNotebook(name, l.path)
	if err != nil {
		return nil, err
	}

	nb, err := notebook.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	l.host.logger.Debug("importing notebook", "module", name, "path", path)

	eng := l.host.Engine()
	mod := &Module{
		name:   name,
		path:   path,
		loader: l,
		ns:     eng.NewNamespace(name),
	}
	l.host.Register(name, mod)

	restore := engine.Swap(eng, mod.ns)
	defer restore()

	for i, cell := range nb.Cells {
		if cell.Type != notebook.Code {
			continue
		}

		src, err := l.transformer.Transform(cell.Source)
		if err != nil {
			return nil, &CellError{Module: name, Cell: i, Err: err}
		}
		if err := eng.Exec(ctx, mod.ns, src); err != nil {
			return nil, &CellError{Module: name, Cell: i, Err: err}
		}
	}

	return mod, nil
}
