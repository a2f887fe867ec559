// Package gobook makes Jupyter-style notebooks importable as modules.
//
// # Overview
//
// A notebook is an ordered sequence of code and narrative cells. gobook
// resolves dotted module names to notebook files, executes the code
// cells in order into a fresh namespace, and registers the result in a
// module registry, so a notebook's definitions can be used like any
// other module.
//
// # Basic Usage
//
//	host := importer.NewHost(golang.New(), importer.WithPath("notebooks"))
//	importer.Install(host)
//
//	mod, _ := host.Import(ctx, "analysis")
//	total, _ := mod.Get("total")
//
// Module names resolve like imports: only the last dotted segment is
// used, "Foo_Bar" falls back to "Foo Bar.ipynb", and directories are
// searched in order.
//
// # Engines
//
// Cells execute on an engine. The golang engine interprets Go cells
// in-process with full binding access; the wasm engine replays cells
// inside a sandboxed WASI interpreter and reports captured output
// instead of bindings.
//
// See the [importer], [notebook], [engine/golang], and [engine/wasm]
// packages for detailed API documentation.
package gobook
