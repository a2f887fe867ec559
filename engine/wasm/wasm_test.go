package wasm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/caffeineduck/gobook/engine"
	"github.com/caffeineduck/gobook/engine/wasm"
)

func passthroughArgs(source string) []string {
	return []string{"interp", "-c", source}
}

func newTestEngine(t *testing.T, module []byte) *wasm.Engine {
	t.Helper()
	interp := wasm.NewInterpreter("test", module, passthroughArgs)
	eng, err := wasm.New(interp)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestNamespaceIsOpaque(t *testing.T) {
	eng := newTestEngine(t, nil)
	ns := eng.NewNamespace("mod")

	if _, err := ns.Get("x"); !errors.Is(err, engine.ErrOpaqueNamespace) {
		t.Errorf("expected ErrOpaqueNamespace, got %v", err)
	}
}

func TestExecRejectsForeignNamespace(t *testing.T) {
	eng := newTestEngine(t, nil)

	err := eng.Exec(context.Background(), foreignNamespace{}, "x = 1")
	if !errors.Is(err, engine.ErrForeignNamespace) {
		t.Errorf("expected ErrForeignNamespace, got %v", err)
	}
}

type foreignNamespace struct{}

func (foreignNamespace) Name() string            { return "foreign" }
func (foreignNamespace) Get(string) (any, error) { return nil, engine.ErrUndefined }

func TestExecInvalidModuleFails(t *testing.T) {
	eng := newTestEngine(t, []byte("not a wasm binary"))
	ns := eng.NewNamespace("mod")

	err := eng.Exec(context.Background(), ns, "x = 1")
	if err == nil {
		t.Fatal("expected compile error")
	}

	// Failed runs must not advance namespace state.
	wns := ns.(*wasm.Namespace)
	if wns.Output() != "" {
		t.Errorf("expected empty output after failure, got %q", wns.Output())
	}
}

func TestAmbientSwap(t *testing.T) {
	eng := newTestEngine(t, nil)
	orig := eng.Ambient()
	if orig == nil {
		t.Fatal("expected a default ambient namespace")
	}

	mod := eng.NewNamespace("mod")
	restore := engine.Swap(eng, mod)
	if eng.Ambient() != mod {
		t.Fatal("ambient not swapped")
	}
	restore()
	if eng.Ambient() != orig {
		t.Fatal("ambient not restored")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	interp := wasm.NewInterpreter("test", nil, passthroughArgs)
	eng, err := wasm.New(interp)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	if err := eng.Close(); err != nil {
		t.Errorf("first close failed: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}

func TestLoadInterpreterMissingFile(t *testing.T) {
	_, err := wasm.LoadInterpreter("test", "/does/not/exist.wasm", passthroughArgs)
	if err == nil {
		t.Error("expected error for missing binary")
	}
}
