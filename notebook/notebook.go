// Package notebook reads Jupyter-style notebook containers into ordered
// cell sequences.
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Ext is the on-disk extension for notebook documents.
const Ext = ".ipynb"

// CellType distinguishes executable cells from narrative ones.
type CellType string

const (
	Code     CellType = "code"
	Markdown CellType = "markdown"
	Raw      CellType = "raw"
)

// Cell is one block of a notebook. Order within the document is
// significant: later code cells see bindings created by earlier ones.
type Cell struct {
	Type   CellType
	Source string
}

// Notebook is an ordered sequence of cells plus the path it was read
// from, when known.
type Notebook struct {
	Path  string
	Cells []Cell
}

// CodeCells returns only the executable cells, in document order.
func (nb *Notebook) CodeCells() []Cell {
	var cells []Cell
	for _, c := range nb.Cells {
		if c.Type == Code {
			cells = append(cells, c)
		}
	}
	return cells
}

// FormatError reports a document that exists but cannot be parsed into
// cells.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed notebook: %v", e.Err)
	}
	return fmt.Sprintf("malformed notebook %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// rawCell mirrors the nbformat JSON shape. Source appears both as a
// single string and as an array of line strings in the wild.
type rawCell struct {
	CellType string     `json:"cell_type"`
	Source   cellSource `json:"source"`
}

type rawNotebook struct {
	Cells []rawCell `json:"cells"`
}

type cellSource string

func (s *cellSource) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = cellSource(single)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("cell source must be a string or an array of strings")
	}
	*s = cellSource(strings.Join(lines, ""))
	return nil
}

// Read parses a notebook container from r. It returns a *FormatError if
// the stream is not a notebook document.
func Read(r io.Reader) (*Notebook, error) {
	var raw rawNotebook
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, &FormatError{Err: err}
	}
	if raw.Cells == nil {
		return nil, &FormatError{Err: fmt.Errorf("missing cells array")}
	}

	nb := &Notebook{Cells: make([]Cell, 0, len(raw.Cells))}
	for i, c := range raw.Cells {
		var typ CellType
		switch c.CellType {
		case "code":
			typ = Code
		case "markdown":
			typ = Markdown
		case "raw":
			typ = Raw
		case "":
			return nil, &FormatError{Err: fmt.Errorf("cell %d: missing cell_type", i)}
		default:
			// Unknown cell kinds are carried through as non-code so
			// documents from newer tools still import.
			typ = Raw
		}
		nb.Cells = append(nb.Cells, Cell{Type: typ, Source: string(c.Source)})
	}
	return nb, nil
}

// ReadFile reads and parses the notebook at path.
func ReadFile(path string) (*Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nb, err := Read(f)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	nb.Path = path
	return nb, nil
}
