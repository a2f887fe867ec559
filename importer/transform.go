package importer

import "strings"

// Transformer rewrites a cell's raw source into statements the engine
// can execute. Cells already written in the engine's native syntax need
// no transformation.
type Transformer interface {
	Transform(source string) (string, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(source string) (string, error)

func (f TransformerFunc) Transform(source string) (string, error) { return f(source) }

// Identity passes cell source through unchanged.
var Identity Transformer = TransformerFunc(func(source string) (string, error) {
	return source, nil
})

// StripDirectives removes notebook directive lines: lines whose first
// non-blank character is '%' (magics) or '!' (shell escapes). These are
// notebook-dialect extensions, not statements the engine understands.
func StripDirectives() Transformer {
	return TransformerFunc(func(source string) (string, error) {
		lines := strings.Split(source, "\n")
		kept := lines[:0]
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "%") || strings.HasPrefix(trimmed, "!") {
				continue
			}
			kept = append(kept, line)
		}
		return strings.Join(kept, "\n"), nil
	})
}

// Chain applies transformers left to right.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(source string) (string, error) {
		var err error
		for _, t := range transformers {
			source, err = t.Transform(source)
			if err != nil {
				return "", err
			}
		}
		return source, nil
	})
}
