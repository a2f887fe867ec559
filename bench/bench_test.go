// Package bench benchmarks the import pipeline.
//
// Benchmarks: go test -bench=. ./bench/
package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/caffeineduck/gobook/engine/golang"
	"github.com/caffeineduck/gobook/importer"
)

const benchDoc = `{
	"cells": [
		{"cell_type": "markdown", "source": "# bench"},
		{"cell_type": "code", "source": "x := 1"},
		{"cell_type": "code", "source": "y := x + 1"}
	]
}`

func benchDir(b *testing.B) string {
	b.Helper()
	dir := b.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bench.ipynb"), []byte(benchDoc), 0644); err != nil {
		b.Fatal(err)
	}
	return dir
}

// --- Resolution ---

func BenchmarkFindNotebook(b *testing.B) {
	dir := benchDir(b)
	path := []string{dir}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := importer.FindNotebook("bench", path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFindNotebookMiss(b *testing.B) {
	dir := benchDir(b)
	path := []string{dir}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		importer.FindNotebook("missing", path)
	}
}

// --- Registry hit: re-import of an already-registered name ---

func BenchmarkReimport(b *testing.B) {
	dir := benchDir(b)
	host := importer.NewHost(golang.New(), importer.WithPath(dir))
	importer.Install(host)
	ctx := context.Background()

	if _, err := host.Import(ctx, "bench"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := host.Import(ctx, "bench"); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Full pipeline: resolve, read, execute ---

func BenchmarkImportColdName(b *testing.B) {
	dir := benchDir(b)
	host := importer.NewHost(golang.New(), importer.WithPath(dir))
	importer.Install(host)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// A fresh dotted prefix gives each iteration an unregistered
		// name resolving to the same document.
		name := fmt.Sprintf("iter%d.bench", i)
		if _, err := host.Import(ctx, name); err != nil {
			b.Fatal(err)
		}
	}
}
