package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/gobook/engine/golang"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestCLIHelp(t *testing.T) {
	output, err := executeCommand(rootCmd, "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedPhrases := []string{
		"gobook",
		"notebook",
		"run",
		"repl",
		"cells",
		"--path",
		"--wasm-module",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("help output should contain %q", phrase)
		}
	}
}

func TestCLIRunHelp(t *testing.T) {
	output, err := executeCommand(rootCmd, "run", "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedPhrases := []string{
		"--get",
		"--path",
		"underscores",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("run help output should contain %q", phrase)
		}
	}
}

func TestCLIReplHelp(t *testing.T) {
	output, err := executeCommand(rootCmd, "repl", "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedPhrases := []string{
		"--history",
		":import",
		":get",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("repl help output should contain %q", phrase)
		}
	}
}

func TestBuildEngineDefaultsToGo(t *testing.T) {
	eng, closeEngine, err := buildEngine(rootCmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closeEngine != nil {
		defer closeEngine()
	}

	if _, ok := eng.(*golang.Engine); !ok {
		t.Errorf("expected Go engine by default, got %T", eng)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"single line", "x := 1", "x := 1"},
		{"multi line", "x := 1\ny := 2", "x := 1 ..."},
		{"long line", strings.Repeat("a", 80), strings.Repeat("a", 72) + "..."},
		{"long multibyte line", strings.Repeat("é", 80), strings.Repeat("é", 72) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstLine(tt.src); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
