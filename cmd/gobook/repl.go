package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/caffeineduck/gobook/engine/wasm"
	"github.com/caffeineduck/gobook/importer"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive session with notebook imports",
	Long: `Start an interactive session against the execution engine.

Lines are executed in the session's ambient namespace. Besides code, the
session understands a few commands:

  :import <module>   import a notebook by module name
  :get <name>        print a binding from the session namespace

Multi-line input continues when a line ends with \. Type 'exit' or
press Ctrl+D to quit.`,
	Run: runRepl,
}

func init() {
	replCmd.Flags().String("history", "", "History file path (default: ~/.gobook_history)")
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) {
	historyFile, _ := cmd.Flags().GetString("history")
	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".gobook_history")
	}

	eng, closeEngine, err := buildEngine(cmd)
	if err != nil {
		fatal(err)
	}
	if closeEngine != nil {
		defer closeEngine()
	}

	host := buildHost(cmd, eng)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            ">>> ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fatal(fmt.Errorf("initializing readline: %w", err))
	}
	defer rl.Close()

	fmt.Fprintln(os.Stderr, "gobook REPL (:import <module> to import a notebook, 'exit' to quit)")

	var multiLine strings.Builder
	inMultiLine := false

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if inMultiLine {
					multiLine.Reset()
					inMultiLine = false
					rl.SetPrompt(">>> ")
				}
				continue
			}
			if err == io.EOF {
				fmt.Println()
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			break
		}

		if strings.HasSuffix(line, "\\") {
			multiLine.WriteString(strings.TrimSuffix(line, "\\"))
			multiLine.WriteString("\n")
			inMultiLine = true
			rl.SetPrompt("... ")
			continue
		}

		if inMultiLine {
			multiLine.WriteString(line)
			line = multiLine.String()
			multiLine.Reset()
			inMultiLine = false
			rl.SetPrompt(">>> ")
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		if strings.HasPrefix(line, ":") {
			replCommand(host, line)
			continue
		}

		ns := eng.Ambient()
		if err := eng.Exec(context.Background(), ns, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if wns, ok := ns.(*wasm.Namespace); ok {
			if out := wns.Output(); out != "" {
				fmt.Print(out)
				if !strings.HasSuffix(out, "\n") {
					fmt.Println()
				}
			}
		}
	}
}

func replCommand(host *importer.Host, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":import":
		if len(fields) != 2 {
			fmt.Fprintln(os.Stderr, "usage: :import <module>")
			return
		}
		mod, err := host.Import(context.Background(), fields[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("imported %s from %s\n", mod.Name(), mod.Path())

	case ":get":
		if len(fields) != 2 {
			fmt.Fprintln(os.Stderr, "usage: :get <name>")
			return
		}
		v, err := host.Engine().Ambient().Get(fields[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("%s = %v\n", fields[1], v)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %s\n", fields[0])
	}
}
