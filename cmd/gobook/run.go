package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/gobook/engine/wasm"
)

var runCmd = &cobra.Command{
	Use:   "run <module>",
	Short: "Import a notebook and print its results",
	Long: `Import a notebook by module name and execute its code cells.

The name resolves like an import: the last dotted segment plus ".ipynb",
searched through --path directories in order, falling back to a filename
with underscores replaced by spaces.

Use --get to print module bindings after the import:
  gobook run analysis --get total --get mean`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringSlice("get", nil, "Binding to print after import (repeatable)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	eng, closeEngine, err := buildEngine(cmd)
	if err != nil {
		fatal(err)
	}
	if closeEngine != nil {
		defer closeEngine()
	}

	host := buildHost(cmd, eng)

	mod, err := host.Import(context.Background(), args[0])
	if err != nil {
		fatal(err)
	}

	// Sandboxed namespaces have no inspectable bindings; their result is
	// the captured output.
	if ns, ok := mod.Namespace().(*wasm.Namespace); ok {
		fmt.Print(ns.Output())
		return
	}

	names, _ := cmd.Flags().GetStringSlice("get")
	for _, name := range names {
		v, err := mod.Get(name)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s = %v\n", name, v)
	}
}
