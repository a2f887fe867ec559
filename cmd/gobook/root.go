package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/caffeineduck/gobook/engine"
	"github.com/caffeineduck/gobook/engine/golang"
	"github.com/caffeineduck/gobook/engine/wasm"
	"github.com/caffeineduck/gobook/importer"
)

var rootCmd = &cobra.Command{
	Use:   "gobook",
	Short: "Import notebooks as modules",
	Long: `gobook - Import Jupyter-style notebooks as modules.

Notebook code cells are executed in order into a fresh module namespace,
so a notebook's definitions can be used like any other module. Narrative
cells are skipped. By default cells run on an embedded Go interpreter;
use --wasm-module to run them in a sandboxed WASI interpreter instead.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceP("path", "p", nil, "Notebook search directory (repeatable, default: current directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log import activity")
	rootCmd.PersistentFlags().Bool("raw-cells", false, "Execute cell source verbatim (keep % and ! directive lines)")
	rootCmd.PersistentFlags().String("wasm-module", "", "WASI interpreter binary; switches execution to the wasm engine")
	rootCmd.PersistentFlags().StringSlice("wasm-arg", nil, "Argv for the WASI interpreter; {} is replaced by the source (repeatable)")
}

// buildEngine constructs the execution engine selected by flags. The
// returned close func releases engine resources and may be nil.
func buildEngine(cmd *cobra.Command) (engine.Engine, func(), error) {
	wasmModule, _ := cmd.Flags().GetString("wasm-module")
	if wasmModule == "" {
		return golang.New(), nil, nil
	}

	argv, _ := cmd.Flags().GetStringSlice("wasm-arg")
	if len(argv) == 0 {
		argv = []string{"interp", "-c", "{}"}
	}

	interp, err := wasm.LoadInterpreter("cli", wasmModule, func(source string) []string {
		args := make([]string, len(argv))
		for i, a := range argv {
			args[i] = strings.ReplaceAll(a, "{}", source)
		}
		return args
	})
	if err != nil {
		return nil, nil, err
	}

	eng, err := wasm.New(interp)
	if err != nil {
		return nil, nil, err
	}
	return eng, func() { eng.Close() }, nil
}

// buildHost wires a host from the engine and the persistent flags.
func buildHost(cmd *cobra.Command, eng engine.Engine) *importer.Host {
	path, _ := cmd.Flags().GetStringSlice("path")
	verbose, _ := cmd.Flags().GetBool("verbose")
	rawCells, _ := cmd.Flags().GetBool("raw-cells")

	hostOpts := []importer.HostOption{importer.WithPath(path...)}
	if verbose {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			Level: log.DebugLevel,
		})
		hostOpts = append(hostOpts, importer.WithLogger(logger))
	}

	host := importer.NewHost(eng, hostOpts...)

	finderOpts := []importer.Option{importer.WithTransformer(importer.StripDirectives())}
	if rawCells {
		finderOpts = []importer.Option{importer.WithTransformer(importer.Identity)}
	}
	importer.Install(host, finderOpts...)
	return host
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
