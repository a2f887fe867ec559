package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/gobook/notebook"
)

var cellsCmd = &cobra.Command{
	Use:   "cells <file>",
	Short: "List the cells of a notebook file",
	Args:  cobra.ExactArgs(1),
	Run:   runCells,
}

func init() {
	rootCmd.AddCommand(cellsCmd)
}

func runCells(cmd *cobra.Command, args []string) {
	nb, err := notebook.ReadFile(args[0])
	if err != nil {
		fatal(err)
	}

	for i, cell := range nb.Cells {
		fmt.Printf("%3d  %-8s  %s\n", i, cell.Type, firstLine(cell.Source))
	}
}

func firstLine(source string) string {
	line := source
	if idx := strings.IndexByte(source, '\n'); idx != -1 {
		line = source[:idx] + " ..."
	}
	if runes := []rune(line); len(runes) > 72 {
		line = string(runes[:72]) + "..."
	}
	return line
}
