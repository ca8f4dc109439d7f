// Package main provides the regrid command that renders
// CSV files after applying row and column edits.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/domonda/go-regrid/cmd/regrid/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "regrid",
		Short: "Move, hide, insert and remove rows and columns of CSV files",
		Long: `regrid reads a CSV file into a grid, applies structural edits
in visual index space and renders the result.

Commands:
  render    Apply edits to a CSV file and render it as CSV, HTML or text table`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRenderCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
