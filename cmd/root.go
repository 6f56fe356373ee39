// Package cmd wires the cobra CLI surface: positional-argument config
// parsing, link dialing, logger construction, and the router's event loop.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "asrouter",
	Short: "AS path-vector router",
	Long:  `asrouter is a single-process router that speaks a simplified, JSON-framed BGP-style path-vector protocol over local sequenced-packet links.`,
}

// Execute runs the root command. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
