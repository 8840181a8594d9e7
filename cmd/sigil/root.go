package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sigil",
	Short: "Sigil - conditional facts for untrusted authors",
	Long: `Sigil lets untrusted authors attach boolean conditions to text facts.

A fact is a plain string; prefixing it with "$if <expression>: " makes it
conditional. Expressions are evaluated in a restricted sandbox:
  - A fixed set of builtins (random, roll, hasFact, match, search, replace, time)
  - Values from the evaluation context, nothing else
  - Structural validation of regex patterns before compilation

For more information, visit: https://github.com/sigil-hq/sigil`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
