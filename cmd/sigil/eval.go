package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sigil-hq/sigil/pkg/cli"
	"sigil-hq/sigil/pkg/config"
	"sigil-hq/sigil/pkg/lang/expr"
	"sigil-hq/sigil/pkg/lang/fact"
	"sigil-hq/sigil/pkg/packs"
	"sigil-hq/sigil/pkg/store"
)

var evalFlags struct {
	file      string
	sets      []string
	storePath string
	trace     bool
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a fact pack",
	Long: `Evaluate the facts in a pack and print the active ones.

Context values are supplied with repeated --set key=value flags. Values
are parsed as booleans or numbers where possible, strings otherwise.
With --store, the hasFact builtin looks subjects up in the given fact
database; without it, hasFact always reports false.

By default the first bad fact aborts the whole batch. With --trace each
fact is evaluated in isolation and every outcome is printed, including
failures.

Examples:
  # Evaluate with context values
  sigil eval --file packs/forest.yaml --set mood=calm --set level=3

  # Use the fact store for hasFact lookups
  sigil eval --file packs/forest.yaml --store data/facts.db

  # Show every outcome instead of aborting on the first error
  sigil eval --file packs/forest.yaml --trace`,
	RunE: evalPack,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalFlags.file, "file", "f", "", "pack file to evaluate (required)")
	evalCmd.Flags().StringArrayVar(&evalFlags.sets, "set", nil, "context value as key=value (repeatable)")
	evalCmd.Flags().StringVar(&evalFlags.storePath, "store", "", "fact database for hasFact lookups")
	evalCmd.Flags().BoolVar(&evalFlags.trace, "trace", false, "evaluate each fact in isolation and print every outcome")
	evalCmd.MarkFlagRequired("file")
}

func evalPack(cmd *cobra.Command, args []string) error {
	p, findings, err := packs.LoadFile(evalFlags.file)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}
	for _, f := range findings {
		fmt.Printf("⚠  %s\n", f)
	}

	hasFact := func(string) (bool, error) { return false, nil }
	if evalFlags.storePath != "" {
		s, err := store.Open(config.StoreConfig{Path: evalFlags.storePath})
		if err != nil {
			return cli.NewCommandError("eval", err)
		}
		defer s.Close()
		hasFact = s.HasFactFunc(context.Background())
	}

	evalCtx := expr.NewBaseContext(hasFact)
	for _, pair := range evalFlags.sets {
		key, value, err := parseSet(pair)
		if err != nil {
			return cli.NewCommandError("eval", err)
		}
		evalCtx[key] = value
	}

	if evalFlags.trace {
		results := fact.EvaluateTraced(p.Facts, evalCtx)
		for _, res := range results {
			switch {
			case res.Err != nil:
				fmt.Printf("! %q: %v\n", res.Raw, res.Err)
			case res.Active:
				fmt.Printf("✓ %s\n", res.Fact.Content)
			default:
				fmt.Printf("✗ %q\n", res.Raw)
			}
		}
		return nil
	}

	active, err := fact.EvaluateAll(p.Facts, evalCtx)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}
	for _, content := range active {
		fmt.Println(content)
	}
	return nil
}

// parseSet splits "key=value" and coerces the value: booleans and
// numbers keep their type, everything else stays a string.
func parseSet(pair string) (string, any, error) {
	key, raw, found := strings.Cut(pair, "=")
	if !found || key == "" {
		return "", nil, fmt.Errorf("invalid --set %q, expected key=value", pair)
	}

	switch raw {
	case "true":
		return key, true, nil
	case "false":
		return key, false, nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return key, n, nil
	}
	return key, raw, nil
}
