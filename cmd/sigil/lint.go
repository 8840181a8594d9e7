package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"sigil-hq/sigil/pkg/cli"
	langErrors "sigil-hq/sigil/pkg/lang/errors"
	"sigil-hq/sigil/pkg/packs"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate fact-pack files",
	Long: `Validate fact-pack files without evaluating anything.

Every fact in each pack is checked:
  - Conditional facts must have a colon after the expression
  - Expressions must pass the sanitizer (charset and keyword rules)
  - Expressions must compile
  - Regex patterns in expressions must be structurally safe

All problems are reported in one pass, with the offending fact quoted.

Examples:
  # Lint a single pack
  sigil lint --file packs/forest.yaml

  # Lint a directory
  sigil lint --dir packs/

  # JSON output for CI/CD
  sigil lint --dir packs/ --format json`,
	RunE: lintPacks,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "pack file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of pack files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the lint outcome for a single pack file.
type LintResult struct {
	File     string      `json:"file"`
	Pack     string      `json:"pack"`
	Valid    bool        `json:"valid"`
	Findings []LintIssue `json:"findings,omitempty"`
}

// LintIssue is a single finding.
type LintIssue struct {
	Index   int    `json:"index"`
	Fact    string `json:"fact"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

func lintPacks(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list pack files: %w", err)
			}
			files = append(files, matches...)
		}
		sort.Strings(files)
	}

	if len(files) == 0 {
		return fmt.Errorf("no pack files found")
	}

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintPackFile(file))
	}

	if lintFlags.format == "json" {
		return outputLintJSON(results)
	}
	return outputLintText(results)
}

func lintPackFile(path string) LintResult {
	p, findings, err := packs.LoadFile(path)
	if err != nil {
		return LintResult{
			File:  path,
			Valid: false,
			Findings: []LintIssue{
				{Index: -1, Message: err.Error()},
			},
		}
	}

	result := LintResult{File: path, Pack: p.Name, Valid: len(findings) == 0}
	for _, f := range findings {
		issue := LintIssue{
			Index:   f.Index,
			Fact:    f.Fact,
			Message: f.Err.Error(),
		}
		var le *langErrors.Error
		if errors.As(f.Err, &le) {
			issue.Type = string(le.Type)
		}
		result.Findings = append(result.Findings, issue)
	}
	return result
}

func outputLintText(results []LintResult) error {
	totalFindings := 0

	for _, result := range results {
		fmt.Printf("Linting %s...\n", result.File)

		if result.Valid {
			fmt.Println("✓ All facts valid")
		}
		for _, issue := range result.Findings {
			if issue.Index >= 0 {
				fmt.Printf("✗ fact %d %q: %s", issue.Index, issue.Fact, issue.Message)
			} else {
				fmt.Printf("✗ %s", issue.Message)
			}
			if issue.Type != "" {
				fmt.Printf(" [%s]", issue.Type)
			}
			fmt.Println()
			totalFindings++
		}
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d finding(s) in %d file(s)\n", totalFindings, len(results))

	if totalFindings > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
	}
	return nil
}

func outputLintJSON(results []LintResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return err
	}
	for _, r := range results {
		if !r.Valid {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}
