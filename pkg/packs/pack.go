package packs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"sigil-hq/sigil/pkg/lang/expr"
	"sigil-hq/sigil/pkg/lang/fact"
)

// Pack is a named collection of raw facts loaded from one YAML file.
type Pack struct {
	Name    string   `yaml:"name"`
	Version int      `yaml:"version"`
	Facts   []string `yaml:"facts"`

	// Path is the file the pack was loaded from. Not part of the YAML.
	Path string `yaml:"-"`
}

// Finding is one lint problem in a pack.
type Finding struct {
	Pack  string
	Path  string
	Index int
	Fact  string
	Err   error
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: fact %d %q: %v", f.Pack, f.Index, f.Fact, f.Err)
}

// LoadFile reads and lints a single pack file. The pack is returned even
// when findings are present so callers can decide whether to keep it.
func LoadFile(path string) (*Pack, []Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read pack file: %w", err)
	}

	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, nil, fmt.Errorf("failed to parse pack file %q: %w", path, err)
	}
	p.Path = path

	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &p, Lint(&p), nil
}

// Lint checks every fact in the pack. Conditional facts have their
// expressions compiled so syntax and sanitizer problems surface before
// any evaluation. All findings are collected, not just the first.
func Lint(p *Pack) []Finding {
	var findings []Finding
	for i, raw := range p.Facts {
		f, err := fact.Parse(raw)
		if err != nil {
			findings = append(findings, Finding{Pack: p.Name, Path: p.Path, Index: i, Fact: raw, Err: err})
			continue
		}
		if !f.Conditional {
			continue
		}
		if _, err := expr.Compile(f.Expression); err != nil {
			findings = append(findings, Finding{Pack: p.Name, Path: p.Path, Index: i, Fact: raw, Err: err})
		}
	}
	return findings
}

// LoadDir loads every .yaml/.yml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Pack, []Finding, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read pack directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	var packs []*Pack
	var findings []Finding
	for _, path := range paths {
		p, fs, err := LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		packs = append(packs, p)
		findings = append(findings, fs...)
	}
	return packs, findings, nil
}
