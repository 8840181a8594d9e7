package packs

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds the currently loaded packs and supports atomic reload.
type Registry struct {
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	packs []*Pack
}

// NewRegistry creates a registry for the given pack directory. Call
// Reload to perform the initial load.
func NewRegistry(dir string) *Registry {
	return &Registry{
		dir:    dir,
		logger: slog.Default().With("component", "packs"),
	}
}

// Reload re-reads the pack directory. On a read or YAML error the
// previous pack set is kept. Lint findings do not fail the reload; they
// are logged and returned so callers can surface them to authors.
func (r *Registry) Reload() ([]Finding, error) {
	packs, findings, err := LoadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("pack reload failed: %w", err)
	}

	for _, f := range findings {
		r.logger.Warn("pack lint finding",
			"pack", f.Pack,
			"index", f.Index,
			"error", f.Err,
		)
	}

	r.mu.Lock()
	r.packs = packs
	r.mu.Unlock()

	r.logger.Info("packs loaded", "dir", r.dir, "packs", len(packs), "findings", len(findings))
	return findings, nil
}

// Packs returns the current pack set.
func (r *Registry) Packs() []*Pack {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.packs
}

// Pack returns a pack by name.
func (r *Registry) Pack(name string) (*Pack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.packs {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Facts returns every raw fact across all loaded packs, in pack order.
func (r *Registry) Facts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var facts []string
	for _, p := range r.packs {
		facts = append(facts, p.Facts...)
	}
	return facts
}
