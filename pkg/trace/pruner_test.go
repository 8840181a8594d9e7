package trace

import (
	"context"
	"testing"
	"time"

	"sigil-hq/sigil/pkg/config"
)

func TestPruner_Prune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	old := &Trace{ID: "old", BatchID: "b", Raw: "x", CreatedAt: time.Now().UTC().AddDate(0, 0, -30)}
	fresh := &Trace{ID: "fresh", BatchID: "b", Raw: "y"}
	for _, tr := range []*Trace{old, fresh} {
		if err := s.Insert(ctx, tr); err != nil {
			t.Fatal(err)
		}
	}

	p := NewPruner(s, config.TraceConfig{RetentionDays: 14})
	deleted, err := p.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d, want 1", deleted)
	}
}

func TestPruner_ZeroRetentionKeepsEverything(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	old := &Trace{ID: "old", BatchID: "b", Raw: "x", CreatedAt: time.Now().UTC().AddDate(0, 0, -365)}
	if err := s.Insert(ctx, old); err != nil {
		t.Fatal(err)
	}

	p := NewPruner(s, config.TraceConfig{RetentionDays: 0})
	deleted, err := p.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted %d, want 0", deleted)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}
