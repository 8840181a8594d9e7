package trace

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "traces.db"))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_InsertAndBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	traces := []*Trace{
		{ID: "t1", BatchID: "b1", Raw: "$if random(1): glows", Expression: "random(1)", Active: true, Duration: 12 * time.Microsecond},
		{ID: "t2", BatchID: "b1", Raw: "plain", Active: true},
		{ID: "t3", BatchID: "b1", Raw: "$if ghost: spooky", Expression: "ghost", Error: "unknown identifier"},
		{ID: "t4", BatchID: "b2", Raw: "other batch", Active: true},
	}
	for _, tr := range traces {
		if err := s.Insert(ctx, tr); err != nil {
			t.Fatalf("Insert(%s) error = %v", tr.ID, err)
		}
	}

	got, err := s.Batch(ctx, "b1")
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Batch(b1) returned %d traces, want 3", len(got))
	}
	if got[0].ID != "t1" || !got[0].Active || got[0].Duration != 12*time.Microsecond {
		t.Errorf("trace 0 = %+v", got[0])
	}
	if got[2].Error != "unknown identifier" || got[2].Active {
		t.Errorf("trace 2 = %+v, want inactive with error", got[2])
	}

	n, err := s.Count(ctx)
	if err != nil || n != 4 {
		t.Errorf("Count() = %d, %v, want 4", n, err)
	}
}

func TestStore_DeleteBefore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	old := &Trace{ID: "old", BatchID: "b", Raw: "x", CreatedAt: time.Now().UTC().AddDate(0, 0, -30)}
	fresh := &Trace{ID: "fresh", BatchID: "b", Raw: "y"}
	for _, tr := range []*Trace{old, fresh} {
		if err := s.Insert(ctx, tr); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := s.DeleteBefore(ctx, time.Now().UTC().AddDate(0, 0, -14))
	if err != nil {
		t.Fatalf("DeleteBefore() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteBefore() deleted %d, want 1", deleted)
	}

	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("Count() after prune = %d, want 1", n)
	}
}

func TestOpenStore_EmptyPath(t *testing.T) {
	if _, err := OpenStore(""); err == nil {
		t.Error("OpenStore(\"\") = nil, want error")
	}
}
