package store

import (
	"context"
	"path/filepath"
	"testing"

	"sigil-hq/sigil/pkg/config"
	"sigil-hq/sigil/pkg/lang/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "facts.db"),
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "wolf", "a grey wolf prowls the treeline"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	f, ok, err := s.Get(ctx, "wolf")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", f, ok, err)
	}
	if f.Content != "a grey wolf prowls the treeline" {
		t.Errorf("Content = %q", f.Content)
	}

	// Upsert replaces content.
	if err := s.Put(ctx, "wolf", "the wolf is gone"); err != nil {
		t.Fatalf("Put() upsert error = %v", err)
	}
	f, _, _ = s.Get(ctx, "wolf")
	if f.Content != "the wolf is gone" {
		t.Errorf("Content after upsert = %q", f.Content)
	}

	if err := s.Delete(ctx, "wolf"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "wolf"); ok {
		t.Error("Get() after delete found the fact")
	}

	// Deleting again is fine.
	if err := s.Delete(ctx, "wolf"); err != nil {
		t.Errorf("Delete() of missing fact = %v", err)
	}
}

func TestPut_EmptySubject(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put(context.Background(), "", "content"); err == nil {
		t.Error("Put() with empty subject = nil, want error")
	}
}

func TestHasAndMatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, subject := range []string{"wolf-alpha", "wolf-beta", "raven"} {
		if err := s.Put(ctx, subject, "seen"); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		pattern string
		want    bool
		wantErr bool
	}{
		{"exact subject", "raven", true, false},
		{"prefix pattern", "^wolf-", true, false},
		{"no match", "^bear", false, false},
		{"class pattern", "wolf-[ab]", true, false},
		{"unsafe pattern rejected", "(a+)+", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Match(ctx, tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Match(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.IsType(err, errors.TypeRegexSafety) {
					t.Errorf("Match(%q) error type = %v, want regex safety", tt.pattern, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestHasFactFunc(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "wolf", "seen"); err != nil {
		t.Fatal(err)
	}

	hasFact := s.HasFactFunc(ctx)

	if ok, err := hasFact("wolf"); err != nil || !ok {
		t.Errorf("hasFact(wolf) = %v, %v, want true", ok, err)
	}
	if ok, err := hasFact("wol."); err != nil || !ok {
		t.Errorf("hasFact(wol.) = %v, %v, want true via pattern scan", ok, err)
	}
	if ok, err := hasFact("cat"); err != nil || ok {
		t.Errorf("hasFact(cat) = %v, %v, want false", ok, err)
	}
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if facts, err := s.List(ctx); err != nil || len(facts) != 0 {
		t.Fatalf("List() on empty store = %v, %v", facts, err)
	}

	s.Put(ctx, "b", "two")
	s.Put(ctx, "a", "one")

	facts, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(facts) != 2 || facts[0].Subject != "a" || facts[1].Subject != "b" {
		t.Errorf("List() = %+v, want sorted [a b]", facts)
	}
}
