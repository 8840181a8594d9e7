package fact

import (
	"reflect"
	"testing"

	"sigil-hq/sigil/pkg/lang/expr"
)

func testContext() expr.Context {
	ctx := expr.NewBaseContext(func(pattern string) (bool, error) {
		return pattern == "wolf", nil
	})
	ctx["mood"] = "calm"
	return ctx
}

func TestEvaluateAll(t *testing.T) {
	tests := []struct {
		name    string
		raws    []string
		want    []string
		wantErr bool
	}{
		{
			name: "plain facts always kept",
			raws: []string{"one", "two"},
			want: []string{"one", "two"},
		},
		{
			name: "true condition kept, false dropped",
			raws: []string{"$if random(1): glows", "plain", "$if random(0): hidden"},
			want: []string{"glows", "plain"},
		},
		{
			name: "context condition",
			raws: []string{"$if mood == 'calm': purrs", "$if mood == 'angry': growls"},
			want: []string{"purrs"},
		},
		{
			name: "hasFact condition",
			raws: []string{"$if hasFact('wolf'): howls", "$if hasFact('cat'): meows"},
			want: []string{"howls"},
		},
		{
			name:    "parse error aborts batch",
			raws:    []string{"fine", "$if broken"},
			wantErr: true,
		},
		{
			name:    "evaluation error aborts batch",
			raws:    []string{"fine", "$if ghost: spooky"},
			wantErr: true,
		},
		{
			name: "empty batch",
			raws: nil,
			want: []string{},
		},
	}

	ctx := testContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateAll(tt.raws, ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EvaluateAll() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EvaluateAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateTraced(t *testing.T) {
	ctx := testContext()
	raws := []string{
		"plain",
		"$if random(1): glows",
		"$if broken",
		"$if ghost: spooky",
		"$if random(0): hidden",
	}

	results := EvaluateTraced(raws, ctx)
	if len(results) != len(raws) {
		t.Fatalf("EvaluateTraced() returned %d results, want %d", len(results), len(raws))
	}

	if !results[0].Active || results[0].Err != nil {
		t.Errorf("plain fact: %+v, want active with no error", results[0])
	}
	if !results[1].Active || results[1].Err != nil {
		t.Errorf("random(1) fact: %+v, want active", results[1])
	}
	if results[2].Err == nil {
		t.Error("missing-colon fact: want recorded parse error")
	}
	if results[3].Err == nil || results[3].Active {
		t.Errorf("unknown-identifier fact: %+v, want inactive with error", results[3])
	}
	if results[4].Active || results[4].Err != nil {
		t.Errorf("random(0) fact: %+v, want inactive with no error", results[4])
	}
}
