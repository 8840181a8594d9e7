package regexsafe

import (
	"strings"
	"testing"

	langErrors "sigil-hq/sigil/pkg/lang/errors"
)

func TestValidate_SafePatterns(t *testing.T) {
	patterns := []string{
		"",
		"abc",
		"a+b*c?",
		"^a+$",
		"^hello world$",
		"(?:ab)+",
		"(?:a|b|c)*",
		"[a-z]+",
		"[^a-z0-9]*",
		"[]a]+",
		"a{2,4}",
		"a{3}",
		"a{2,}",
		"colou?r",
		"\\d+\\.\\d+",
		"\\w+\\s\\w+",
		"\\bword\\b",
		"foo\\.bar",
		"a|b",
		"(?:foo|bar)baz",
		"a+?",
		"a*?b",
		"x{10",  // invalid range, literal brace
		"a{,3}", // invalid range, literal brace
		"\\(\\)\\[\\]\\{\\}",
		"\\t\\n\\r",
		"one/two",
		"9d6",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			if err := Validate(pattern); err != nil {
				t.Errorf("Validate(%q) = %v, want nil", pattern, err)
			}
		})
	}
}

func TestValidate_UnsafePatterns(t *testing.T) {
	tests := []struct {
		pattern     string
		wantMessage string
	}{
		// Catastrophic backtracking shapes.
		{"(?:a+)+", "nested quantifier"},
		{"(?:a+)+b", "nested quantifier"},
		{"(?:a*)*", "nested quantifier"},
		{"(?:a|a+)+", "nested quantifier"},
		{"(?:(?:a+))+", "nested quantifier"},
		{"a{2,4}{1,2}", "nested quantifier"},
		{"a++", "nested quantifier"},

		// Capturing and lookaround groups.
		{"(a+)+b", "capturing group"},
		{"(ab)+", "capturing group"},
		{"(a)", "capturing group"},
		{"(?=foo)", "lookahead"},
		{"(?!foo)", "negative lookahead"},
		{"(?<=foo)", "lookbehind"},
		{"(?<!foo)", "negative lookbehind"},
		{"(?<name>foo)", "named group"},

		// Backreferences, inside and outside classes.
		{"\\1", "backreference"},
		{"(?:a)\\1", "backreference"},
		{"[\\1]", "backreference"},

		// Quantified anchors.
		{"^+", "anchor"},
		{"$*", "anchor"},
		{"\\b+", "anchor"},
		{"(?:^)+", "anchor"},

		// Stray and malformed syntax.
		{"+a", "no preceding atom"},
		{"*", "no preceding atom"},
		{"{2,3}", "no preceding atom"},
		{"[a-z", "unterminated character class"},
		{"(?:ab", "unterminated group"},
		{"(?:", "unterminated group"},
		{"ab)", "unexpected"},
		{"a\\", "trailing backslash"},
		{"[ab\\", "trailing backslash"},
		{"\\q", "unknown escape"},
		{"[\\q]", "unknown escape"},
		{"(?Pfoo)", "unsupported group syntax"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			err := Validate(tt.pattern)
			if err == nil {
				t.Fatalf("Validate(%q) = nil, want error containing %q", tt.pattern, tt.wantMessage)
			}
			if !langErrors.IsType(err, langErrors.TypeRegexSafety) {
				t.Errorf("Validate(%q) error type = %T, want regex_safety", tt.pattern, err)
			}
			if !strings.Contains(err.Error(), tt.wantMessage) {
				t.Errorf("Validate(%q) = %q, want message containing %q", tt.pattern, err, tt.wantMessage)
			}
		})
	}
}

// Quantifier taint must survive arbitrary nesting through alternation and
// non-capturing groups.
func TestValidate_TaintPropagation(t *testing.T) {
	unsafe := []string{
		"(?:(?:(?:a+)))+",
		"(?:x|(?:y|z+))*",
		"(?:a?b)+",
	}
	for _, pattern := range unsafe {
		if err := Validate(pattern); err == nil {
			t.Errorf("Validate(%q) = nil, want nested quantifier error", pattern)
		}
	}

	safe := []string{
		"(?:(?:a))+",
		"(?:x|(?:y|z))*",
		"(?:a+)(?:b+)",
	}
	for _, pattern := range safe {
		if err := Validate(pattern); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", pattern, err)
		}
	}
}

func TestValidate_LongPatternIsLinear(t *testing.T) {
	// A degenerate but safe pattern: validation must finish in one pass.
	pattern := strings.Repeat("a+b", 10000)
	if err := Validate(pattern); err != nil {
		t.Fatalf("Validate(long) = %v, want nil", err)
	}
}

func TestMatchString(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
		wantErr bool
	}{
		{"simple match", "wolf", "the wolf howls", true, false},
		{"no match", "^wolf", "the wolf howls", false, false},
		{"class match", "[a-z]+", "abc", true, false},
		{"unsafe rejected", "(?:a+)+", "aaaa", false, true},
		{"capture rejected", "(wolf)", "wolf", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchString(tt.pattern, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MatchString(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("MatchString(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitAndReplace(t *testing.T) {
	parts, err := Split(",\\s*", "a, b,c")
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(parts) != 3 || parts[0] != "a" || parts[1] != "b" || parts[2] != "c" {
		t.Errorf("Split() = %v, want [a b c]", parts)
	}

	out, err := ReplaceAll("\\d+", "room 12, floor 3", "N")
	if err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	if out != "room N, floor N" {
		t.Errorf("ReplaceAll() = %q, want %q", out, "room N, floor N")
	}

	if _, err := Split("(x)", "axb"); err == nil {
		t.Error("Split() with capturing pattern: want error, got nil")
	}
	if _, err := ReplaceAll("\\2", "a", "b"); err == nil {
		t.Error("ReplaceAll() with backreference: want error, got nil")
	}
}
