package regexsafe

import (
	"regexp"

	langErrors "sigil-hq/sigil/pkg/lang/errors"
)

// compile validates the pattern and only then compiles it. A pattern that
// passes validation but fails to compile is still reported as a regex
// safety error so authors see a single failure surface.
func compile(pattern string) (*regexp.Regexp, error) {
	if err := Validate(pattern); err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, langErrors.Wrap(langErrors.TypeRegexSafety, pattern, err, "pattern does not compile")
	}
	return re, nil
}

// MatchString reports whether s contains a match for the validated pattern.
func MatchString(pattern, s string) (bool, error) {
	re, err := compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// FindString returns the first match of the validated pattern in s, or the
// empty string if there is no match.
func FindString(pattern, s string) (string, error) {
	re, err := compile(pattern)
	if err != nil {
		return "", err
	}
	return re.FindString(s), nil
}

// Split slices s around matches of the validated pattern.
func Split(pattern, s string) ([]string, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	return re.Split(s, -1), nil
}

// ReplaceAll replaces all matches of the validated pattern in s with repl.
// The replacement string is literal: $ sequences are not expanded, so a
// validated pattern cannot be combined with a capture-referencing
// replacement to exfiltrate matched text.
func ReplaceAll(pattern, s, repl string) (string, error) {
	re, err := compile(pattern)
	if err != nil {
		return "", err
	}
	return re.ReplaceAllLiteralString(s, repl), nil
}
