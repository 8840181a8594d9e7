// Package regexsafe validates author-supplied regular expression patterns
// before they are handed to Go's regexp engine.
//
// Validate is a single left-to-right recursive-descent pass over the pattern
// with no backtracking, so validation cost is linear in pattern length and
// cannot itself become a denial-of-service vector. It is deliberately a
// structural checker, not a regex compiler: a pattern is never executed, or
// even compiled, until it has passed validation.
//
// The core safety rule is that a quantifier may only be applied to an atom
// that contains no quantifier of its own. Any sub-pattern that already
// contains a quantifier is permanently tainted and cannot be quantified
// again, no matter how deeply it is nested through alternation or
// non-capturing groups. This single rule eliminates every
// exponential-backtracking shape (e.g. "(a+)+").
//
// Beyond nested quantifiers, Validate rejects capturing groups,
// lookaround, named groups, backreferences, quantified anchors, unknown
// escapes, and any unterminated or stray syntax. Only non-capturing groups
// "(?:...)" may group.
//
// The MatchString, FindString, Split, and ReplaceAll helpers are the
// intended call sites: they validate first and only then delegate to
// regexp. Every operation that turns an authored string into a live
// regular expression must go through them (or call Validate itself).
package regexsafe
