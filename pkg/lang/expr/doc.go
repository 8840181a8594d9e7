// Package expr compiles and evaluates the small boolean expression
// language that conditional facts are written in.
//
// The sandbox is two independent layers. Sanitize is the pre-filter: a
// character allowlist that restricts input to expression syntax (no
// statements, no block delimiters) plus a keyword blocklist that rejects
// dangerous identifiers the allowlist cannot exclude. Compile is the
// second layer: expressions are parsed into an AST whose identifier
// resolution looks up only the supplied Context map and a fixed operator
// set. There is no fallback to any ambient scope, no property chain deeper
// than one level into a plain record (time.hour), and unknown identifiers
// fail closed.
//
// Grammar: arithmetic (+ - * / %), comparisons (== != < <= > >=), logic
// (&& || !), the ternary operator, number/string/bool literals,
// parenthesization, one-level field access, and calls to context-supplied
// functions.
//
// Compiled predicates are pure functions of (source text, context) and are
// cached in a bounded LRU keyed by the trimmed source. Concurrent use is
// safe; redundant compilation of the same source is at worst wasted work.
//
//	ctx := expr.NewBaseContext(store.HasFact)
//	ctx["unread_count"] = float64(3)
//	ok, err := expr.Eval("unread_count > 0 && time.isNight", ctx)
package expr
