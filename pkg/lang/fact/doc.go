// Package fact parses conditional fact syntax and evaluates batches of
// facts against an expression context.
//
// A fact is one line of authored text. Plain text is always active.
// A line starting with the sigil "$if " attaches a boolean condition:
//
//	$if <expression>: <content>
//
// The sigil is case-sensitive with exactly one space. The first colon
// after the sigil separates the expression from the content; a sigil with
// no colon is a parse error.
//
// EvaluateAll is the strict entry point: the first evaluation error aborts
// the whole batch. EvaluateTraced isolates each fact instead, recording
// per-fact outcomes and failures without aborting, for debugging tools
// that need to show an author exactly which of their conditions broke.
package fact
