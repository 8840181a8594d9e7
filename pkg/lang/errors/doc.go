// Package errors defines the error type shared by the Sigil condition
// language: fact parsing, expression sanitization, compilation, evaluation,
// and regex safety validation all report failures through *Error.
//
// Every failure is author-facing: the message references the offending
// expression or pattern text so it can be shown directly to the content
// author who wrote it. Callers that need to branch on the failure category
// use the Type field rather than string matching.
//
// Example:
//
//	if _, err := expr.Eval("random(0.5", ctx); err != nil {
//		var langErr *errors.Error
//		if stderrors.As(err, &langErr) && langErr.Type == errors.TypeCompilation {
//			// report back to the author
//		}
//	}
package errors
