package fact

import (
	"time"

	"sigil-hq/sigil/pkg/lang/expr"
)

// EvaluateAll parses and evaluates a batch of raw fact lines, returning
// the content of every active fact in input order. Non-conditional
// content is always kept; conditional content is kept iff its expression
// evaluates true. The first parse or evaluation error aborts the batch.
func EvaluateAll(raws []string, ctx expr.Context) ([]string, error) {
	active := make([]string, 0, len(raws))

	for _, raw := range raws {
		f, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		if !f.Conditional {
			active = append(active, f.Content)
			continue
		}

		keep, err := expr.Eval(f.Expression, ctx)
		if err != nil {
			return nil, err
		}
		if keep {
			active = append(active, f.Content)
		}
	}

	return active, nil
}

// Result is the traced outcome of evaluating a single fact.
type Result struct {
	Raw      string        // the raw input line
	Fact     Fact          // parsed form; zero value if parsing failed
	Active   bool          // whether the fact's content is active
	Err      error         // parse or evaluation failure, if any
	Duration time.Duration // time spent parsing and evaluating
}

// EvaluateTraced evaluates each fact in isolation: a failing fact is
// recorded as inactive with its error and the batch continues. Intended
// for debug tooling that reports per-fact outcomes to authors.
func EvaluateTraced(raws []string, ctx expr.Context) []Result {
	results := make([]Result, 0, len(raws))

	for _, raw := range raws {
		start := time.Now()
		result := Result{Raw: raw}

		f, err := Parse(raw)
		if err != nil {
			result.Err = err
			result.Duration = time.Since(start)
			results = append(results, result)
			continue
		}
		result.Fact = f

		if !f.Conditional {
			result.Active = true
		} else {
			keep, err := expr.Eval(f.Expression, ctx)
			if err != nil {
				result.Err = err
			} else {
				result.Active = keep
			}
		}

		result.Duration = time.Since(start)
		results = append(results, result)
	}

	return results
}
