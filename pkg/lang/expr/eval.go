package expr

import (
	langErrors "sigil-hq/sigil/pkg/lang/errors"
)

func (n *literalNode) eval(Context) (any, error) {
	return n.value, nil
}

func (n *identNode) eval(ctx Context) (any, error) {
	value, ok := ctx[n.name]
	if !ok {
		// Fail closed: identifiers resolve only against the supplied
		// context, never any ambient scope.
		return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
			"unknown identifier %q", n.name)
	}
	if _, isFunc := value.(Func); isFunc {
		return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
			"%q is a function and must be called", n.name)
	}
	return value, nil
}

func (n *fieldNode) eval(ctx Context) (any, error) {
	base, ok := ctx[n.base]
	if !ok {
		return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
			"unknown identifier %q", n.base)
	}
	record, ok := base.(map[string]any)
	if !ok {
		return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
			"%q is not a record, cannot access field %q", n.base, n.field)
	}
	value, ok := record[n.field]
	if !ok {
		return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
			"record %q has no field %q", n.base, n.field)
	}
	return value, nil
}

func (n *callNode) eval(ctx Context) (any, error) {
	value, ok := ctx[n.name]
	if !ok {
		return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
			"unknown function %q", n.name)
	}
	fn, ok := value.(Func)
	if !ok {
		return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
			"%q is not a function", n.name)
	}

	args := make([]any, len(n.args))
	for i, argNode := range n.args {
		arg, err := argNode.eval(ctx)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	result, err := fn(args...)
	if err != nil {
		return nil, langErrors.Wrap(langErrors.TypeEvaluation, n.source, err,
			"call to %q failed", n.name)
	}
	return result, nil
}

func (n *unaryNode) eval(ctx Context) (any, error) {
	value, err := n.operand.eval(ctx)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "!":
		truthy, err := toBool(value, n.source)
		if err != nil {
			return nil, err
		}
		return !truthy, nil
	case "-":
		num, ok := toNumber(value)
		if !ok {
			return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
				"cannot negate %T value", value)
		}
		return -num, nil
	}
	return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
		"unknown unary operator %q", n.op)
}

func (n *binaryNode) eval(ctx Context) (any, error) {
	// Logical operators short-circuit; the right side is not evaluated
	// unless it has to be.
	if n.op == "&&" || n.op == "||" {
		left, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		leftTruthy, err := toBool(left, n.source)
		if err != nil {
			return nil, err
		}
		if n.op == "&&" && !leftTruthy {
			return false, nil
		}
		if n.op == "||" && leftTruthy {
			return true, nil
		}
		right, err := n.right.eval(ctx)
		if err != nil {
			return nil, err
		}
		return toBool(right, n.source)
	}

	left, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "==":
		return valuesEqual(left, right), nil
	case "!=":
		return !valuesEqual(left, right), nil
	case "<", "<=", ">", ">=":
		return compareOrdered(n.op, left, right, n.source)
	case "+":
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return arithmetic(n.op, left, right, n.source)
	case "-", "*", "/", "%":
		return arithmetic(n.op, left, right, n.source)
	}
	return nil, langErrors.New(langErrors.TypeEvaluation, n.source,
		"unknown operator %q", n.op)
}

func (n *ternaryNode) eval(ctx Context) (any, error) {
	cond, err := n.cond.eval(ctx)
	if err != nil {
		return nil, err
	}
	truthy, err := toBool(cond, n.source)
	if err != nil {
		return nil, err
	}
	if truthy {
		return n.then.eval(ctx)
	}
	return n.els.eval(ctx)
}

// valuesEqual compares two values. Numbers compare numerically, strings
// and booleans by value; values of differing kinds are never equal.
func valuesEqual(left, right any) bool {
	if ln, ok := toNumber(left); ok {
		if rn, ok := toNumber(right); ok {
			return ln == rn
		}
		return false
	}
	if ls, ok := left.(string); ok {
		rs, ok := right.(string)
		return ok && ls == rs
	}
	if lb, ok := left.(bool); ok {
		rb, ok := right.(bool)
		return ok && lb == rb
	}
	return left == nil && right == nil
}

func compareOrdered(op string, left, right any, source string) (bool, error) {
	if ln, ok := toNumber(left); ok {
		if rn, ok := toNumber(right); ok {
			switch op {
			case "<":
				return ln < rn, nil
			case "<=":
				return ln <= rn, nil
			case ">":
				return ln > rn, nil
			case ">=":
				return ln >= rn, nil
			}
		}
	}
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			switch op {
			case "<":
				return ls < rs, nil
			case "<=":
				return ls <= rs, nil
			case ">":
				return ls > rs, nil
			case ">=":
				return ls >= rs, nil
			}
		}
	}
	return false, langErrors.New(langErrors.TypeEvaluation, source,
		"cannot compare %T and %T with %q", left, right, op)
}

func arithmetic(op string, left, right any, source string) (any, error) {
	ln, lok := toNumber(left)
	rn, rok := toNumber(right)
	if !lok || !rok {
		return nil, langErrors.New(langErrors.TypeEvaluation, source,
			"operator %q requires numbers, got %T and %T", op, left, right)
	}

	switch op {
	case "+":
		return ln + rn, nil
	case "-":
		return ln - rn, nil
	case "*":
		return ln * rn, nil
	case "/":
		if rn == 0 {
			return nil, langErrors.New(langErrors.TypeEvaluation, source, "division by zero")
		}
		return ln / rn, nil
	case "%":
		if rn == 0 {
			return nil, langErrors.New(langErrors.TypeEvaluation, source, "division by zero")
		}
		return float64(int64(ln) % int64(rn)), nil
	}
	return nil, langErrors.New(langErrors.TypeEvaluation, source,
		"unknown arithmetic operator %q", op)
}

// toNumber widens any numeric value to float64, the language's only
// numeric type. Context builders may supply ints; expressions see floats.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// toBool coerces a final or intermediate value to boolean. Booleans pass
// through, zero numbers and empty strings are false, nil is false.
func toBool(v any, source string) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return b != "", nil
	case nil:
		return false, nil
	}
	if n, ok := toNumber(v); ok {
		return n != 0, nil
	}
	return false, langErrors.New(langErrors.TypeEvaluation, source,
		"cannot coerce %T value to boolean", v)
}
