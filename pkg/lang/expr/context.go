package expr

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"sigil-hq/sigil/pkg/lang/regexsafe"
)

// Context is the variable environment an expression evaluates against.
// Values may be booleans, float64 numbers, strings, Func callables, or a
// plain record (map[string]any) readable one field deep. The evaluator
// never mutates the context and never reaches outside it.
type Context map[string]any

// Func is the callable type for context-supplied functions. Arguments
// arrive already evaluated; returning an error surfaces as an evaluation
// error carrying the offending expression text.
type Func func(args ...any) (any, error)

// dicePattern matches dice notation: count, sides, optional modifier.
var dicePattern = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Dice limits keep a single roll() call cheap. Authored expressions must
// not be able to buy unbounded CPU with a large count.
const (
	maxDiceCount = 1000
	maxDiceSides = 10000
)

// NewBaseContext builds the minimal standard context every caller extends
// with domain fields. It supplies:
//
//   - random(chance): true with the given probability; 0 is never true,
//     1 is always true
//   - hasFact(pattern): delegates to the injected lookup
//   - roll(dice): "NdM", "NdM+K", "NdM-K"; errors on anything else
//   - time: record with hour, isDay (6 ≤ hour < 18), isNight
//   - match(s, pattern), search(s, pattern), replace(s, pattern, repl):
//     safe regex operations; patterns are structurally validated before
//     they ever reach the regex engine
//
// The time record is captured once, at context build time.
func NewBaseContext(hasFact func(pattern string) (bool, error)) Context {
	hour := time.Now().Hour()
	isDay := hour >= 6 && hour < 18

	return Context{
		"random": Func(func(args ...any) (any, error) {
			chance, err := oneNumberArg("random", args)
			if err != nil {
				return nil, err
			}
			if chance <= 0 {
				return false, nil
			}
			if chance >= 1 {
				return true, nil
			}
			return rand.Float64() < chance, nil
		}),

		"hasFact": Func(func(args ...any) (any, error) {
			pattern, err := oneStringArg("hasFact", args)
			if err != nil {
				return nil, err
			}
			return hasFact(pattern)
		}),

		"roll": Func(func(args ...any) (any, error) {
			dice, err := oneStringArg("roll", args)
			if err != nil {
				return nil, err
			}
			return rollDice(dice)
		}),

		"time": map[string]any{
			"hour":    float64(hour),
			"isDay":   isDay,
			"isNight": !isDay,
		},

		"match": Func(func(args ...any) (any, error) {
			s, pattern, err := twoStringArgs("match", args)
			if err != nil {
				return nil, err
			}
			return regexsafe.MatchString(pattern, s)
		}),

		"search": Func(func(args ...any) (any, error) {
			s, pattern, err := twoStringArgs("search", args)
			if err != nil {
				return nil, err
			}
			return regexsafe.FindString(pattern, s)
		}),

		"replace": Func(func(args ...any) (any, error) {
			if len(args) != 3 {
				return nil, fmt.Errorf("replace expects 3 arguments, got %d", len(args))
			}
			s, ok1 := args[0].(string)
			pattern, ok2 := args[1].(string)
			repl, ok3 := args[2].(string)
			if !ok1 || !ok2 || !ok3 {
				return nil, fmt.Errorf("replace expects string arguments")
			}
			return regexsafe.ReplaceAll(pattern, s, repl)
		}),
	}
}

// rollDice parses and rolls dice notation, returning modifier plus the sum
// of count uniform draws in 1..sides.
func rollDice(dice string) (float64, error) {
	m := dicePattern.FindStringSubmatch(dice)
	if m == nil {
		return 0, fmt.Errorf("invalid dice notation %q", dice)
	}

	count, err := strconv.Atoi(m[1])
	if err != nil || count < 1 || count > maxDiceCount {
		return 0, fmt.Errorf("dice count in %q must be between 1 and %d", dice, maxDiceCount)
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 1 || sides > maxDiceSides {
		return 0, fmt.Errorf("dice sides in %q must be between 1 and %d", dice, maxDiceSides)
	}

	modifier := 0
	if m[3] != "" {
		modifier, err = strconv.Atoi(m[3])
		if err != nil {
			return 0, fmt.Errorf("invalid dice modifier in %q", dice)
		}
	}

	total := modifier
	for i := 0; i < count; i++ {
		total += 1 + rand.Intn(sides)
	}
	return float64(total), nil
}

func oneNumberArg(name string, args []any) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
	}
	n, ok := toNumber(args[0])
	if !ok {
		return 0, fmt.Errorf("%s expects a number, got %T", name, args[0])
	}
	return n, nil
}

func oneStringArg(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("%s expects a string, got %T", name, args[0])
	}
	return s, nil
}

func twoStringArgs(name string, args []any) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
	}
	a, ok1 := args[0].(string)
	b, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return "", "", fmt.Errorf("%s expects string arguments", name)
	}
	return a, b, nil
}
