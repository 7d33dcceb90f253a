package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/Knetic/govaluate"
)

// Kind classifies a failed evaluation.
type Kind int

const (
	DivisionByZero Kind = iota + 1
	InvalidOperation
	InvalidExpression
)

func (k Kind) String() string {
	switch k {
	case DivisionByZero:
		return "division-by-zero"
	case InvalidOperation:
		return "invalid-operation"
	case InvalidExpression:
		return "invalid-expression"
	default:
		return "unknown"
	}
}

// Message is the text shown in the display in place of a result.
func (k Kind) Message() string {
	switch k {
	case DivisionByZero:
		return "Error: Division by zero"
	case InvalidOperation:
		return "Error: Invalid operation"
	default:
		return "Error: Invalid expression"
	}
}

var (
	ErrDivisionByZero    = &EvalError{Kind: DivisionByZero}
	ErrInvalidOperation  = &EvalError{Kind: InvalidOperation}
	ErrInvalidExpression = &EvalError{Kind: InvalidExpression}
)

type EvalError struct {
	Kind Kind
	Err  error
}

func (e *EvalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *EvalError) Unwrap() error { return e.Err }

// Is matches any *EvalError of the same Kind, so callers can write
// errors.Is(err, calc.ErrDivisionByZero).
func (e *EvalError) Is(target error) bool {
	var t *EvalError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf reports the Kind carried by err, or 0 when err is not an *EvalError.
func KindOf(err error) Kind {
	var e *EvalError
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

const precision = 1e9

// Evaluator evaluates flat infix arithmetic over + - * / %.
type Evaluator struct {
	// LegacyZeroCheck enables the textual "/0" but not "/00" shortcut that
	// reports division by zero before parsing. It misfires on inputs such
	// as 1/0.5 and 0/0, so it is off unless configured.
	LegacyZeroCheck bool
}

// Evaluate returns the display string for text, or an *EvalError.
func (ev Evaluator) Evaluate(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "0", nil
	}
	expr := normalize(text)

	if ev.LegacyZeroCheck && strings.Contains(expr, "/0") && !strings.Contains(expr, "/00") {
		return "", &EvalError{Kind: DivisionByZero, Err: errors.New("zero denominator")}
	}

	v, err := evaluate(expr)
	if err != nil {
		return "", &EvalError{Kind: InvalidExpression, Err: err}
	}
	switch {
	case math.IsInf(v, 0):
		return "", &EvalError{Kind: DivisionByZero}
	case math.IsNaN(v):
		return "", &EvalError{Kind: InvalidOperation}
	}
	return formatResult(v), nil
}

// Evaluate runs the default Evaluator.
func Evaluate(text string) (string, error) {
	return Evaluator{}.Evaluate(text)
}

func normalize(text string) string {
	r := strings.NewReplacer("×", "*", "÷", "/")
	return strings.TrimSpace(r.Replace(text))
}

func evaluate(expr string) (float64, error) {
	for _, r := range expr {
		if !isDigit(r) && r != '.' && !isOperator(r) && !unicode.IsSpace(r) {
			return 0, fmt.Errorf("unsupported character %q", r)
		}
	}
	// govaluate has no unary plus.
	if strings.HasPrefix(expr, "+") {
		expr = "0" + expr
	}
	parsed, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return 0, err
	}
	out, err := parsed.Evaluate(nil)
	if err != nil {
		return 0, err
	}
	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("result %v is not a number", out)
	}
	return v, nil
}

func formatResult(v float64) string {
	r := v
	if math.Abs(v) < 1e15 {
		// Halves round toward +Inf.
		r = math.Floor(v*precision+0.5) / precision
	}
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isOperator(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '×', '÷':
		return true
	}
	return false
}
