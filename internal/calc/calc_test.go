package calc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"   ", "0"},
		{"2+2", "4"},
		{"10/3", "3.333333333"},
		{"2+3*4", "14"},
		{"10-4-3", "3"},
		{"7%3", "1"},
		{"0.1+0.2", "0.3"},
		{"6×2", "12"},
		{"9÷3", "3"},
		{"-5+2", "-3"},
		{"+5", "5"},
		{"10/100", "0.1"},
		{"1/0.5", "2"},
		{"2/3*3", "2"},
		{"-0.0000000005", "0"},
		{"-0.0000000025", "-0.000000002"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Evaluate(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{"5+", InvalidExpression},
		{"2a", InvalidExpression},
		{"(1+2)", InvalidExpression},
		{"*5", InvalidExpression},
		{"8/0", DivisionByZero},
		{"-8/0", DivisionByZero},
		{"0/0", InvalidOperation},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Evaluate(tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, KindOf(err))
		})
	}
}

func TestEvaluateErrorsMatchSentinels(t *testing.T) {
	_, err := Evaluate("8/0")
	assert.True(t, errors.Is(err, ErrDivisionByZero))
	assert.False(t, errors.Is(err, ErrInvalidOperation))
}

func TestLegacyZeroCheck(t *testing.T) {
	ev := Evaluator{LegacyZeroCheck: true}

	_, err := ev.Evaluate("0/0")
	assert.Equal(t, DivisionByZero, KindOf(err))

	// Known misfire of the textual check.
	_, err = ev.Evaluate("1/0.5")
	assert.Equal(t, DivisionByZero, KindOf(err))

	got, err := ev.Evaluate("10/100")
	require.NoError(t, err)
	assert.Equal(t, "0.1", got)
}

func TestBufferRejectsConsecutiveOperators(t *testing.T) {
	b := NewBuffer(Evaluator{})
	for _, tok := range strings.Split("1++-*2//%3", "") {
		b.Append(tok)
	}
	assert.Equal(t, "1+2/3", b.Value())
}

func TestBufferNeverHoldsOperatorPairs(t *testing.T) {
	b := NewBuffer(Evaluator{})
	tokens := strings.Split("+-*/%0123456789.", "")
	for i := 0; i < 500; i++ {
		b.Append(tokens[(i*7+i/3)%len(tokens)])
		prev := rune(0)
		for _, r := range b.Value() {
			require.False(t, isOperator(prev) && isOperator(r), "buffer %q", b.Value())
			prev = r
		}
	}
}

func TestBufferDecimalPerOperand(t *testing.T) {
	b := NewBuffer(Evaluator{})
	assert.True(t, b.Append("1"))
	assert.True(t, b.Append("."))
	assert.True(t, b.Append("5"))
	assert.False(t, b.Append("."))
	assert.True(t, b.Append("%"))
	assert.True(t, b.Append("."))
	assert.False(t, b.Append("."))
	assert.Equal(t, "1.5%.", b.Value())
}

func TestBufferRejectsUnknownTokens(t *testing.T) {
	b := NewBuffer(Evaluator{})
	assert.False(t, b.Append("x"))
	assert.False(t, b.Append("12"))
	assert.False(t, b.Append(""))
	assert.Empty(t, b.Value())
}

func TestBufferBackspace(t *testing.T) {
	b := NewBuffer(Evaluator{})
	b.Backspace()
	assert.Empty(t, b.Value())

	b.Append("4")
	b.Append("2")
	b.Backspace()
	assert.Equal(t, "4", b.Value())
}

func TestBufferSolveAndRecover(t *testing.T) {
	b := NewBuffer(Evaluator{})
	for _, tok := range []string{"8", "/", "0"} {
		b.Append(tok)
	}
	err := b.Solve()
	require.Error(t, err)
	assert.Equal(t, "Error: Division by zero", b.Value())
	assert.True(t, b.Failed())

	b.Append("7")
	assert.Equal(t, "7", b.Value())
	assert.False(t, b.Failed())

	b.Append("*")
	b.Append("6")
	require.NoError(t, b.Solve())
	assert.Equal(t, "42", b.Value())

	b.Append("+")
	b.Append("1")
	require.NoError(t, b.Solve())
	assert.Equal(t, "43", b.Value())
}

func TestBufferBackspaceOnError(t *testing.T) {
	b := NewBuffer(Evaluator{})
	b.Append("5")
	b.Append("+")
	require.Error(t, b.Solve())
	assert.Equal(t, "Error: Invalid expression", b.Value())

	b.Backspace()
	assert.Equal(t, "Error: Invalid expressio", b.Value())
	assert.True(t, b.Failed())

	b.Append("9")
	assert.Equal(t, "9", b.Value())
	assert.False(t, b.Failed())
}

func TestBufferSolveEmpty(t *testing.T) {
	b := NewBuffer(Evaluator{})
	require.NoError(t, b.Solve())
	assert.Equal(t, "0", b.Value())
}

func TestPress(t *testing.T) {
	b := NewBuffer(Evaluator{})
	for _, k := range []string{"1", "2", "+", "3", "backspace", "4", "="} {
		assert.True(t, b.Press(k), k)
	}
	assert.Equal(t, "16", b.Value())

	assert.False(t, b.Press("x"))
	assert.True(t, b.Press("C"))
	assert.Empty(t, b.Value())

	assert.Equal(t, ActionSolve, KeyAction("enter"))
	assert.Equal(t, ActionBackspace, KeyAction("delete"))
	assert.Equal(t, ActionClear, KeyAction("c"))
	assert.Equal(t, ActionNone, KeyAction("ctrl+c"))
}
