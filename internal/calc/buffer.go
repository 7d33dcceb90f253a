// Package calc holds the calculator's expression buffer and evaluator.
package calc

import (
	"strings"
	"unicode/utf8"
)

// Buffer accumulates calculator input. It is always a prefix of a
// completable expression: no operator follows another operator and no
// operand carries two decimal points.
type Buffer struct {
	text   string
	failed bool
	eval   Evaluator
}

func NewBuffer(ev Evaluator) *Buffer {
	return &Buffer{eval: ev}
}

// Value is what the display shows.
func (b *Buffer) Value() string { return b.text }

// Failed reports whether the display holds an error message.
func (b *Buffer) Failed() bool { return b.failed }

// Append adds a digit, '.', or one of + - * / %. It reports whether the
// token was accepted.
func (b *Buffer) Append(token string) bool {
	r, size := utf8.DecodeRuneInString(token)
	if size == 0 || size != len(token) || !(isDigit(r) || r == '.' || isOperator(r)) {
		return false
	}
	if b.failed {
		b.Clear()
	}

	if isOperator(r) {
		last, n := utf8.DecodeLastRuneInString(b.text)
		if n > 0 && isOperator(last) {
			return false
		}
	}
	if r == '.' && strings.ContainsRune(b.currentOperand(), '.') {
		return false
	}

	b.text += token
	return true
}

// currentOperand is the text after the last operator.
func (b *Buffer) currentOperand() string {
	i := strings.LastIndexFunc(b.text, isOperator)
	if i < 0 {
		return b.text
	}
	_, n := utf8.DecodeRuneInString(b.text[i:])
	return b.text[i+n:]
}

// Backspace drops the last character. A trimmed error message still
// counts as an error, so the next Append starts fresh.
func (b *Buffer) Backspace() {
	_, n := utf8.DecodeLastRuneInString(b.text)
	b.text = b.text[:len(b.text)-n]
	if b.text == "" {
		b.failed = false
	}
}

func (b *Buffer) Clear() {
	b.text = ""
	b.failed = false
}

// Solve evaluates the buffer and replaces it with the result or with the
// error message. The error is returned for callers that log or count it.
func (b *Buffer) Solve() error {
	out, err := b.eval.Evaluate(b.text)
	if err != nil {
		b.text = KindOf(err).Message()
		b.failed = true
		return err
	}
	b.text = out
	b.failed = false
	return nil
}

// Action is what a key press does to the buffer.
type Action int

const (
	ActionNone Action = iota
	ActionAppend
	ActionBackspace
	ActionSolve
	ActionClear
)

// KeyAction maps a Bubble Tea key string to its calculator action.
func KeyAction(key string) Action {
	switch key {
	case "backspace", "delete":
		return ActionBackspace
	case "enter", "=":
		return ActionSolve
	case "c", "C":
		return ActionClear
	}
	r, size := utf8.DecodeRuneInString(key)
	if size == len(key) && size > 0 && (isDigit(r) || r == '.' || isOperator(r)) {
		return ActionAppend
	}
	return ActionNone
}

// Press applies key to the buffer. It reports whether the key was handled.
func (b *Buffer) Press(key string) bool {
	switch KeyAction(key) {
	case ActionAppend:
		b.Append(key)
	case ActionBackspace:
		b.Backspace()
	case ActionSolve:
		_ = b.Solve()
	case ActionClear:
		b.Clear()
	default:
		return false
	}
	return true
}
