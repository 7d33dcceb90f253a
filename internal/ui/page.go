package ui

import (
	"slices"

	"posdesk/internal/clock"
)

// slot is one header element. Its markup is shown as decoded text.
type slot struct {
	selectors []string
	markup    string
}

func (s *slot) Markup() string { return s.markup }
func (s *slot) SetMarkup(m string) { s.markup = m }
func (s *slot) Text() string { return clock.Text(s.markup) }
func (s *slot) matches(q string) bool { return slices.Contains(s.selectors, q) }

// header is the page the clock resolves its display from.
type header struct {
	slots []*slot
}

func newHeader(clockMarkup string) *header {
	return &header{slots: []*slot{
		{selectors: []string{".brand"}, markup: "POS Desk"},
		{selectors: []string{".nav-item.time-nav span", ".time-nav span"}, markup: clockMarkup},
	}}
}

func (h *header) Query(selector string) clock.Element {
	for _, s := range h.slots {
		if s.matches(selector) {
			return s
		}
	}
	return nil
}

func (h *header) Elements() []clock.Element {
	out := make([]clock.Element, 0, len(h.slots))
	for _, s := range h.slots {
		out = append(out, s)
	}
	return out
}
