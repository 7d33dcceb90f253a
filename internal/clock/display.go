package clock

import (
	"html"
	"regexp"
	"strings"
)

// Element is a page slot whose content is a markup string.
type Element interface {
	Markup() string
	SetMarkup(markup string)
}

// Page is the lookup surface the clock resolves its display from.
// Query returns nil when nothing matches.
type Page interface {
	Query(selector string) Element
	Elements() []Element
}

var (
	timeShape = regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}(\s*(AM|PM))?`)
	timeLike  = regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}`)
)

// DefaultSelectors are tried in order before the content scan.
var DefaultSelectors = []string{
	".time-nav span",
	".nav-item.time-nav span",
	`[class*="time-nav"] span`,
	".clock-display",
	"#clock-display",
}

// Resolver is one display lookup strategy.
type Resolver func(Page) Element

func SelectorResolver(selectors ...string) Resolver {
	return func(p Page) Element {
		for _, sel := range selectors {
			if el := p.Query(sel); el != nil {
				return el
			}
		}
		return nil
	}
}

// ContentResolver picks the first element whose text looks like a time.
func ContentResolver() Resolver {
	return func(p Page) Element {
		for _, el := range p.Elements() {
			if timeLike.MatchString(Text(el.Markup())) {
				return el
			}
		}
		return nil
	}
}

// DefaultResolvers is the selector list followed by the content scan.
func DefaultResolvers() []Resolver {
	return []Resolver{SelectorResolver(DefaultSelectors...), ContentResolver()}
}

// Resolve returns the first element any resolver finds.
func Resolve(p Page, resolvers ...Resolver) Element {
	if p == nil {
		return nil
	}
	for _, r := range resolvers {
		if el := r(p); el != nil {
			return el
		}
	}
	return nil
}

type segment struct {
	s   string
	tag bool
}

func splitMarkup(markup string) []segment {
	var out []segment
	for markup != "" {
		i := strings.IndexByte(markup, '<')
		if i < 0 {
			out = append(out, segment{s: markup})
			break
		}
		if i > 0 {
			out = append(out, segment{s: markup[:i]})
		}
		j := strings.IndexByte(markup[i:], '>')
		if j < 0 {
			out = append(out, segment{s: markup[i:]})
			break
		}
		out = append(out, segment{s: markup[i : i+j+1], tag: true})
		markup = markup[i+j+1:]
	}
	return out
}

// Text is the decoded text content of markup.
func Text(markup string) string {
	var b strings.Builder
	for _, seg := range splitMarkup(markup) {
		if !seg.tag {
			b.WriteString(html.UnescapeString(seg.s))
		}
	}
	return b.String()
}

// Patch replaces the time-shaped span in markup with formatted, leaving
// sibling markup such as an icon alone. When the raw markup carries no
// time span, the first text node whose decoded content holds one is
// replaced whole. ok is false when neither is found.
func Patch(markup, formatted string) (string, bool) {
	if loc := timeShape.FindStringIndex(markup); loc != nil {
		return markup[:loc[0]] + formatted + markup[loc[1]:], true
	}

	segs := splitMarkup(markup)
	for i, seg := range segs {
		if seg.tag {
			continue
		}
		text := html.UnescapeString(seg.s)
		if strings.TrimSpace(text) == "" || !timeLike.MatchString(text) {
			continue
		}
		segs[i].s = html.EscapeString(formatted)
		var b strings.Builder
		for _, s := range segs {
			b.WriteString(s.s)
		}
		return b.String(), true
	}
	return markup, false
}
