package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatch(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		want   string
		ok     bool
	}{
		{"plain", "10:00:00", "13:45:00", true},
		{"with suffix", "Now 1:02:03 PM EAT", "Now 13:45:00 EAT", true},
		{"icon sibling", `<img src="i.svg" alt=""><span>7:00:00</span>`, `<img src="i.svg" alt=""><span>13:45:00</span>`, true},
		{"first span only", "1:00:00 / 2:00:00", "13:45:00 / 2:00:00", true},
		{"encoded text node", "<b>10&#58;00&#58;00</b>", "<b>13:45:00</b>", true},
		{"no time", "<span>--</span>", "<span>--</span>", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Patch(tc.markup, "13:45:00")
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "a & b 10:00:00", Text(`<i class="x">a &amp; b</i> <span>10:00:00</span>`))
	assert.Equal(t, "<unterminated", Text("<unterminated"))
}

func TestResolveOrder(t *testing.T) {
	nav := &fakeElement{markup: "11:11:11"}
	display := &fakeElement{markup: "22:22:22"}
	page := &fakePage{
		selectors: map[string]*fakeElement{
			".nav-item.time-nav span": nav,
			"#clock-display":          display,
		},
		all: []*fakeElement{display, nav},
	}

	assert.Same(t, nav, Resolve(page, DefaultResolvers()...))
}

func TestResolveByContent(t *testing.T) {
	other := &fakeElement{markup: "Orders"}
	clockish := &fakeElement{markup: `<img src="c.svg"> 08:30:00`}
	page := &fakePage{all: []*fakeElement{other, clockish}}

	assert.Same(t, clockish, Resolve(page, DefaultResolvers()...))
	assert.Nil(t, Resolve(&fakePage{all: []*fakeElement{other}}, DefaultResolvers()...))
	assert.Nil(t, Resolve(nil, DefaultResolvers()...))
}
