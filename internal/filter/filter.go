// Package filter models the order-listing filter form: selecting a value
// submits the form after a short debounce, Enter submits at once and
// Escape resets the control before submitting.
package filter

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultDebounce   = 300 * time.Millisecond
	DefaultResetAfter = 5 * time.Second

	// searchableThreshold is the option count above which the customer
	// control is offered as a searchable list.
	searchableThreshold = 20
)

const (
	FieldCustomer      = "customer"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldSort          = "sort_by"
)

type Option struct {
	Value string
	Label string
}

// Control is a select-style input. Options[0] is the placeholder and
// carries an empty value.
type Control struct {
	Name       string
	Label      string
	Tooltip    string
	Options    []Option
	Searchable bool

	selected int
}

func (c *Control) Selected() int { return c.selected }

func (c *Control) Value() string {
	if c.selected <= 0 || c.selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.selected].Value
}

// Active reports whether a non-placeholder value is chosen.
func (c *Control) Active() bool { return c.Value() != "" }

func (c *Control) Current() Option { return c.Options[c.selected] }

// Search selects the first option whose label contains query, ignoring
// case. It reports whether the selection moved.
func (c *Control) Search(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	for i, o := range c.Options[1:] {
		if strings.Contains(strings.ToLower(o.Label), q) {
			moved := c.selected != i+1
			c.selected = i + 1
			return moved
		}
	}
	return false
}

// Capabilities describes what the host can render.
type Capabilities struct {
	SearchableSelect bool
}

type Form struct {
	Debounce   time.Duration
	ResetAfter time.Duration

	controls  []*Control
	seq       int
	pending   int
	applying  bool
	submitted int
}

func NewForm(controls ...*Control) *Form {
	return &Form{
		Debounce:   DefaultDebounce,
		ResetAfter: DefaultResetAfter,
		controls:   controls,
	}
}

func (f *Form) Controls() []*Control { return f.controls }

func (f *Form) Control(name string) (*Control, error) {
	for _, c := range f.controls {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}

// Enhance opts the customer control into search when the host supports it
// and the list is long.
func (f *Form) Enhance(caps Capabilities) {
	c, err := f.Control(FieldCustomer)
	if err != nil {
		return
	}
	c.Searchable = caps.SearchableSelect && len(c.Options) > searchableThreshold
}

// Change selects option index of the named control and schedules a
// submit. The returned sequence number is passed back to Due once the
// debounce delay has elapsed; a later Change supersedes it.
func (f *Form) Change(name string, index int) (int, error) {
	c, err := f.Control(name)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(c.Options) {
		return 0, fmt.Errorf("filter %q has no option %d", name, index)
	}
	c.selected = index
	return f.schedule(), nil
}

// Step moves the named control's selection by delta, wrapping around.
func (f *Form) Step(name string, delta int) (int, error) {
	c, err := f.Control(name)
	if err != nil {
		return 0, err
	}
	n := len(c.Options)
	return f.Change(name, ((c.selected+delta)%n+n)%n)
}

// Search runs a type-ahead search on a searchable control and schedules a
// submit when the selection moves.
func (f *Form) Search(name, query string) (int, bool) {
	c, err := f.Control(name)
	if err != nil || !c.Searchable || !c.Search(query) {
		return 0, false
	}
	return f.schedule(), true
}

func (f *Form) schedule() int {
	f.seq++
	f.pending = f.seq
	return f.seq
}

// Due reports whether the debounced submit with sequence seq should fire.
func (f *Form) Due(seq int) bool {
	return seq != 0 && seq == f.pending
}

// Key handles Enter and Escape on the named control and reports whether
// the form should be submitted now.
func (f *Form) Key(name, key string) bool {
	c, err := f.Control(name)
	if err != nil {
		return false
	}
	switch key {
	case "enter":
		return true
	case "esc":
		c.selected = 0
		return true
	}
	return false
}

// Submission is the payload of one submit.
type Submission struct {
	ID      int
	Values  url.Values
	Summary string
	Active  int
}

// Submit builds the request payload from the current selections.
// Placeholder selections are left out.
func (f *Form) Submit() Submission {
	f.pending = 0
	f.applying = true
	f.submitted++
	return Submission{
		ID:      f.submitted,
		Values:  f.Values(),
		Summary: f.Summary(),
		Active:  f.ActiveCount(),
	}
}

func (f *Form) Values() url.Values {
	v := url.Values{}
	for _, c := range f.controls {
		if c.Active() {
			v.Set(c.Name, c.Value())
		}
	}
	return v
}

// Applying reports whether a submit is in flight.
func (f *Form) Applying() bool { return f.applying }

// Done clears the in-flight state once the reply to submission id
// arrives. It reports false for a reply to an older submission, which the
// caller should drop.
func (f *Form) Done(id int) bool {
	if id != f.submitted {
		return false
	}
	f.applying = false
	return true
}

// Expire clears the in-flight state of submission id if it is still the
// latest one, so a lost reply does not leave the form stuck.
func (f *Form) Expire(id int) { f.Done(id) }

// Load selects the options named by a previous payload.
func (f *Form) Load(v url.Values) {
	for _, c := range f.controls {
		c.selected = 0
		want := v.Get(c.Name)
		if want == "" {
			continue
		}
		for i, o := range c.Options {
			if i > 0 && o.Value == want {
				c.selected = i
				break
			}
		}
	}
}

func (f *Form) ActiveCount() int {
	n := 0
	for _, c := range f.controls {
		if c.Active() {
			n++
		}
	}
	return n
}

// Summary describes the active filters for the status line.
func (f *Form) Summary() string {
	var parts []string
	for _, c := range f.controls {
		if c.Active() {
			parts = append(parts, c.Label+": "+c.Current().Label)
		}
	}
	if len(parts) == 0 {
		return "No filters applied"
	}
	return "Applied filters: " + strings.Join(parts, ", ")
}
