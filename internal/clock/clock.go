// Package clock renders the current time of a fixed zone into a page
// element once per second.
package clock

import (
	"io"
	"log/slog"
	"time"
)

// Timer is a handle to a repeating callback.
type Timer interface {
	Stop()
}

// Scheduler runs fn every d until the returned Timer is stopped. Callbacks
// must run on the same logical thread as the Clock's other methods.
type Scheduler interface {
	Every(d time.Duration, fn func()) Timer
}

// manual never fires. Without a Scheduler the clock only updates on
// explicit Render or Sync calls.
type manual struct{}

func (manual) Every(time.Duration, func()) Timer { return manual{} }
func (manual) Stop()                             {}

type Options struct {
	Zone      *Zone
	Format    Format
	Page      Page
	Resolvers []Resolver
	Scheduler Scheduler
	Interval  time.Duration
	Now       func() time.Time
	Logger    *slog.Logger
}

type Clock struct {
	zone      *Zone
	format    Format
	page      Page
	resolvers []Resolver
	display   Element
	sched     Scheduler
	interval  time.Duration
	timer     Timer
	running   bool
	visible   bool
	now       func() time.Time
	log       *slog.Logger
}

func New(opts Options) *Clock {
	c := &Clock{
		zone:      opts.Zone,
		format:    opts.Format,
		page:      opts.Page,
		resolvers: opts.Resolvers,
		sched:     opts.Scheduler,
		interval:  opts.Interval,
		visible:   true,
		now:       opts.Now,
		log:       opts.Logger,
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.zone == nil {
		c.zone = LoadZone(DefaultZoneName, DefaultOffset, c.log)
	}
	if !c.format.Valid() {
		c.format = Format24
	}
	if len(c.resolvers) == 0 {
		c.resolvers = DefaultResolvers()
	}
	if c.interval <= 0 {
		c.interval = time.Second
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.sched == nil {
		c.sched = manual{}
	}
	return c
}

// Setup resolves the display and starts the clock. It reports false and
// leaves the clock stopped when no display element exists.
func (c *Clock) Setup() bool {
	if c.element() == nil {
		c.log.Warn("clock display element not found")
		return false
	}
	c.Start()
	return true
}

func (c *Clock) Start() {
	if c.running {
		c.log.Warn("clock already running")
		return
	}
	c.Stop()
	c.Render()

	var t Timer
	t = c.sched.Every(c.interval, func() { c.tick(t) })
	c.timer = t
	c.running = true
	c.log.Info("clock started", "format", string(c.format), "zone", c.zone.Name())
}

// tick drops callbacks from timers that were stopped or replaced.
func (c *Clock) tick(t Timer) {
	if !c.running || c.timer == nil || c.timer != t {
		return
	}
	c.Render()
}

func (c *Clock) Stop() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.running {
		c.log.Info("clock stopped")
	}
	c.running = false
}

func (c *Clock) Restart() {
	c.Stop()
	c.Start()
}

func (c *Clock) Running() bool { return c.running }

func (c *Clock) Format() Format { return c.format }

// Now is the current instant in the target zone.
func (c *Clock) Now() time.Time {
	return c.zone.In(c.now())
}

func (c *Clock) element() Element {
	if c.display == nil {
		c.display = Resolve(c.page, c.resolvers...)
	}
	return c.display
}

// Render patches the display with the current time. Failures are logged
// and the cycle is skipped.
func (c *Clock) Render() {
	el := c.element()
	if el == nil {
		c.log.Debug("clock render skipped: no display")
		return
	}
	formatted := FormatTime(c.Now(), c.format)
	markup, ok := Patch(el.Markup(), formatted)
	if !ok {
		c.log.Warn("clock display holds no time text", "markup", el.Markup())
		return
	}
	el.SetMarkup(markup)
}

// VisibilityChanged renders immediately when the page comes back into view,
// correcting drift from throttled ticks.
func (c *Clock) VisibilityChanged(visible bool) {
	if visible && !c.visible {
		c.Render()
		c.log.Debug("page visible, time updated")
	}
	c.visible = visible
}

// Focused renders immediately while the clock is running.
func (c *Clock) Focused() {
	if c.running {
		c.Render()
		c.log.Debug("window focused, time updated")
	}
}

func (c *Clock) SetFormat(f Format) bool {
	if !f.Valid() {
		c.log.Warn("invalid time format", "format", string(f))
		return false
	}
	c.format = f
	c.Render()
	c.log.Info("time format changed", "format", string(f))
	return true
}

func (c *Clock) ToggleFormat() Format {
	if c.format == Format24 {
		c.SetFormat(Format12)
	} else {
		c.SetFormat(Format24)
	}
	return c.format
}

// Sync forces one render.
func (c *Clock) Sync() {
	c.Render()
	c.log.Info("time manually synchronized")
}

type Status struct {
	Running    bool
	Format     Format
	HasDisplay bool
	Current    time.Time
	Zone       string
	Offset     time.Duration
	Fallback   bool
}

func (c *Clock) Status() Status {
	return Status{
		Running:    c.running,
		Format:     c.format,
		HasDisplay: c.display != nil,
		Current:    c.Now(),
		Zone:       c.zone.Name(),
		Offset:     c.zone.Offset(),
		Fallback:   c.zone.Fallback(),
	}
}

// Debug compares both zone strategies for the same instant.
type Debug struct {
	Local     time.Time
	UTC       time.Time
	Target    time.Time
	Formatted string
	Primary   string
	Fallback  string
}

func (c *Clock) Debug() Debug {
	now := c.now()
	target := c.zone.In(now)
	d := Debug{
		Local:     now.Local(),
		UTC:       now.UTC(),
		Target:    target,
		Formatted: FormatTime(target, c.format),
		Primary:   "not available",
		Fallback:  c.zone.fallback(now).Format(time.DateTime),
	}
	if t, ok := c.zone.primary(now); ok {
		d.Primary = t.Format(time.DateTime)
	} else if c.zone.loadErr != nil {
		d.Primary = "error: " + c.zone.loadErr.Error()
	}
	return d
}
