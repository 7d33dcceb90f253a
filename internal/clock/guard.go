package clock

import "log/slog"

// Guard owns the single clock of a page. It replaces a process-wide
// instance: whoever controls the page lifecycle holds the Guard.
type Guard struct {
	active *Clock
	log    *slog.Logger
}

func NewGuard(log *slog.Logger) *Guard {
	return &Guard{log: log}
}

// Ensure returns the page's clock. A running clock is returned untouched,
// a stopped one is restarted, and only when none exists is build called
// and the result set up.
func (g *Guard) Ensure(build func() *Clock) *Clock {
	if g.active != nil {
		if g.active.Running() {
			if g.log != nil {
				g.log.Warn("clock instance already exists and is running")
			}
			return g.active
		}
		g.active.Restart()
		return g.active
	}
	g.active = build()
	g.active.Setup()
	return g.active
}

func (g *Guard) Active() *Clock { return g.active }

// Teardown stops the clock on page unload.
func (g *Guard) Teardown() {
	if g.active != nil {
		g.active.Stop()
	}
}
