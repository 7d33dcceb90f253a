package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"posdesk/internal/clock"
)

type timerMsg struct{ id int }

// scheduler drives clock timers from tea.Tick so every callback runs inside
// Update. Firing an id that was stopped is a no-op.
type scheduler struct {
	next    int
	timers  map[int]*schedTimer
	pending []tea.Cmd
}

type schedTimer struct {
	id    int
	every time.Duration
	fn    func()
	s     *scheduler
}

func newScheduler() *scheduler {
	return &scheduler{timers: map[int]*schedTimer{}}
}

func (s *scheduler) Every(d time.Duration, fn func()) clock.Timer {
	s.next++
	t := &schedTimer{id: s.next, every: d, fn: fn, s: s}
	s.timers[t.id] = t
	s.pending = append(s.pending, t.arm())
	return t
}

func (t *schedTimer) Stop() { delete(t.s.timers, t.id) }

func (t *schedTimer) arm() tea.Cmd {
	id := t.id
	return tea.Tick(t.every, func(time.Time) tea.Msg { return timerMsg{id: id} })
}

func (s *scheduler) active() int { return len(s.timers) }

func (s *scheduler) fire(id int) tea.Cmd {
	t, ok := s.timers[id]
	if !ok {
		return nil
	}
	t.fn()
	if _, ok := s.timers[id]; !ok {
		return nil
	}
	return t.arm()
}

// drain hands newly armed timers to the runtime.
func (s *scheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
