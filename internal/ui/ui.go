package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"posdesk/internal/calc"
	"posdesk/internal/clock"
	"posdesk/internal/config"
	"posdesk/internal/filter"
	"posdesk/internal/storage"
)

type pane int

const (
	paneCalc pane = iota
	paneOrders
)

type (
	setupMsg    struct{}
	debounceMsg struct{ seq int }
	expireMsg   struct{ id int }
	ordersMsg   struct {
		id      int
		orders  []storage.Order
		summary string
		err     error
	}
)

type Model struct {
	store  *storage.Store
	cfg    config.Config
	log    *slog.Logger
	sched  *scheduler
	guard  *clock.Guard
	clk    *clock.Clock
	header *header
	calc   *calc.Buffer
	form   *filter.Form
	search textinput.Model
	orders []storage.Order
	focus  int
	pane   pane
	status string
}

func newModel(store *storage.Store, cfg config.Config, log *slog.Logger, customers []string) Model {
	form := filter.NewOrderForm(customers)
	form.Debounce = cfg.Filter.Debounce()
	form.ResetAfter = cfg.Filter.ResetAfter()
	form.Enhance(filter.Capabilities{SearchableSelect: cfg.Filter.SearchableSelect})

	ti := textinput.New()
	ti.Placeholder = "Search for a customer..."
	ti.CharLimit = 64
	ti.Width = 30

	return Model{
		store:  store,
		cfg:    cfg,
		log:    log,
		sched:  newScheduler(),
		guard:  clock.NewGuard(log),
		header: newHeader(cfg.Clock.DisplayMarkup),
		calc:   calc.NewBuffer(calc.Evaluator{LegacyZeroCheck: cfg.Calculator.LegacyZeroCheck}),
		form:   form,
		search: ti,
		pane:   paneCalc,
		status: "tab switches pane • digits and + - * / % type • enter solves • c clears",
	}
}

func Run(store *storage.Store, cfg config.Config, log *slog.Logger) error {
	customers, err := store.Customers()
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	m := newModel(store, cfg, log, customers)
	defer m.guard.Teardown()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	setup := func() tea.Msg { return setupMsg{} }
	return tea.Batch(setup, m.submit())
}

func (m Model) buildClock() *clock.Clock {
	zone := clock.LoadZone(m.cfg.Clock.Zone, m.cfg.Clock.Offset(), m.log)
	format, err := clock.ParseFormat(m.cfg.Clock.Format)
	if err != nil {
		m.log.Warn("bad clock format in config", "err", err)
		format = clock.Format24
	}
	return clock.New(clock.Options{
		Zone:      zone,
		Format:    format,
		Page:      m.header,
		Scheduler: m.sched,
		Interval:  m.cfg.Clock.Interval(),
		Logger:    m.log,
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	return next, tea.Batch(cmd, m.sched.drain())
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case setupMsg:
		m.clk = m.guard.Ensure(m.buildClock)
	case timerMsg:
		return m, m.sched.fire(msg.id)
	case tea.FocusMsg:
		if m.clk != nil {
			m.clk.VisibilityChanged(true)
			m.clk.Focused()
		}
	case tea.BlurMsg:
		if m.clk != nil {
			m.clk.VisibilityChanged(false)
		}
	case debounceMsg:
		if m.form.Due(msg.seq) {
			return m, m.submit()
		}
	case expireMsg:
		m.form.Expire(msg.id)
	case ordersMsg:
		if !m.form.Done(msg.id) {
			return m, nil
		}
		if msg.err != nil {
			m.status = fmt.Sprintf("load orders failed: %v", msg.err)
			return m, nil
		}
		m.orders = msg.orders
		m.status = fmt.Sprintf("%s • %d orders", msg.summary, len(msg.orders))
	case tea.WindowSizeMsg:
		m.search.Width = max(msg.Width-40, 10)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	k := m.cfg.Keys
	switch key {
	case k.Quit:
		m.guard.Teardown()
		return m, tea.Quit
	case k.NextPane:
		if m.pane == paneCalc {
			m.pane = paneOrders
		} else {
			m.pane = paneCalc
		}
		m.syncSearchFocus()
		return m, nil
	case k.ClockSync, k.ClockFormat, k.ClockRestart, k.ClockStatus:
		return m.handleClockKey(key), nil
	}

	if m.pane == paneCalc {
		m.calc.Press(key)
		return m, nil
	}
	return m.updateOrders(key, msg)
}

func (m Model) handleClockKey(key string) Model {
	if m.clk == nil {
		m.status = "Clock not started"
		return m
	}
	k := m.cfg.Keys
	switch key {
	case k.ClockSync:
		m.clk.Sync()
		m.status = "Clock synchronized"
	case k.ClockFormat:
		m.status = fmt.Sprintf("Clock format %s-hour", m.clk.ToggleFormat())
	case k.ClockRestart:
		m.clk.Restart()
		m.status = "Clock restarted"
	case k.ClockStatus:
		m.status = describeStatus(m.clk.Status())
	}
	return m
}

func describeStatus(st clock.Status) string {
	strategy := "zoneinfo"
	if st.Fallback {
		strategy = "fixed offset"
	}
	return fmt.Sprintf("running:%v • format:%s • display:%v • %s (%s, %s) • %s",
		st.Running, st.Format, st.HasDisplay, st.Zone, strategy, st.Offset,
		st.Current.Format(time.DateTime))
}

func (m Model) focused() *filter.Control {
	controls := m.form.Controls()
	return controls[clampCursor(m.focus, len(controls))]
}

func (m *Model) syncSearchFocus() {
	if m.pane == paneOrders && m.focused().Searchable {
		m.search.Focus()
		return
	}
	m.search.Blur()
}

func (m Model) updateOrders(key string, msg tea.KeyMsg) (Model, tea.Cmd) {
	k := m.cfg.Keys
	c := m.focused()
	switch key {
	case k.FilterNext:
		m.focus = clampCursor(m.focus+1, len(m.form.Controls()))
		m.syncSearchFocus()
	case k.FilterPrev:
		m.focus = clampCursor(m.focus-1, len(m.form.Controls()))
		m.syncSearchFocus()
	case k.OptionNext, k.OptionPrev:
		delta := 1
		if key == k.OptionPrev {
			delta = -1
		}
		seq, err := m.form.Step(c.Name, delta)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.debounce(seq)
	case k.Submit:
		if m.form.Key(c.Name, "enter") {
			return m, m.submit()
		}
	case k.Reset:
		if c.Searchable {
			m.search.SetValue("")
		}
		if m.form.Key(c.Name, "esc") {
			return m, m.submit()
		}
	default:
		if !c.Searchable {
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if seq, ok := m.form.Search(c.Name, m.search.Value()); ok {
			return m, tea.Batch(cmd, m.debounce(seq))
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) debounce(seq int) tea.Cmd {
	return tea.Tick(m.form.Debounce, func(time.Time) tea.Msg { return debounceMsg{seq: seq} })
}

// submit sends the form payload to the order listing.
func (m Model) submit() tea.Cmd {
	sub := m.form.Submit()
	expire := tea.Tick(m.form.ResetAfter, func(time.Time) tea.Msg { return expireMsg{id: sub.ID} })
	return tea.Batch(loadOrdersCmd(m.store, sub), expire)
}

func loadOrdersCmd(store *storage.Store, sub filter.Submission) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return ordersMsg{id: sub.ID, summary: sub.Summary}
		}
		q := storage.ParseQuery(sub.Values)
		q.Source = "pos"
		orders, err := store.QueryOrders(q)
		return ordersMsg{id: sub.ID, orders: orders, summary: sub.Summary, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	brand, clockSlot := m.header.slots[0], m.header.slots[1]
	b.WriteString(styleBrand.Render(brand.Text()))
	b.WriteString("  ")
	b.WriteString(styleClock.Render(clockSlot.Text()))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.pane == paneCalc {
		b.WriteString(m.renderCalculator())
	} else {
		b.WriteString(m.renderOrders())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(styleHint.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderTabs() string {
	names := []string{"Calculator", "Orders"}
	tabs := make([]string, 0, len(names))
	for i, name := range names {
		if pane(i) == m.pane {
			tabs = append(tabs, styleTabActive.Render(name))
		} else {
			tabs = append(tabs, styleTabInactive.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderCalculator() string {
	value := m.calc.Value()
	if value == "" {
		value = "0"
	}
	style := styleDisplay
	if m.calc.Failed() {
		style = styleDisplayError
	}
	keys := styleHint.Render("7 8 9 /   4 5 6 *   1 2 3 -   0 . % +   = solve   ⌫ back   c clear")
	return lipgloss.JoinVertical(lipgloss.Left, style.Render(value), keys)
}

func (m Model) renderOrders() string {
	var b strings.Builder
	for i, c := range m.form.Controls() {
		cursor := " "
		if i == m.focus {
			cursor = ">"
		}
		style := styleFilter
		if c.Active() {
			style = styleFilterActive
		}
		line := fmt.Sprintf("%s %-15s ‹ %s ›", cursor, c.Label, c.Current().Label)
		b.WriteString(style.Render(line))
		if i == m.focus {
			b.WriteString("  " + styleHint.Render(c.Tooltip))
			if c.Searchable {
				b.WriteString("\n    " + m.search.View())
			}
		}
		b.WriteString("\n")
	}

	apply := "Apply Filters"
	if n := m.form.ActiveCount(); n > 0 {
		apply += fmt.Sprintf(" [%d]", n)
	}
	if m.form.Applying() {
		b.WriteString(styleApplying.Render("Applying..."))
	} else {
		b.WriteString(apply)
	}
	b.WriteString("\n\n")

	if len(m.orders) == 0 {
		b.WriteString("No orders match.")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%-10s %-10s %-18s %-10s %-9s %10s %10s\n",
		"Reference", "Date", "Customer", "Status", "Payment", "Total", "Due"))
	for _, o := range m.orders {
		b.WriteString(fmt.Sprintf("%-10s %-10s %-18s %-10s %-9s %10.2f %10.2f\n",
			o.Reference, o.Date.Format("2006-01-02"), truncate(o.Customer, 18),
			o.Status, o.PaymentStatus, o.GrandTotal, o.Due()))
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s pane • %s/%s filter • %s/%s option • %s apply • %s reset • %s sync • %s 12/24h • %s restart • %s clock status • %s quit",
		k.NextPane, k.FilterPrev, k.FilterNext, k.OptionPrev, k.OptionNext, k.Submit, k.Reset,
		k.ClockSync, k.ClockFormat, k.ClockRestart, k.ClockStatus, k.Quit)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
