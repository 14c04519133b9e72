// Package tui is an interactive browser for analysis results: a scrollable
// per-task float table with a critical-only filter and a detail panel for
// the selected task.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/perigee/internal/graph"
	"github.com/papapumpkin/perigee/internal/slack"
)

// row is one task's display line, precomputed from the analysis result.
type row struct {
	id       string
	name     string
	start    float64
	finish   float64
	float    float64
	critical bool
	near     bool
	violates bool
}

// Model is the bubbletea model for the results browser.
type Model struct {
	project string
	opts    slack.Options
	g       *graph.Graph
	res     *slack.Result

	rows    []row
	visible []int // indices into rows after filtering
	cursor  int   // index into visible

	criticalOnly bool
	showDetail   bool

	width  int
	height int
	vp     viewport.Model
	keys   KeyMap
	ready  bool
}

// NewModel builds a browser model over a completed analysis.
func NewModel(project string, g *graph.Graph, res *slack.Result, opts slack.Options) Model {
	rows := make([]row, 0, len(res.Order))
	for _, id := range res.Order {
		tr := res.Tasks[id]
		task, ok := g.Task(id)
		if !ok {
			continue
		}
		rows = append(rows, row{
			id:       tr.ID,
			name:     task.Name,
			start:    task.Start,
			finish:   task.Finish,
			float:    tr.TotalFloat,
			critical: tr.Critical,
			near:     tr.NearCritical,
			violates: tr.ViolatesConstraints,
		})
	}

	m := Model{
		project: project,
		opts:    opts,
		g:       g,
		res:     res,
		rows:    rows,
		keys:    DefaultKeyMap(),
	}
	m.applyFilter()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		case key.Matches(msg, m.keys.PageUp):
			m.move(-m.vp.Height)
		case key.Matches(msg, m.keys.PageDown):
			m.move(m.vp.Height)
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
			m.refresh()
		case key.Matches(msg, m.keys.Bottom):
			if len(m.visible) > 0 {
				m.cursor = len(m.visible) - 1
			}
			m.refresh()
		case key.Matches(msg, m.keys.Critical):
			m.criticalOnly = !m.criticalOnly
			m.applyFilter()
			m.refresh()
		case key.Matches(msg, m.keys.Detail):
			m.showDetail = true
			m.resize()
		case key.Matches(msg, m.keys.Back):
			m.showDetail = false
			m.resize()
		}
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	var b strings.Builder
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	if m.showDetail {
		b.WriteString(m.detailPanel())
		b.WriteString("\n")
	}
	b.WriteString(m.footer())
	return b.String()
}

// move shifts the cursor by delta, clamped to the visible rows.
func (m *Model) move(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.refresh()
}

// applyFilter rebuilds the visible index list and clamps the cursor.
func (m *Model) applyFilter() {
	m.visible = m.visible[:0]
	for i, r := range m.rows {
		if m.criticalOnly && !(r.critical || r.violates) {
			continue
		}
		m.visible = append(m.visible, i)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// resize recomputes the viewport dimensions from the window size.
func (m *Model) resize() {
	chrome := 3 // status bar, footer, table spacing
	if m.showDetail {
		chrome += detailHeight
	}
	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	if m.vp.Width == 0 {
		m.vp = viewport.New(m.width, h)
	} else {
		m.vp.Width = m.width
		m.vp.Height = h
	}
	m.refresh()
}

// refresh re-renders the table into the viewport and keeps the cursor visible.
func (m *Model) refresh() {
	m.vp.SetContent(m.tableView())
	if m.vp.Height <= 0 {
		return
	}
	if m.cursor < m.vp.YOffset {
		m.vp.SetYOffset(m.cursor)
	}
	if m.cursor >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(m.cursor - m.vp.Height + 1)
	}
}

func (m *Model) statusBar() string {
	critical, near, violating := m.res.Counts()
	label := m.project
	if label == "" {
		label = "schedule"
	}
	filter := ""
	if m.criticalOnly {
		filter = "  [critical only]"
	}
	line := fmt.Sprintf("%s  ε=%g τ=%g  critical:%d near:%d violations:%d%s",
		styleStatusLabel.Render(label), m.opts.Tolerance, m.opts.Threshold,
		critical, near, violating, filter)
	return styleStatusBar.Width(m.width).Render(line)
}

func (m *Model) tableView() string {
	if len(m.visible) == 0 {
		return styleRowDim.Render("  no tasks match the current filter")
	}
	var b strings.Builder
	for vi, ri := range m.visible {
		r := m.rows[ri]
		indicator := " "
		if vi == m.cursor {
			indicator = styleSelectionIndicator.Render(selectionIndicator)
		}
		line := fmt.Sprintf("%-20s %8.2f %8.2f %10s", r.id, r.start, r.finish, fmtFloat(r.float))
		b.WriteString(indicator + m.rowStyle(r, vi == m.cursor).Render(line))
		if vi < len(m.visible)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

const detailHeight = 8

// detailPanel renders the selected task's computed values and neighbors.
func (m *Model) detailPanel() string {
	if len(m.visible) == 0 {
		return ""
	}
	r := m.rows[m.visible[m.cursor]]
	tr := m.res.Tasks[r.id]

	lines := []string{
		styleDetailTitle.Render(r.id) + "  " + r.name,
		fmt.Sprintf("actual: %.2f → %.2f   float: %s", r.start, r.finish, fmtFloat(tr.TotalFloat)),
		fmt.Sprintf("required: start ≥ %s   finish ≤ %s", fmtFloat(tr.EarlyStart), fmtFloat(tr.LateFinish)),
		fmt.Sprintf("preds: %s", strings.Join(m.g.Predecessors(r.id), ", ")),
		fmt.Sprintf("succs: %s", strings.Join(m.g.Successors(r.id), ", ")),
	}
	return styleDetailBorder.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) footer() string {
	bindings := []struct{ k, d string }{
		{"↑/↓", "move"},
		{"c", "critical only"},
		{"enter", "detail"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, styleFooterKey.Render(b.k)+" "+styleFooterDesc.Render(b.d))
	}
	return " " + strings.Join(parts, styleFooterDesc.Render(" · "))
}

func (m *Model) rowStyle(r row, selected bool) lipgloss.Style {
	if selected {
		return styleRowSelected
	}
	switch {
	case r.violates:
		return styleRowViolates
	case r.critical:
		return styleRowCritical
	case r.near:
		return styleRowNear
	case math.IsInf(r.float, 1):
		return styleRowDim
	default:
		return styleRowOK
	}
}

func fmtFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", v)
}
