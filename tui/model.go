// Package tui is a terminal front end for two lanes racing over the same array.
package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/timewinder-dev/duosort/lanes"
)

// Controller is the subset of lanes.Scheduler the model drives.
type Controller interface {
	Start(lane int) error
	Stop(lane int) error
	Pause(lane int) error
	Resume(lane int) error
	Bind(lane int, algorithm string) error
	SetInterval(lane int, d time.Duration) error
	SetSize(n int) error
	Regenerate() ([]int, error)
	Shared() ([]int, error)
	Status() ([lanes.NumLanes]lanes.LaneStatus, error)
}

const (
	barHeight    = 12
	intervalStep = 10 * time.Millisecond
	sizeStep     = 5
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1)
	laneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	barStyles     = [lanes.NumLanes]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type laneView struct {
	bound      string
	algorithm  string
	complexity string
	snapshot   []int
	count      int
	state      lanes.State
	interval   time.Duration
}

type Model struct {
	ctl      Controller
	names    func() []string
	lanes    [lanes.NumLanes]laneView
	shared   []int
	size     int
	selected int
	status   string
	err      string
	width    int
}

// New creates a model driving ctl. names lists the algorithms a lane can be bound to.
func New(ctl Controller, names func() []string) Model {
	return Model{ctl: ctl, names: names}
}

func (m Model) Init() tea.Cmd {
	return m.refresh
}

func (m Model) refresh() tea.Msg {
	shared, err := m.ctl.Shared()
	if err != nil {
		return ErrorMsg{Context: "shared array", Message: err.Error()}
	}
	st, err := m.ctl.Status()
	if err != nil {
		return ErrorMsg{Context: "status", Message: err.Error()}
	}
	return refreshMsg{shared: shared, status: st}
}

type refreshMsg struct {
	shared []int
	status [lanes.NumLanes]lanes.LaneStatus
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	case refreshMsg:
		m.shared = msg.shared
		m.size = len(msg.shared)
		for i, st := range msg.status {
			m.lanes[i].bound = st.Algorithm
			m.lanes[i].state = st.State
			m.lanes[i].interval = st.Interval
		}
	case sharedMsg:
		m.shared = msg.values
		m.size = len(msg.values)
		for i := range m.lanes {
			m.lanes[i].snapshot = nil
			m.lanes[i].count = 0
		}
		m.status = "new array generated"
	case StepMsg:
		if !validLane(msg.Lane) {
			return m, nil
		}
		l := &m.lanes[msg.Lane]
		l.snapshot = msg.Snapshot
		l.count = msg.Count
		l.algorithm = msg.Algorithm
		l.complexity = msg.Complexity
		if l.state == lanes.Idle {
			l.state = lanes.Running
		}
	case IdleMsg:
		if validLane(msg.Lane) {
			m.lanes[msg.Lane].state = lanes.Idle
		}
	case stateMsg:
		m.lanes[msg.lane].state = msg.state
	case boundMsg:
		m.lanes[msg.lane].bound = msg.algorithm
		m.status = fmt.Sprintf("lane %d bound to %s", msg.lane+1, msg.algorithm)
	case intervalMsg:
		m.lanes[msg.lane].interval = msg.interval
		m.status = fmt.Sprintf("lane %d interval %v", msg.lane+1, msg.interval)
	case sizeMsg:
		m.size = msg.size
		m.status = fmt.Sprintf("array size %d, g for a new array", msg.size)
	case ErrorMsg:
		m.err = fmt.Sprintf("%s: %s", msg.Context, msg.Message)
	}
	return m, nil
}

func validLane(i int) bool {
	return i >= 0 && i < lanes.NumLanes
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""
	lane := m.selected
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.selected = (m.selected + 1) % lanes.NumLanes
	case "s", "enter":
		return m, m.laneCmd(lane, m.ctl.Start, lanes.Running)
	case "a":
		return m, tea.Batch(
			m.laneCmd(0, m.ctl.Start, lanes.Running),
			m.laneCmd(1, m.ctl.Start, lanes.Running),
		)
	case "x":
		return m, m.laneCmd(lane, m.ctl.Stop, lanes.Idle)
	case "p":
		switch m.lanes[lane].state {
		case lanes.Running:
			return m, m.laneCmd(lane, m.ctl.Pause, lanes.Paused)
		case lanes.Paused:
			return m, m.laneCmd(lane, m.ctl.Resume, lanes.Running)
		}
	case "g":
		return m, m.regenerate
	case "]", "right":
		return m, m.cycle(lane, 1)
	case "[", "left":
		return m, m.cycle(lane, -1)
	case "+", "=":
		return m, m.pace(lane, intervalStep)
	case "-":
		return m, m.pace(lane, -intervalStep)
	case ">", ".":
		return m, m.resize(sizeStep)
	case "<", ",":
		return m, m.resize(-sizeStep)
	}
	return m, nil
}

// laneCmd runs op on the scheduler outside the update loop.
func (m Model) laneCmd(lane int, op func(int) error, next lanes.State) tea.Cmd {
	return func() tea.Msg {
		if err := op(lane); err != nil {
			return ErrorMsg{Context: fmt.Sprintf("lane %d", lane), Message: err.Error()}
		}
		return stateMsg{lane: lane, state: next}
	}
}

func (m Model) regenerate() tea.Msg {
	values, err := m.ctl.Regenerate()
	if err != nil {
		return ErrorMsg{Context: "regenerate", Message: err.Error()}
	}
	return sharedMsg{values: values}
}

func (m Model) cycle(lane, dir int) tea.Cmd {
	names := m.names()
	if len(names) == 0 {
		return nil
	}
	i := slices.Index(names, m.lanes[lane].bound)
	next := names[(i+dir+len(names))%len(names)]
	if i < 0 {
		next = names[0]
	}
	return func() tea.Msg {
		if err := m.ctl.Bind(lane, next); err != nil {
			return ErrorMsg{Context: fmt.Sprintf("lane %d", lane), Message: err.Error()}
		}
		return boundMsg{lane: lane, algorithm: next}
	}
}

// pace moves the interval of lane by delta, clamped to the scheduler's bounds.
func (m Model) pace(lane int, delta time.Duration) tea.Cmd {
	cur := m.lanes[lane].interval
	if cur == 0 {
		cur = lanes.DefaultInterval
	}
	next := min(max(cur+delta, lanes.MinInterval), lanes.MaxInterval)
	if next == cur {
		return nil
	}
	return func() tea.Msg {
		if err := m.ctl.SetInterval(lane, next); err != nil {
			return ErrorMsg{Context: fmt.Sprintf("lane %d", lane), Message: err.Error()}
		}
		return intervalMsg{lane: lane, interval: next}
	}
}

// resize changes the length of the next generated array. The current array stays
// until it is regenerated.
func (m Model) resize(delta int) tea.Cmd {
	cur := m.size
	if cur == 0 {
		cur = lanes.DefaultSize
	}
	next := min(max(cur+delta, lanes.MinSize), lanes.MaxSize)
	if next == cur {
		return nil
	}
	return func() tea.Msg {
		if err := m.ctl.SetSize(next); err != nil {
			return ErrorMsg{Context: "array size", Message: err.Error()}
		}
		return sizeMsg{size: next}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("duosort"))
	if m.size > 0 {
		fmt.Fprintf(&b, "  size %d", m.size)
	}
	b.WriteString("\n")
	for i := range m.lanes {
		b.WriteString(m.renderLane(i))
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab lane · s start · a start both · x stop · p pause · [ ] algorithm · +/- interval · </> size · g new array · q quit"))
	return b.String()
}

func (m Model) renderLane(i int) string {
	l := m.lanes[i]
	name := l.algorithm
	if name == "" || (l.state == lanes.Idle && l.bound != l.algorithm) {
		name = l.bound
	}
	header := fmt.Sprintf("Lane %d: %s", i+1, name)
	if l.complexity != "" && name == l.algorithm {
		header += "  " + l.complexity
	}
	info := fmt.Sprintf("steps: %d  %s", l.count, l.state)
	if l.interval > 0 {
		info += fmt.Sprintf("  every %v", l.interval)
	}

	values := l.snapshot
	if values == nil {
		values = m.shared
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(header),
		info,
		barStyles[i].Render(bars(values, barHeight)),
	)
	if i == m.selected {
		return selectedStyle.Render(body)
	}
	return laneStyle.Render(body)
}

// bars draws values as vertical bars scaled to height rows.
func bars(values []int, height int) string {
	if len(values) == 0 {
		return ""
	}
	top := slices.Max(values)
	if top <= 0 {
		top = 1
	}
	rows := make([]string, height)
	for r := range height {
		level := height - r
		var line strings.Builder
		for _, v := range values {
			if v*height >= level*top {
				line.WriteString("█")
			} else {
				line.WriteString(" ")
			}
		}
		rows[r] = line.String()
	}
	return strings.Join(rows, "\n")
}
