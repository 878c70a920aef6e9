package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/timewinder-dev/duosort/lanes"
)

type StepMsg struct {
	Lane       int
	Snapshot   []int
	Count      int
	Algorithm  string
	Complexity string
}

type IdleMsg struct {
	Lane int
}

type ErrorMsg struct {
	Context string
	Message string
}

type sharedMsg struct {
	values []int
}

type stateMsg struct {
	lane  int
	state lanes.State
}

type boundMsg struct {
	lane      int
	algorithm string
}

type intervalMsg struct {
	lane     int
	interval time.Duration
}

type sizeMsg struct {
	size int
}

// Sender is the part of tea.Program the display needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Display forwards scheduler callbacks to a running program as messages. Calls made
// before Attach are dropped.
type Display struct {
	target atomic.Pointer[Sender]
}

var _ lanes.Display = (*Display)(nil)

func (d *Display) Attach(s Sender) {
	d.target.Store(&s)
}

func (d *Display) send(msg tea.Msg) {
	if s := d.target.Load(); s != nil {
		(*s).Send(msg)
	}
}

func (d *Display) OnStep(lane int, snapshot []int, count int, algorithm, complexity string) {
	d.send(StepMsg{Lane: lane, Snapshot: snapshot, Count: count, Algorithm: algorithm, Complexity: complexity})
}

func (d *Display) OnLaneIdle(lane int) {
	d.send(IdleMsg{Lane: lane})
}

func (d *Display) OnError(context, message string) {
	d.send(ErrorMsg{Context: context, Message: message})
}
