package tui

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/duosort/lanes"
)

type fakeController struct {
	mu     sync.Mutex
	calls  []string
	bindOK bool
}

func (f *fakeController) record(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
}

func (f *fakeController) Start(lane int) error {
	f.record("start " + string(rune('0'+lane)))
	return nil
}

func (f *fakeController) Stop(lane int) error {
	f.record("stop " + string(rune('0'+lane)))
	return nil
}

func (f *fakeController) Pause(lane int) error {
	f.record("pause " + string(rune('0'+lane)))
	return nil
}

func (f *fakeController) Resume(lane int) error {
	f.record("resume " + string(rune('0'+lane)))
	return nil
}

func (f *fakeController) Bind(lane int, algorithm string) error {
	f.record("bind " + algorithm)
	if !f.bindOK {
		return errors.New("lane is not idle")
	}
	return nil
}

func (f *fakeController) SetInterval(lane int, d time.Duration) error {
	f.record(fmt.Sprintf("interval %d %v", lane, d))
	return nil
}

func (f *fakeController) SetSize(n int) error {
	f.record(fmt.Sprintf("size %d", n))
	return nil
}

func (f *fakeController) Regenerate() ([]int, error) {
	f.record("regenerate")
	return []int{9, 1, 5}, nil
}

func (f *fakeController) Shared() ([]int, error) {
	return []int{3, 1, 2}, nil
}

func (f *fakeController) Status() ([lanes.NumLanes]lanes.LaneStatus, error) {
	return [lanes.NumLanes]lanes.LaneStatus{
		{Index: 0, Algorithm: "Bubble Sort", Interval: 50 * time.Millisecond},
		{Index: 1, Algorithm: "Quick Sort", Interval: time.Second},
	}, nil
}

func names() []string {
	return []string{"Bubble Sort", "Quick Sort", "Heap Sort"}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitShowsSharedArray(t *testing.T) {
	ctl := &fakeController{}
	m := New(ctl, names)
	m, _ = update(t, m, m.Init()())
	view := m.View()
	assert.Contains(t, view, "Lane 1: Bubble Sort")
	assert.Contains(t, view, "Lane 2: Quick Sort")
	assert.Contains(t, view, "steps: 0  idle")
	assert.Contains(t, view, "███")
}

func TestStepsRenderPerLane(t *testing.T) {
	m := New(&fakeController{}, names)
	m, _ = update(t, m, StepMsg{Lane: 1, Snapshot: []int{1, 2, 3}, Count: 7, Algorithm: "Heap Sort", Complexity: "O(n log n)"})
	view := m.View()
	assert.Contains(t, view, "Lane 2: Heap Sort  O(n log n)")
	assert.Contains(t, view, "steps: 7  running")

	m, _ = update(t, m, IdleMsg{Lane: 1})
	assert.Contains(t, m.View(), "steps: 7  idle")

	m, _ = update(t, m, StepMsg{Lane: 5})
	m, _ = update(t, m, ErrorMsg{Context: "lane 0", Message: "boom"})
	assert.Contains(t, m.View(), "lane 0: boom")
}

func TestKeysDriveController(t *testing.T) {
	ctl := &fakeController{}
	m := New(ctl, names)
	m, _ = update(t, m, m.Init()())

	m, cmd := update(t, m, key("s"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, lanes.Running, m.lanes[0].state)

	m, cmd = update(t, m, key("p"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, lanes.Paused, m.lanes[0].state)
	m, cmd = update(t, m, key("p"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, lanes.Running, m.lanes[0].state)

	m, _ = update(t, m, key("tab"))
	assert.Equal(t, 1, m.selected)
	m, cmd = update(t, m, key("x"))
	m, _ = update(t, m, cmd())

	m, cmd = update(t, m, key("g"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, []int{9, 1, 5}, m.shared)

	assert.Equal(t, []string{"start 0", "pause 0", "resume 0", "stop 1", "regenerate"}, ctl.calls)

	_, cmd = update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCycleAlgorithm(t *testing.T) {
	ctl := &fakeController{bindOK: true}
	m := New(ctl, names)
	m, _ = update(t, m, m.Init()())

	m, cmd := update(t, m, key("]"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Quick Sort", m.lanes[0].bound)
	m, cmd = update(t, m, key("["))
	m, _ = update(t, m, cmd())
	m, cmd = update(t, m, key("["))
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Heap Sort", m.lanes[0].bound)
	assert.Contains(t, m.View(), "Lane 1: Heap Sort")

	ctl.bindOK = false
	m, cmd = update(t, m, key("]"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Heap Sort", m.lanes[0].bound)
	assert.Contains(t, m.View(), "lane is not idle")
}

func TestPaceAndSizeKeys(t *testing.T) {
	ctl := &fakeController{}
	m := New(ctl, names)
	m, _ = update(t, m, m.Init()())
	assert.Contains(t, m.View(), "every 50ms")

	m, cmd := update(t, m, key("+"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, 60*time.Millisecond, m.lanes[0].interval)
	assert.Contains(t, m.View(), "lane 1 interval 60ms")

	m, cmd = update(t, m, key("-"))
	m, _ = update(t, m, cmd())
	m, cmd = update(t, m, key("-"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, 40*time.Millisecond, m.lanes[0].interval)

	// lane 2 already sits at the slowest pace
	m, _ = update(t, m, key("tab"))
	m, cmd = update(t, m, key("+"))
	assert.Nil(t, cmd)

	m, cmd = update(t, m, key(">"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, 8, m.size)
	assert.Contains(t, m.View(), "size 8")
	assert.Equal(t, []int{3, 1, 2}, m.shared, "array kept until regenerated")

	m, cmd = update(t, m, key("<"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, 5, m.size)
	_, cmd = update(t, m, key("<"))
	assert.Nil(t, cmd)

	assert.Equal(t, []string{
		"interval 0 60ms",
		"interval 0 50ms",
		"interval 0 40ms",
		"size 8",
		"size 5",
	}, ctl.calls)
}

func TestPaceClampsToFastest(t *testing.T) {
	ctl := &fakeController{}
	m := New(ctl, names)
	m, _ = update(t, m, m.Init()())
	m.lanes[0].interval = 4 * time.Millisecond

	m, cmd := update(t, m, key("-"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, lanes.MinInterval, m.lanes[0].interval)
	_, cmd = update(t, m, key("-"))
	assert.Nil(t, cmd)
}

type sendRecorder struct {
	msgs []tea.Msg
}

func (s *sendRecorder) Send(msg tea.Msg) {
	s.msgs = append(s.msgs, msg)
}

func TestDisplaySends(t *testing.T) {
	d := &Display{}
	d.OnStep(0, []int{1}, 0, "a", "b")

	s := &sendRecorder{}
	d.Attach(s)
	d.OnStep(0, []int{1}, 0, "a", "b")
	d.OnLaneIdle(1)
	d.OnError("lane 1", "bad")
	require.Len(t, s.msgs, 3)
	assert.Equal(t, StepMsg{Lane: 0, Snapshot: []int{1}, Algorithm: "a", Complexity: "b"}, s.msgs[0])
	assert.Equal(t, IdleMsg{Lane: 1}, s.msgs[1])
	assert.Equal(t, ErrorMsg{Context: "lane 1", Message: "bad"}, s.msgs[2])
}

func TestBars(t *testing.T) {
	got := bars([]int{1, 2, 4}, 4)
	assert.Equal(t, strings.Join([]string{
		"  █",
		"  █",
		" ██",
		"███",
	}, "\n"), got)
	assert.Empty(t, bars(nil, 4))
}
