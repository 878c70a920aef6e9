package lanes

import (
	"fmt"
	"time"

	"github.com/timewinder-dev/duosort/catalog"
	"github.com/timewinder-dev/duosort/sorts"
)

type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type lane struct {
	index     int
	state     State
	bound     string
	interval  time.Duration
	gen       sorts.Generator
	algorithm *catalog.Algorithm
	ticker    *time.Ticker
	steps     int
}

// tickC is nil, and so never selected, unless the lane is running.
func (l *lane) tickC() <-chan time.Time {
	if l.ticker == nil {
		return nil
	}
	return l.ticker.C
}

func (l *lane) halt() {
	if l.ticker != nil {
		l.ticker.Stop()
		l.ticker = nil
	}
}

func (l *lane) release() {
	l.halt()
	if l.gen != nil {
		l.gen.Stop()
		l.gen = nil
	}
	l.state = Idle
}

// LaneStatus describes a lane at one point in time.
type LaneStatus struct {
	Index     int
	State     State
	Algorithm string
	Interval  time.Duration
	// Steps is the number of steps delivered by the current or last run.
	Steps int
}

func (l *lane) status() LaneStatus {
	return LaneStatus{
		Index:     l.index,
		State:     l.state,
		Algorithm: l.bound,
		Interval:  l.interval,
		Steps:     l.steps,
	}
}
