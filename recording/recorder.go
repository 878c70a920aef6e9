// Package recording captures the step sequences produced by the lanes so they can be
// saved, reloaded and checked against a fresh replay.
package recording

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/duosort/lanes"
	"github.com/timewinder-dev/duosort/sorts"
)

// Run is everything one lane produced between a start and going idle.
type Run struct {
	ID         string
	Lane       int
	Algorithm  string
	Complexity string
	Steps      []sorts.Step
	// Err is the failure that ended the run, if any.
	Err string
	// Sorted reports whether the last recorded snapshot was in order.
	Sorted bool
}

func (r *Run) Input() []int {
	if len(r.Steps) == 0 {
		return nil
	}
	return r.Steps[0].Snapshot
}

func (r *Run) Fingerprint() uint64 {
	return sorts.Fingerprint(r.Steps)
}

// Recorder is a lanes.Display that keeps every run it sees.
type Recorder struct {
	mu       sync.Mutex
	current  [lanes.NumLanes]*Run
	finished []*Run
}

var _ lanes.Display = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnStep(lane int, snapshot []int, count int, algorithm, complexity string) {
	if lane < 0 || lane >= lanes.NumLanes {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.current[lane]
	if cur == nil || count == 0 {
		if cur != nil {
			r.finish(lane)
		}
		cur = &Run{
			ID:         uuid.NewString(),
			Lane:       lane,
			Algorithm:  algorithm,
			Complexity: complexity,
		}
		r.current[lane] = cur
		log.Debug().Str("run", cur.ID).Int("lane", lane).Str("algorithm", algorithm).Msg("recording run")
	}
	cur.Steps = append(cur.Steps, sorts.Step{Snapshot: slices.Clone(snapshot), Count: count})
}

func (r *Recorder) OnLaneIdle(lane int) {
	if lane < 0 || lane >= lanes.NumLanes {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finish(lane)
}

func (r *Recorder) OnError(context, message string) {
	var lane int
	if _, err := fmt.Sscanf(context, "lane %d", &lane); err != nil || lane < 0 || lane >= lanes.NumLanes {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.current[lane]; cur != nil {
		cur.Err = message
	}
}

func (r *Recorder) finish(lane int) {
	cur := r.current[lane]
	if cur == nil {
		return
	}
	r.current[lane] = nil
	cur.Sorted = isSorted(cur)
	r.finished = append(r.finished, cur)
}

func isSorted(run *Run) bool {
	if len(run.Steps) == 0 {
		return false
	}
	return slices.IsSorted(run.Steps[len(run.Steps)-1].Snapshot)
}

// Runs returns the finished runs in the order they finished.
func (r *Recorder) Runs() []*Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.finished)
}

// Reset forgets every finished run.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = nil
}
