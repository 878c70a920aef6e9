// Package lanes drives two sorting runs side by side, each at its own pace.
//
// All lane state is owned by a single loop started with Scheduler.Run. Public
// methods hand their work to that loop and wait for it, so tick handlers and
// commands never run concurrently and a lane is never advanced twice per tick.
package lanes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/duosort/catalog"
	"github.com/timewinder-dev/duosort/sorts"
)

// NumLanes is the number of lanes a scheduler owns.
const NumLanes = 2

const (
	DefaultSize     = 30
	DefaultMin      = 1
	DefaultMax      = 100
	DefaultInterval = 50 * time.Millisecond

	MinSize     = 5
	MaxSize     = 100
	MinInterval = time.Millisecond
	MaxInterval = time.Second
)

var (
	ErrBadLane     = errors.New("no such lane")
	ErrBadInterval = errors.New("interval out of range")
	ErrBadSize     = errors.New("array size out of range")
	ErrBusy        = errors.New("lane is not idle")
	ErrClosed      = errors.New("scheduler is not running")
	ErrStarted     = errors.New("scheduler already started")
)

// Scheduler owns the two lanes and the shared array they sort.
type Scheduler struct {
	catalog *catalog.Catalog
	display Display
	source  ArraySource

	size   int
	lo, hi int
	shared []int
	lanes  [NumLanes]*lane

	cmds    chan func()
	done    chan struct{}
	started atomic.Bool
}

type Option func(*Scheduler)

func WithSource(src ArraySource) Option {
	return func(s *Scheduler) {
		s.source = src
	}
}

// WithSize sets the length of generated arrays.
func WithSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.size = n
		}
	}
}

// WithRange sets the inclusive value range of generated arrays.
func WithRange(lo, hi int) Option {
	return func(s *Scheduler) {
		s.lo, s.hi = lo, hi
	}
}

// WithLane binds a lane to an algorithm and pacing interval. Invalid lanes and
// non-positive intervals are ignored.
func WithLane(idx int, algorithm string, interval time.Duration) Option {
	return func(s *Scheduler) {
		if idx < 0 || idx >= NumLanes {
			return
		}
		if algorithm != "" {
			s.lanes[idx].bound = algorithm
		}
		if interval > 0 {
			s.lanes[idx].interval = interval
		}
	}
}

// New creates a scheduler with both lanes idle and a first shared array already
// generated. Lanes default to the first catalog entry.
func New(cat *catalog.Catalog, display Display, opts ...Option) *Scheduler {
	if display == nil {
		display = Discard{}
	}
	s := &Scheduler{
		catalog: cat,
		display: display,
		size:    DefaultSize,
		lo:      DefaultMin,
		hi:      DefaultMax,
		cmds:    make(chan func()),
		done:    make(chan struct{}),
	}
	var first string
	if names := cat.Names(); len(names) > 0 {
		first = names[0]
	}
	for i := range s.lanes {
		s.lanes[i] = &lane{index: i, bound: first, interval: DefaultInterval}
	}
	for _, o := range opts {
		o(s)
	}
	if s.source == nil {
		s.source = NewRandomSource(0)
	}
	s.shared = s.source.Ints(s.size, s.lo, s.hi)
	return s
}

// Run processes commands and lane ticks until ctx is cancelled. Every other method
// blocks until Run has been called, and fails with ErrClosed once it returns.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	defer close(s.done)
	log.Debug().Msg("lane scheduler started")
	for {
		select {
		case <-ctx.Done():
			for i := range s.lanes {
				s.stop(i)
			}
			log.Debug().Msg("lane scheduler stopped")
			return ctx.Err()
		case fn := <-s.cmds:
			fn()
		case <-s.lanes[0].tickC():
			s.tick(0)
		case <-s.lanes[1].tickC():
			s.tick(1)
		}
	}
}

// Done is closed when Run returns.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) do(fn func() error) error {
	res := make(chan error, 1)
	select {
	case s.cmds <- func() { res <- fn() }:
		return <-res
	case <-s.done:
		return ErrClosed
	}
}

func checkLane(idx int) error {
	if idx < 0 || idx >= NumLanes {
		return fmt.Errorf("%w: %d", ErrBadLane, idx)
	}
	return nil
}

// Start begins a run on lane idx over a copy of the shared array. Starting a running
// lane does nothing; starting a paused lane discards the paused run.
func (s *Scheduler) Start(idx int) error {
	if err := checkLane(idx); err != nil {
		return err
	}
	return s.do(func() error { return s.start(idx) })
}

// Stop returns lane idx to idle, discarding its run.
func (s *Scheduler) Stop(idx int) error {
	if err := checkLane(idx); err != nil {
		return err
	}
	return s.do(func() error {
		s.stop(idx)
		return nil
	})
}

// Pause halts ticking on a running lane but keeps its run for Resume.
func (s *Scheduler) Pause(idx int) error {
	if err := checkLane(idx); err != nil {
		return err
	}
	return s.do(func() error {
		l := s.lanes[idx]
		if l.state != Running {
			return nil
		}
		l.halt()
		l.state = Paused
		log.Debug().Int("lane", idx).Int("steps", l.steps).Msg("lane paused")
		return nil
	})
}

// Resume continues a paused lane. It does nothing for lanes that are not paused.
func (s *Scheduler) Resume(idx int) error {
	if err := checkLane(idx); err != nil {
		return err
	}
	return s.do(func() error {
		l := s.lanes[idx]
		if l.state != Paused {
			return nil
		}
		l.state = Running
		l.ticker = time.NewTicker(l.interval)
		log.Debug().Int("lane", idx).Msg("lane resumed")
		return nil
	})
}

// Regenerate stops both lanes and replaces the shared array with a fresh one, which
// it returns.
func (s *Scheduler) Regenerate() ([]int, error) {
	var out []int
	err := s.do(func() error {
		for i := range s.lanes {
			s.stop(i)
		}
		s.shared = s.source.Ints(s.size, s.lo, s.hi)
		out = slices.Clone(s.shared)
		log.Debug().Int("size", s.size).Msg("regenerated shared array")
		return nil
	})
	return out, err
}

// Bind selects the algorithm lane idx runs next. The lane must not be running.
func (s *Scheduler) Bind(idx int, algorithm string) error {
	if err := checkLane(idx); err != nil {
		return err
	}
	if _, err := s.catalog.Lookup(algorithm); err != nil {
		return err
	}
	return s.do(func() error {
		l := s.lanes[idx]
		if l.state != Idle {
			return fmt.Errorf("%w: lane %d", ErrBusy, idx)
		}
		l.bound = algorithm
		return nil
	})
}

// SetInterval changes the pacing of lane idx, within MinInterval and MaxInterval. A
// running lane picks it up at once.
func (s *Scheduler) SetInterval(idx int, d time.Duration) error {
	if err := checkLane(idx); err != nil {
		return err
	}
	if d < MinInterval || d > MaxInterval {
		return fmt.Errorf("%w: %v", ErrBadInterval, d)
	}
	return s.do(func() error {
		l := s.lanes[idx]
		l.interval = d
		if l.ticker != nil {
			l.ticker.Reset(d)
		}
		return nil
	})
}

// SetSize sets the length used by the next Regenerate, within MinSize and MaxSize.
func (s *Scheduler) SetSize(n int) error {
	if n < MinSize || n > MaxSize {
		return fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	return s.do(func() error {
		s.size = n
		return nil
	})
}

// Shared returns a copy of the current shared array.
func (s *Scheduler) Shared() ([]int, error) {
	var out []int
	err := s.do(func() error {
		out = slices.Clone(s.shared)
		return nil
	})
	return out, err
}

// Status reports the state of every lane.
func (s *Scheduler) Status() ([NumLanes]LaneStatus, error) {
	var out [NumLanes]LaneStatus
	err := s.do(func() error {
		for i, l := range s.lanes {
			out[i] = l.status()
		}
		return nil
	})
	return out, err
}

func (s *Scheduler) start(idx int) error {
	l := s.lanes[idx]
	if l.state == Running {
		return nil
	}
	if l.state == Paused {
		s.stop(idx)
	}
	alg, err := s.catalog.Lookup(l.bound)
	if err != nil {
		return err
	}
	gen, err := build(alg, slices.Clone(s.shared))
	if err != nil {
		return err
	}
	l.gen = gen
	l.algorithm = alg
	l.steps = 0
	l.state = Running
	l.ticker = time.NewTicker(l.interval)
	log.Debug().Int("lane", idx).Str("algorithm", alg.Name).Dur("interval", l.interval).Msg("lane started")
	return nil
}

func build(alg *catalog.Algorithm, input []int) (gen sorts.Generator, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("building %s: %v", alg.Name, r)
		}
	}()
	gen = alg.Factory(input)
	if gen == nil {
		return nil, fmt.Errorf("building %s: factory returned no generator", alg.Name)
	}
	return gen, nil
}

func (s *Scheduler) stop(idx int) {
	l := s.lanes[idx]
	if l.state == Idle {
		return
	}
	l.release()
	log.Debug().Int("lane", idx).Int("steps", l.steps).Msg("lane stopped")
	s.display.OnLaneIdle(idx)
}

func (s *Scheduler) tick(idx int) {
	l := s.lanes[idx]
	if l.state != Running {
		return
	}
	step, err := l.gen.Next()
	switch {
	case errors.Is(err, sorts.ErrExhausted):
		log.Debug().Int("lane", idx).Str("algorithm", l.algorithm.Name).Int("steps", l.steps).Msg("lane finished")
		s.stop(idx)
	case err != nil:
		log.Error().Err(err).Int("lane", idx).Str("algorithm", l.algorithm.Name).Msg("lane failed")
		s.display.OnError(fmt.Sprintf("lane %d", idx), err.Error())
		s.stop(idx)
	default:
		l.steps++
		s.display.OnStep(idx, step.Snapshot, step.Count, l.algorithm.Name, l.algorithm.Complexity)
	}
}
