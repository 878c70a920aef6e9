package sorts

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrExhausted is returned by Generator.Next once the last step has been produced.
var ErrExhausted = errors.New("generator exhausted")

// Step is one observation of an array during a sort: a private copy of the array and
// the number of mutations performed so far.
type Step struct {
	Snapshot []int
	Count    int
}

// Generator produces the steps of a single sorting run, one per call to Next.
// Generators are not restartable; a new one must be built from a fresh copy of the
// input to sort again.
type Generator interface {
	// Next returns the next step, ErrExhausted at the end of the run, or any
	// other error if the run failed. After any error Next keeps returning
	// ErrExhausted.
	Next() (Step, error)
	// Stop abandons the run. It is safe to call more than once.
	Stop()
}

// Seq is a lazily produced step sequence, as returned by the built-in algorithms.
type Seq = iter.Seq[Step]

type pullGenerator struct {
	next func() (Step, error, bool)
	stop func()
	done bool
}

// Pull turns a sequence that may fail into a Generator.
func Pull(seq iter.Seq2[Step, error]) Generator {
	next, stop := iter.Pull2(seq)
	return &pullGenerator{next: next, stop: stop}
}

// FromSeq turns an infallible step sequence into a Generator.
func FromSeq(seq Seq) Generator {
	return Pull(func(yield func(Step, error) bool) {
		for s := range seq {
			if !yield(s, nil) {
				return
			}
		}
	})
}

func (g *pullGenerator) Next() (step Step, err error) {
	if g.done {
		return Step{}, ErrExhausted
	}
	defer func() {
		if r := recover(); r != nil {
			g.finish()
			step, err = Step{}, fmt.Errorf("generator panicked: %v", r)
		}
	}()
	step, err, ok := g.next()
	if !ok {
		g.finish()
		return Step{}, ErrExhausted
	}
	if err != nil {
		g.finish()
		return Step{}, err
	}
	return step, nil
}

func (g *pullGenerator) Stop() {
	g.finish()
}

func (g *pullGenerator) finish() {
	if g.done {
		return
	}
	g.done = true
	g.stop()
}

// Collect drains gen and returns every step it produced. The generator is stopped on
// return.
func Collect(gen Generator) ([]Step, error) {
	defer gen.Stop()
	var out []Step
	for {
		s, err := gen.Next()
		if errors.Is(err, ErrExhausted) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
}

// run is the working state shared by every recursive phase of one sort: the array
// being rearranged, the running mutation count and the consumer.
type run struct {
	arr   []int
	count int
	yield func(Step) bool
}

func start(input []int, yield func(Step) bool) (*run, bool) {
	r := &run{arr: slices.Clone(input), yield: yield}
	return r, yield(Step{Snapshot: slices.Clone(r.arr)})
}

// emit records one mutation. It reports false when the consumer stopped listening.
func (r *run) emit() bool {
	r.count++
	return r.yield(Step{Snapshot: slices.Clone(r.arr), Count: r.count})
}

func (r *run) swap(i, j int) bool {
	r.arr[i], r.arr[j] = r.arr[j], r.arr[i]
	return r.emit()
}
