// Package script runs user-submitted sorting algorithms written in Starlark.
//
// A submission is a Starlark file whose first def is the entry point. The entry point
// receives the input as a list of ints and reports each step by calling the
// predeclared builtin emit(arr, steps=None). Submissions get no load statement, no
// I/O and a bounded number of execution steps per run.
package script

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/duosort/analyze"
	"github.com/timewinder-dev/duosort/sorts"
	"go.starlark.net/starlark"
)

// DefaultMaxSteps is the execution budget of a single run when none is configured.
// A step that never yields holds the lane scheduler until the budget runs out, so it
// stays well under a second of interpreter time.
const DefaultMaxSteps = 1_000_000

var (
	ErrNoFunction = errors.New("no function found in the code")
	ErrNoSteps    = errors.New("algorithm produced no steps")
)

type Runtime struct {
	maxSteps uint64
}

type Option func(*Runtime)

// WithMaxSteps sets the Starlark execution step budget for each run.
func WithMaxSteps(n uint64) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxSteps = n
		}
	}
}

func New(opts ...Option) *Runtime {
	rt := &Runtime{maxSteps: DefaultMaxSteps}
	for _, o := range opts {
		o(rt)
	}
	return rt
}

// Program is a loaded submission, ready to produce generators.
type Program struct {
	Name     string
	Entry    string
	fn       *starlark.Function
	maxSteps uint64
}

// Load executes the top level of src and resolves entry, which must name a function
// defined in it.
func (rt *Runtime) Load(name, filename, src, entry string) (*Program, error) {
	thread := newThread("load "+name, rt.maxSteps)
	globals, err := starlark.ExecFileOptions(analyze.SourceOptions(), thread, filename, src, predeclared)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	fn, ok := globals[entry].(*starlark.Function)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoFunction, entry)
	}
	return &Program{Name: name, Entry: entry, fn: fn, maxSteps: rt.maxSteps}, nil
}

func newThread(name string, maxSteps uint64) *starlark.Thread {
	thread := &starlark.Thread{
		Name: name,
		Print: func(thread *starlark.Thread, msg string) {
			log.Debug().Str("thread", thread.Name).Msg(msg)
		},
	}
	thread.SetMaxExecutionSteps(maxSteps)
	return thread
}

// Generator runs the entry point over a copy of input. The run advances only as steps
// are pulled.
func (p *Program) Generator(input []int) sorts.Generator {
	values := make([]starlark.Value, len(input))
	for i, v := range input {
		values[i] = starlark.MakeInt(v)
	}
	return sorts.Pull(func(yield func(sorts.Step, error) bool) {
		thread := newThread(p.Name, p.maxSteps)
		em := &emitter{yield: yield, input: slices.Clone(input), count: -1}
		thread.SetLocal(emitterKey, em)

		_, err := starlark.Call(thread, p.fn, starlark.Tuple{starlark.NewList(values)}, nil)
		if em.stopped {
			return
		}
		if err != nil {
			yield(sorts.Step{}, fmt.Errorf("running %s: %w", p.Name, err))
			return
		}
		if em.emitted == 0 {
			yield(sorts.Step{}, fmt.Errorf("running %s: %w", p.Name, ErrNoSteps))
		}
	})
}
