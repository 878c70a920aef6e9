package script

import (
	"errors"
	"fmt"
	"slices"

	"github.com/timewinder-dev/duosort/sorts"
	"go.starlark.net/starlark"
)

const emitterKey = "duosort.emitter"

var (
	errStopped = errors.New("run stopped")
	// ErrProtocol is returned when emitted steps do not start from the input with a
	// count of 0 and rise by exactly one.
	ErrProtocol = errors.New("step protocol violated")
)

var predeclared = starlark.StringDict{
	"emit": starlark.NewBuiltin("emit", emit),
}

// emitter forwards the steps of one run to its consumer.
type emitter struct {
	yield   func(sorts.Step, error) bool
	input   []int
	count   int
	emitted int
	stopped bool
}

// emit(arr, steps=None) reports the current state of arr. Without steps the count
// starts at 0 and rises by one per call. An explicit steps must be the count the
// call would have had anyway.
func emit(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var arr *starlark.List
	var steps starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "arr", &arr, "steps?", &steps); err != nil {
		return nil, err
	}
	em, ok := thread.Local(emitterKey).(*emitter)
	if !ok {
		return nil, fmt.Errorf("%s: called outside of a sorting run", b.Name())
	}
	snapshot := make([]int, arr.Len())
	for i := range snapshot {
		v, err := starlark.AsInt32(arr.Index(i))
		if err != nil {
			return nil, fmt.Errorf("%s: element %d: %w", b.Name(), i, err)
		}
		snapshot[i] = v
	}
	count := em.count + 1
	if steps != starlark.None {
		n, err := starlark.AsInt32(steps)
		if err != nil {
			return nil, fmt.Errorf("%s: steps: %w", b.Name(), err)
		}
		count = n
	}
	if err := em.check(snapshot, count); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	em.count = count
	em.emitted++
	if !em.yield(sorts.Step{Snapshot: snapshot, Count: count}, nil) {
		em.stopped = true
		return nil, errStopped
	}
	return starlark.None, nil
}

func (em *emitter) check(snapshot []int, count int) error {
	if em.emitted == 0 {
		if count != 0 {
			return fmt.Errorf("%w: first step has count %d, want 0", ErrProtocol, count)
		}
		if !slices.Equal(snapshot, em.input) {
			return fmt.Errorf("%w: first step must be the unsorted input", ErrProtocol)
		}
		return nil
	}
	if count != em.count+1 {
		return fmt.Errorf("%w: step count %d follows %d", ErrProtocol, count, em.count)
	}
	return nil
}
