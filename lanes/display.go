package lanes

// Display receives the output of the scheduler. Its methods are called from the
// scheduler loop, one at a time, and must neither block nor call back into the
// Scheduler.
type Display interface {
	// OnStep is called for every step pulled from a lane. snapshot belongs to the
	// display but must not be modified.
	OnStep(lane int, snapshot []int, count int, algorithm, complexity string)
	// OnLaneIdle is called when a lane stops running, whatever the reason.
	OnLaneIdle(lane int)
	// OnError reports a failure; context names where it happened.
	OnError(context, message string)
}

// Fanout forwards every call to each display in turn.
type Fanout []Display

func (f Fanout) OnStep(lane int, snapshot []int, count int, algorithm, complexity string) {
	for _, d := range f {
		d.OnStep(lane, snapshot, count, algorithm, complexity)
	}
}

func (f Fanout) OnLaneIdle(lane int) {
	for _, d := range f {
		d.OnLaneIdle(lane)
	}
}

func (f Fanout) OnError(context, message string) {
	for _, d := range f {
		d.OnError(context, message)
	}
}

// Discard ignores everything.
type Discard struct{}

func (Discard) OnStep(int, []int, int, string, string) {}
func (Discard) OnLaneIdle(int)                         {}
func (Discard) OnError(string, string)                 {}
