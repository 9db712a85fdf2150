package tween

import "time"

type taskState uint8

const (
	statePending taskState = iota
	stateRunning
	stateCompleted
	stateCanceled
)

type binding struct {
	target   *float32
	from, to float32
}

// Task animates a set of float32 fields from their values at start time to
// fixed targets. Start values are captured when the task actually starts,
// after its delay, so chained tasks pick up wherever the previous writer
// left the field.
type Task struct {
	bindings []binding
	delay    time.Duration
	duration time.Duration
	easing   Easing
	elapsed  time.Duration
	state    taskState

	onStart    func()
	onUpdate   func(k float32)
	onComplete func()
}

// New creates a task lasting d. A zero or negative duration completes on the
// first advance past its delay.
func New(d time.Duration) *Task {
	return &Task{duration: d, easing: Linear}
}

// To binds a field to animate toward value.
func (t *Task) To(field *float32, value float32) *Task {
	t.bindings = append(t.bindings, binding{target: field, to: value})
	return t
}

// Delay postpones the start of the task.
func (t *Task) Delay(d time.Duration) *Task {
	t.delay = d
	return t
}

// Ease selects the easing curve (Linear by default).
func (t *Task) Ease(e Easing) *Task {
	if e != nil {
		t.easing = e
	}
	return t
}

// OnStart registers a callback fired once, when the delay has elapsed.
func (t *Task) OnStart(fn func()) *Task {
	t.onStart = fn
	return t
}

// OnUpdate registers a callback fired after every write with the eased fraction.
func (t *Task) OnUpdate(fn func(k float32)) *Task {
	t.onUpdate = fn
	return t
}

// OnComplete registers a callback fired once the targets have been written exactly.
func (t *Task) OnComplete(fn func()) *Task {
	t.onComplete = fn
	return t
}

// Cancel stops the task where it is. Bound fields keep their current values
// and no further callbacks fire.
func (t *Task) Cancel() {
	if t == nil || t.Done() {
		return
	}
	t.state = stateCanceled
}

// Done reports whether the task completed or was canceled.
func (t *Task) Done() bool {
	return t.state == stateCompleted || t.state == stateCanceled
}

// Completed reports whether the task ran to its end.
func (t *Task) Completed() bool {
	return t.state == stateCompleted
}

// Canceled reports whether the task was stopped before its end.
func (t *Task) Canceled() bool {
	return t.state == stateCanceled
}

// Running reports whether the task has started and not yet finished.
func (t *Task) Running() bool {
	return t.state == stateRunning
}

// Pending reports whether the task is still waiting out its delay.
func (t *Task) Pending() bool {
	return t.state == statePending
}

// Duration returns the animated span, excluding the delay.
func (t *Task) Duration() time.Duration {
	return t.duration
}

// advance moves the task forward by dt. It reports whether the task is done.
func (t *Task) advance(dt time.Duration) bool {
	if t.Done() {
		return true
	}
	t.elapsed += dt
	if t.state == statePending {
		if t.elapsed < t.delay {
			return false
		}
		t.begin()
		// OnStart may cancel.
		if t.Done() {
			return true
		}
	}

	active := t.elapsed - t.delay
	if t.duration <= 0 || active >= t.duration {
		t.finish()
		return true
	}

	k := t.easing(float32(active) / float32(t.duration))
	for _, b := range t.bindings {
		*b.target = b.from + (b.to-b.from)*k
	}
	if t.onUpdate != nil {
		t.onUpdate(k)
	}
	return t.Done()
}

func (t *Task) begin() {
	for i := range t.bindings {
		t.bindings[i].from = *t.bindings[i].target
	}
	t.state = stateRunning
	if t.onStart != nil {
		t.onStart()
	}
}

func (t *Task) finish() {
	for _, b := range t.bindings {
		*b.target = b.to
	}
	if t.onUpdate != nil {
		t.onUpdate(1)
	}
	if t.Done() {
		return
	}
	t.state = stateCompleted
	if t.onComplete != nil {
		t.onComplete()
	}
}
