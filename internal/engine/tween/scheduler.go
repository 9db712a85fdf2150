package tween

import "time"

// TimersGroup is the name of the group holding After callbacks.
const TimersGroup = "timers"

// Scheduler advances registered groups once per frame in registration order,
// then runs its after-advance hooks. Derived state (surface clamping, marker
// placement) is recomputed in hooks so a frame never mixes pre- and
// post-update animation values.
type Scheduler struct {
	now    time.Duration
	groups []*Group
	byName map[string]*Group
	hooks  []func()
}

// NewScheduler creates a scheduler whose first group holds timers.
func NewScheduler() *Scheduler {
	s := &Scheduler{byName: make(map[string]*Group)}
	s.Group(TimersGroup)
	return s
}

// Group returns the named group, registering it on first use.
func (s *Scheduler) Group(name string) *Group {
	if g, ok := s.byName[name]; ok {
		return g
	}
	g := NewGroup(name)
	s.byName[name] = g
	s.groups = append(s.groups, g)
	return g
}

// Groups returns the registered groups in advance order.
func (s *Scheduler) Groups() []*Group {
	return s.groups
}

// Now returns the scheduler clock: the sum of all advanced frame times.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn once d has elapsed on the scheduler clock. Cancel the
// returned task to drop the callback.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	return s.Group(TimersGroup).Start(New(0).Delay(d).OnComplete(fn))
}

// OnAdvanced registers a hook run after every group has advanced.
func (s *Scheduler) OnAdvanced(fn func()) {
	s.hooks = append(s.hooks, fn)
}

// Advance moves the clock forward by dt and steps every group.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	s.now += dt
	for i := 0; i < len(s.groups); i++ {
		s.groups[i].Update(dt)
	}
	for _, h := range s.hooks {
		h()
	}
}
