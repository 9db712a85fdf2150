package tween

import "time"

// Group is an ordered set of tasks advanced together. RemoveAll is the
// primitive for replacing an in-flight animation: cancel everything the
// group drives, then start fresh tasks.
type Group struct {
	name  string
	tasks []*Task
}

// NewGroup creates an empty group. Groups created this way are advanced by
// their owner; use Scheduler.Group for groups advanced every frame.
func NewGroup(name string) *Group {
	return &Group{name: name}
}

// Name returns the group's name.
func (g *Group) Name() string {
	return g.name
}

// Start adds a task to the group and returns it.
func (g *Group) Start(t *Task) *Task {
	g.tasks = append(g.tasks, t)
	return t
}

// Update advances every task in insertion order. Tasks started from inside a
// callback begin advancing on the next update, and callbacks may call
// RemoveAll on this group.
func (g *Group) Update(dt time.Duration) {
	if len(g.tasks) == 0 {
		return
	}
	for _, t := range append([]*Task(nil), g.tasks...) {
		t.advance(dt)
	}
	g.compact()
}

// RemoveAll cancels every task in the group.
func (g *Group) RemoveAll() {
	for _, t := range g.tasks {
		t.Cancel()
	}
	g.tasks = g.tasks[:0]
}

// Len returns the number of tasks that are still pending or running.
func (g *Group) Len() int {
	n := 0
	for _, t := range g.tasks {
		if !t.Done() {
			n++
		}
	}
	return n
}

func (g *Group) compact() {
	live := g.tasks[:0]
	for _, t := range g.tasks {
		if !t.Done() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(g.tasks); i++ {
		g.tasks[i] = nil
	}
	g.tasks = live
}
