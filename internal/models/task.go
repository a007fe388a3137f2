package models

import "time"

type TaskCategory string

const (
	CategoryConstruction TaskCategory = "construction"
	CategoryDemolition   TaskCategory = "demolition"
	CategoryRemoval      TaskCategory = "removal"
	CategoryDisposal     TaskCategory = "disposal"
	CategoryDismantle    TaskCategory = "dismantle"
	CategoryOperation    TaskCategory = "operation"
	CategoryMaintenance  TaskCategory = "maintenance"
	CategoryLogistic     TaskCategory = "logistic"
	CategoryUndefined    TaskCategory = "undefined"
)

// Demolishes reports whether tasks of this category remove their products
// from the scene when they complete.
func (c TaskCategory) Demolishes() bool {
	switch c {
	case CategoryDemolition, CategoryRemoval, CategoryDisposal, CategoryDismantle:
		return true
	}
	return false
}

// DateSource selects which date field pair defines a task's effective interval.
type DateSource string

const (
	DateSourceSchedule DateSource = "schedule"
	DateSourceActual   DateSource = "actual"
	DateSourceEarly    DateSource = "early"
	DateSourceLate     DateSource = "late"
)

// TaskDates holds the nominal start/finish instants for one date source.
// Either side may be nil; missing dates are derived from child tasks.
type TaskDates struct {
	Start  *time.Time `json:"start,omitempty"`
	Finish *time.Time `json:"finish,omitempty"`
}

// Task is a schedule activity. Tasks nest into a tree via Children; the
// schedule owns the tree and tasks are immutable for the duration of a
// computation pass.
type Task struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category TaskCategory `json:"category"`

	// Dates is keyed by date source. A task may carry schedule dates,
	// actual dates, both, or neither.
	Dates map[DateSource]TaskDates `json:"dates,omitempty"`

	// Outputs are product ids this task produces, Inputs product ids it
	// consumes or demolishes.
	Outputs []string `json:"outputs,omitempty"`
	Inputs  []string `json:"inputs,omitempty"`

	Children []*Task `json:"children,omitempty"`
}

// DatesFor returns the date pair for the given source, which may be the
// zero value when the task carries no dates for that source.
func (t *Task) DatesFor(source DateSource) TaskDates {
	if t.Dates == nil {
		return TaskDates{}
	}
	return t.Dates[source]
}

// Schedule is a snapshot of a work schedule: a forest of root tasks.
type Schedule struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Roots []*Task `json:"roots"`
}

// WalkTasks visits every task in the schedule exactly once, parents before
// children, using an explicit stack so deep hierarchies cannot exhaust the
// call stack. A task reachable through more than one parent link (shared
// subtree or cycle) is visited on first reach only, so the walk always
// terminates. Visiting stops early if fn returns false.
func (s *Schedule) WalkTasks(fn func(parent, task *Task) bool) {
	type item struct {
		parent *Task
		task   *Task
	}
	stack := make([]item, 0, len(s.Roots))
	for i := len(s.Roots) - 1; i >= 0; i-- {
		stack = append(stack, item{nil, s.Roots[i]})
	}
	visited := make(map[*Task]struct{})
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.task == nil {
			continue
		}
		if _, seen := visited[it.task]; seen {
			continue
		}
		visited[it.task] = struct{}{}
		if !fn(it.parent, it.task) {
			return
		}
		for i := len(it.task.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.task, it.task.Children[i]})
		}
	}
}
