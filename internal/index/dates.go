package index

import (
	"time"

	"github.com/julianstephens/seq4d/internal/models"
)

// Endpoint selects which side of a task's interval to resolve.
type Endpoint string

const (
	EndpointStart  Endpoint = "start"
	EndpointFinish Endpoint = "finish"
)

// Mode controls derivation when a task carries no date of its own.
type Mode int

const (
	// ModeNominal returns only the task's own date.
	ModeNominal Mode = iota
	// ModeEarliest falls back to the earliest date in the task's subtree.
	ModeEarliest
	// ModeLatest falls back to the latest date in the task's subtree.
	ModeLatest
)

type dateKey struct {
	taskID string
	source models.DateSource
	end    Endpoint
	mode   Mode
}

// DateResolver memoizes task date derivation. Misses are cached too, so a
// task with no resolvable date costs one subtree walk, not one per query.
//
// The resolver is pure with respect to a fixed schedule snapshot: switching
// schedules without calling Invalidate is a programming error and will serve
// stale dates.
type DateResolver struct {
	memo map[dateKey]*time.Time
}

func NewDateResolver() *DateResolver {
	return &DateResolver{memo: make(map[dateKey]*time.Time)}
}

// Resolve returns the task's effective date for the given source and
// endpoint, or nil when no date can be derived.
func (r *DateResolver) Resolve(task *models.Task, source models.DateSource, end Endpoint, mode Mode) *time.Time {
	if task == nil {
		return nil
	}
	key := dateKey{taskID: task.ID, source: source, end: end, mode: mode}
	if cached, ok := r.memo[key]; ok {
		return cached
	}
	resolved := derive(task, source, end, mode)
	r.memo[key] = resolved
	return resolved
}

// Invalidate clears the memo.
func (r *DateResolver) Invalidate() {
	r.memo = make(map[dateKey]*time.Time)
}

func own(task *models.Task, source models.DateSource, end Endpoint) *time.Time {
	dates := task.DatesFor(source)
	if end == EndpointStart {
		return dates.Start
	}
	return dates.Finish
}

// derive returns the task's own date when present, otherwise walks the
// subtree iteratively collecting the earliest or latest candidate.
func derive(task *models.Task, source models.DateSource, end Endpoint, mode Mode) *time.Time {
	if d := own(task, source, end); d != nil {
		v := *d
		return &v
	}
	if mode == ModeNominal {
		return nil
	}

	var best *time.Time
	stack := make([]*models.Task, len(task.Children))
	copy(stack, task.Children)
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t == nil {
			continue
		}
		if d := own(t, source, end); d != nil {
			if best == nil ||
				(mode == ModeEarliest && d.Before(*best)) ||
				(mode == ModeLatest && d.After(*best)) {
				v := *d
				best = &v
			}
			// A dated task bounds its whole subtree; no need to descend.
			continue
		}
		stack = append(stack, t.Children...)
	}
	return best
}
