// Package validation checks a schedule snapshot for problems that would
// degrade a computation pass: structural defects fail validation, date and
// reference oddities are reported as warnings and handled by per-task
// recovery during the pass itself.
package validation

import (
	"fmt"

	"github.com/julianstephens/seq4d/internal/models"
)

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

type Issue struct {
	Level   Level  `json:"level"`
	TaskID  string `json:"task_id,omitempty"`
	Message string `json:"message"`
}

// Validate inspects the schedule and returns all issues found. An empty
// result means the schedule is clean; callers may still proceed with
// warnings present.
func Validate(schedule *models.Schedule, source models.DateSource) []Issue {
	var issues []Issue
	if schedule == nil {
		return []Issue{{Level: LevelError, Message: "no schedule loaded"}}
	}

	seen := make(map[string]struct{})
	schedule.WalkTasks(func(parent, task *models.Task) bool {
		if task.ID == "" {
			issues = append(issues, Issue{
				Level:   LevelError,
				Message: fmt.Sprintf("task %q has no id", task.Name),
			})
			return true
		}
		if _, dup := seen[task.ID]; dup {
			// Two distinct tasks carrying the same id.
			issues = append(issues, Issue{
				Level:   LevelError,
				TaskID:  task.ID,
				Message: "duplicate task id",
			})
			return true
		}
		seen[task.ID] = struct{}{}

		issues = append(issues, checkDates(task, source)...)
		issues = append(issues, checkRelationships(task)...)
		return true
	})
	issues = append(issues, checkNesting(schedule)...)
	return issues
}

// checkNesting flags tasks reachable through more than one parent link. The
// walk itself only ever visits a task once, so cycles and shared subtrees
// must be detected from the link counts rather than from repeat visits.
func checkNesting(schedule *models.Schedule) []Issue {
	roots := make(map[*models.Task]struct{}, len(schedule.Roots))
	for _, task := range schedule.Roots {
		roots[task] = struct{}{}
	}
	inbound := make(map[*models.Task]int)
	schedule.WalkTasks(func(_, task *models.Task) bool {
		for _, child := range task.Children {
			if child != nil {
				inbound[child]++
			}
		}
		return true
	})

	var issues []Issue
	schedule.WalkTasks(func(_, task *models.Task) bool {
		_, isRoot := roots[task]
		if inbound[task] > 1 || (isRoot && inbound[task] > 0) {
			issues = append(issues, Issue{
				Level:   LevelError,
				TaskID:  task.ID,
				Message: "task nested under more than one parent; hierarchy has a cycle or shared subtree",
			})
		}
		return true
	})
	return issues
}

func checkDates(task *models.Task, source models.DateSource) []Issue {
	dates := task.DatesFor(source)
	var issues []Issue
	if dates.Start == nil && dates.Finish == nil && len(task.Children) == 0 {
		issues = append(issues, Issue{
			Level:   LevelWarning,
			TaskID:  task.ID,
			Message: fmt.Sprintf("leaf task has no %s dates and will be skipped", source),
		})
	}
	if dates.Start != nil && dates.Finish != nil && dates.Finish.Before(*dates.Start) {
		issues = append(issues, Issue{
			Level:   LevelWarning,
			TaskID:  task.ID,
			Message: "finish precedes start; interval treated as zero-length",
		})
	}
	return issues
}

func checkRelationships(task *models.Task) []Issue {
	var issues []Issue
	for _, pid := range task.Outputs {
		if pid == "" {
			issues = append(issues, Issue{
				Level:   LevelWarning,
				TaskID:  task.ID,
				Message: "empty output product reference",
			})
		}
	}
	for _, pid := range task.Inputs {
		if pid == "" {
			issues = append(issues, Issue{
				Level:   LevelWarning,
				TaskID:  task.ID,
				Message: "empty input product reference",
			})
		}
	}
	return issues
}

// Errors filters the issue list down to hard errors.
func Errors(issues []Issue) []Issue {
	var errs []Issue
	for _, issue := range issues {
		if issue.Level == LevelError {
			errs = append(errs, issue)
		}
	}
	return errs
}
