// Package index holds the precomputed lookup structures for one schedule
// snapshot: the task/product relationship index and the memoized date
// resolver. Both have an explicit build/invalidate lifecycle; queries against
// an unbuilt index return empty results rather than failing.
package index

import (
	"github.com/julianstephens/seq4d/internal/logger"
	"github.com/julianstephens/seq4d/internal/models"
)

// Index precomputes task->product and product->task maps so the frame
// calculator never re-walks the task tree. One build replaces thousands of
// per-task scans.
type Index struct {
	taskOutputs map[string][]string
	taskInputs  map[string][]string

	productOutputTasks map[string][]*models.Task
	productInputTasks  map[string][]*models.Task

	tasks      []*models.Task
	productIDs map[string]struct{}
	built      bool
}

func New() *Index {
	idx := &Index{}
	idx.reset()
	return idx
}

func (x *Index) reset() {
	x.taskOutputs = make(map[string][]string)
	x.taskInputs = make(map[string][]string)
	x.productOutputTasks = make(map[string][]*models.Task)
	x.productInputTasks = make(map[string][]*models.Task)
	x.tasks = nil
	x.productIDs = make(map[string]struct{})
	x.built = false
}

// Build walks the task tree once and populates all maps. A task whose
// relationships cannot be recorded is logged and skipped; it never aborts
// indexing of the remaining tasks.
func (x *Index) Build(schedule *models.Schedule) {
	x.reset()
	if schedule == nil {
		x.built = true
		return
	}

	seen := make(map[string]struct{})
	schedule.WalkTasks(func(_, task *models.Task) bool {
		if task.ID == "" {
			logger.Warn("skipping task with empty id", "name", task.Name)
			return true
		}
		if _, dup := seen[task.ID]; dup {
			logger.Warn("skipping duplicate task id", "task", task.ID)
			return true
		}
		seen[task.ID] = struct{}{}
		x.tasks = append(x.tasks, task)

		for _, pid := range task.Outputs {
			if pid == "" {
				logger.Warn("skipping empty output product ref", "task", task.ID)
				continue
			}
			x.taskOutputs[task.ID] = append(x.taskOutputs[task.ID], pid)
			x.productOutputTasks[pid] = append(x.productOutputTasks[pid], task)
			x.productIDs[pid] = struct{}{}
		}
		for _, pid := range task.Inputs {
			if pid == "" {
				logger.Warn("skipping empty input product ref", "task", task.ID)
				continue
			}
			x.taskInputs[task.ID] = append(x.taskInputs[task.ID], pid)
			x.productInputTasks[pid] = append(x.productInputTasks[pid], task)
			x.productIDs[pid] = struct{}{}
		}
		return true
	})

	x.built = true
	logger.Debug("relationship index built",
		"tasks", len(x.tasks), "products", len(x.productIDs))
}

// Invalidate clears all maps and marks the index unbuilt.
func (x *Index) Invalidate() {
	x.reset()
}

func (x *Index) Built() bool { return x.built }

// OutputsForTask returns the product ids the task produces. Unknown ids and
// unbuilt indexes yield an empty slice.
func (x *Index) OutputsForTask(taskID string) []string {
	if !x.built {
		return nil
	}
	return x.taskOutputs[taskID]
}

// InputsForTask returns the product ids the task consumes.
func (x *Index) InputsForTask(taskID string) []string {
	if !x.built {
		return nil
	}
	return x.taskInputs[taskID]
}

// TasksForProduct returns the tasks consuming and producing the product.
func (x *Index) TasksForProduct(productID string) (inputs, outputs []*models.Task) {
	if !x.built {
		return nil, nil
	}
	return x.productInputTasks[productID], x.productOutputTasks[productID]
}

// Tasks returns the flattened task list in tree order.
func (x *Index) Tasks() []*models.Task {
	if !x.built {
		return nil
	}
	return x.tasks
}

// ProductIDs returns every product id referenced by any task.
func (x *Index) ProductIDs() []string {
	if !x.built {
		return nil
	}
	ids := make([]string, 0, len(x.productIDs))
	for id := range x.productIDs {
		ids = append(ids, id)
	}
	return ids
}
