package frames

import (
	"fmt"

	"github.com/julianstephens/seq4d/internal/index"
	"github.com/julianstephens/seq4d/internal/logger"
	"github.com/julianstephens/seq4d/internal/models"
)

// Reference is the unindexed strategy: it walks the task tree directly and
// derives dates with a throwaway resolver, trading speed for independence
// from any prebuilt cache state. Its output is identical to the indexed
// calculator's.
type Reference struct {
	source models.DateSource
}

func NewReference(source models.DateSource) *Reference {
	if source == "" {
		source = models.DateSourceSchedule
	}
	return &Reference{source: source}
}

func (r *Reference) Name() string { return "reference" }

func (r *Reference) Compute(schedule *models.Schedule, window models.AnimationWindow) (map[string][]models.ProductFrameRecord, error) {
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid animation window: %w", err)
	}
	if schedule == nil {
		return map[string][]models.ProductFrameRecord{}, nil
	}

	dates := index.NewDateResolver()
	result := make(map[string][]models.ProductFrameRecord)
	schedule.WalkTasks(func(_, task *models.Task) bool {
		if task.ID == "" {
			return true
		}
		start := dates.Resolve(task, r.source, index.EndpointStart, index.ModeEarliest)
		finish := dates.Resolve(task, r.source, index.EndpointFinish, index.ModeLatest)
		if start == nil || finish == nil {
			logger.Debug("task skipped: unresolved dates", "task", task.ID, "source", r.source)
			return true
		}

		before, active, after, emit := partition(window, *start, *finish)
		if !emit {
			return true
		}

		for _, pid := range task.Outputs {
			if pid == "" {
				continue
			}
			result[pid] = append(result[pid],
				record(task, pid, models.RelationshipOutput, *start, *finish, before, active, after))
		}
		for _, pid := range task.Inputs {
			if pid == "" {
				continue
			}
			result[pid] = append(result[pid],
				record(task, pid, models.RelationshipInput, *start, *finish, before, active, after))
		}
		return true
	})
	return result, nil
}
