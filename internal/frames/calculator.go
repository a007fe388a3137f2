package frames

import (
	"fmt"

	"github.com/julianstephens/seq4d/internal/index"
	"github.com/julianstephens/seq4d/internal/logger"
	"github.com/julianstephens/seq4d/internal/models"
)

// Calculator is the indexed strategy: it iterates the prebuilt flat task list
// and answers every relationship and date query from the caches. The index
// and resolver must be built against the same schedule snapshot before
// Compute runs.
type Calculator struct {
	index  *index.Index
	dates  *index.DateResolver
	source models.DateSource
}

func NewCalculator(idx *index.Index, dates *index.DateResolver, source models.DateSource) *Calculator {
	if source == "" {
		source = models.DateSourceSchedule
	}
	return &Calculator{index: idx, dates: dates, source: source}
}

func (c *Calculator) Name() string { return "indexed" }

func (c *Calculator) Compute(schedule *models.Schedule, window models.AnimationWindow) (map[string][]models.ProductFrameRecord, error) {
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid animation window: %w", err)
	}
	if !c.index.Built() {
		return nil, fmt.Errorf("relationship index not built")
	}

	result := make(map[string][]models.ProductFrameRecord)
	for _, task := range c.index.Tasks() {
		start := c.dates.Resolve(task, c.source, index.EndpointStart, index.ModeEarliest)
		finish := c.dates.Resolve(task, c.source, index.EndpointFinish, index.ModeLatest)
		if start == nil || finish == nil {
			logger.Debug("task skipped: unresolved dates", "task", task.ID, "source", c.source)
			continue
		}

		before, active, after, emit := partition(window, *start, *finish)
		if !emit {
			continue
		}

		for _, pid := range c.index.OutputsForTask(task.ID) {
			result[pid] = append(result[pid],
				record(task, pid, models.RelationshipOutput, *start, *finish, before, active, after))
		}
		for _, pid := range c.index.InputsForTask(task.ID) {
			result[pid] = append(result[pid],
				record(task, pid, models.RelationshipInput, *start, *finish, before, active, after))
		}
	}
	return result, nil
}
