package frames

import (
	"testing"

	"github.com/julianstephens/seq4d/internal/index"
	"github.com/julianstephens/seq4d/internal/models"
)

func newBuiltCalculator(schedule *models.Schedule) *Calculator {
	idx := index.New()
	idx.Build(schedule)
	return NewCalculator(idx, index.NewDateResolver(), models.DateSourceSchedule)
}

func newUnbuiltCalculator() *Calculator {
	return NewCalculator(index.New(), index.NewDateResolver(), models.DateSourceSchedule)
}

func TestCalculator_ResolvesParentDatesFromChildren(t *testing.T) {
	// The summary task has no dates of its own; its interval derives from the
	// earliest child start and latest child finish.
	schedule := &models.Schedule{
		ID: "s1",
		Roots: []*models.Task{
			{
				ID:      "summary",
				Outputs: []string{"building"},
				Children: []*models.Task{
					{ID: "phase-1", Dates: map[models.DateSource]models.TaskDates{
						models.DateSourceSchedule: {Start: ptr(day(2)), Finish: ptr(day(4))},
					}},
					{ID: "phase-2", Dates: map[models.DateSource]models.TaskDates{
						models.DateSourceSchedule: {Start: ptr(day(5)), Finish: ptr(day(8))},
					}},
				},
			},
		},
	}

	calc := newBuiltCalculator(schedule)
	result, err := calc.Compute(schedule, tenDayWindow())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	records := result["building"]
	if len(records) != 1 {
		t.Fatalf("Expected 1 record for the summary task's product, got %d", len(records))
	}
	rec := records[0]
	if !rec.TaskStart.Equal(day(2)) || !rec.TaskFinish.Equal(day(8)) {
		t.Errorf("Expected derived interval [day2, day8], got [%v, %v]", rec.TaskStart, rec.TaskFinish)
	}
}

func TestCalculator_DefaultsEmptyCategoryToUndefined(t *testing.T) {
	schedule := &models.Schedule{
		ID: "s1",
		Roots: []*models.Task{{
			ID: "t1",
			Dates: map[models.DateSource]models.TaskDates{
				models.DateSourceSchedule: {Start: ptr(day(1)), Finish: ptr(day(2))},
			},
			Outputs: []string{"p1"},
		}},
	}

	calc := newBuiltCalculator(schedule)
	result, err := calc.Compute(schedule, tenDayWindow())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got := result["p1"][0].Category; got != models.CategoryUndefined {
		t.Errorf("Expected undefined category, got %q", got)
	}
}

func TestCalculator_FinishedTaskEmitsFullBeforeSpan(t *testing.T) {
	window := tenDayWindow()
	finish := day(-2)
	schedule := &models.Schedule{
		ID: "s1",
		Roots: []*models.Task{{
			ID:       "old-work",
			Category: models.CategoryConstruction,
			Dates: map[models.DateSource]models.TaskDates{
				models.DateSourceSchedule: {Start: ptr(day(-5)), Finish: &finish},
			},
			Outputs: []string{"foundation"},
		}},
	}

	calc := newBuiltCalculator(schedule)
	result, err := calc.Compute(schedule, window)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	records := result["foundation"]
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if !records[0].FinishedBeforeWindow(window) {
		t.Errorf("Expected record to report finished-before-window: %+v", records[0])
	}
}

func TestCalculator_DefaultDateSource(t *testing.T) {
	calc := NewCalculator(index.New(), index.NewDateResolver(), "")
	if calc.source != models.DateSourceSchedule {
		t.Errorf("Expected empty source to default to schedule, got %q", calc.source)
	}
}

func TestCalculator_UsesConfiguredDateSource(t *testing.T) {
	// Dates exist only under the actual source; a schedule-source pass skips
	// the task, an actual-source pass emits it.
	schedule := &models.Schedule{
		ID: "s1",
		Roots: []*models.Task{{
			ID: "t1",
			Dates: map[models.DateSource]models.TaskDates{
				models.DateSourceActual: {Start: ptr(day(2)), Finish: ptr(day(4))},
			},
			Outputs: []string{"p1"},
		}},
	}

	idx := index.New()
	idx.Build(schedule)

	bySchedule := NewCalculator(idx, index.NewDateResolver(), models.DateSourceSchedule)
	result, err := bySchedule.Compute(schedule, tenDayWindow())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected no records from the schedule source, got %d products", len(result))
	}

	byActual := NewCalculator(idx, index.NewDateResolver(), models.DateSourceActual)
	result, err = byActual.Compute(schedule, tenDayWindow())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(result["p1"]) != 1 {
		t.Errorf("Expected 1 record from the actual source, got %d", len(result["p1"]))
	}
}
