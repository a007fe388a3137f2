package engine

import (
	"testing"
	"time"

	"github.com/julianstephens/seq4d/internal/config"
	"github.com/julianstephens/seq4d/internal/models"
	"github.com/julianstephens/seq4d/internal/scene"
)

func day(d int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func ptr(v time.Time) *time.Time { return &v }

func tenDayWindow() models.AnimationWindow {
	return models.AnimationWindow{
		StartFrame:  1,
		TotalFrames: 100,
		Start:       day(0),
		Finish:      day(10),
		Duration:    day(10).Sub(day(0)),
	}
}

func scheduleFixture() *models.Schedule {
	return &models.Schedule{
		ID: "s1",
		Roots: []*models.Task{
			{
				ID:       "build-wall",
				Category: models.CategoryConstruction,
				Dates: map[models.DateSource]models.TaskDates{
					models.DateSourceSchedule: {Start: ptr(day(2)), Finish: ptr(day(4))},
				},
				Outputs: []string{"wall"},
			},
			{
				ID:       "demolish-shed",
				Category: models.CategoryDemolition,
				Dates: map[models.DateSource]models.TaskDates{
					models.DateSourceSchedule: {Start: ptr(day(6)), Finish: ptr(day(8))},
				},
				Inputs: []string{"shed"},
			},
		},
	}
}

func hostFixture() *scene.MemoryHost {
	host := scene.NewMemoryHost()
	host.AddObject("wall-a", scene.KindMesh, "wall")
	host.AddObject("shed-1", scene.KindMesh, "shed")
	host.AddObject("orphan", scene.KindMesh, "unscheduled")
	host.AddObject("storey", scene.KindContainer, "storey")
	return host
}

func TestComputeProductFrames_IndexedStrategy(t *testing.T) {
	eng := New(config.Default(), hostFixture())
	result, report, err := eng.ComputeProductFrames(scheduleFixture(), tenDayWindow())
	if err != nil {
		t.Fatalf("ComputeProductFrames failed: %v", err)
	}

	if report.Strategy != "indexed" {
		t.Errorf("Expected indexed strategy, got %q", report.Strategy)
	}
	if report.Fallback {
		t.Error("Expected no fallback")
	}
	if report.PassID == "" {
		t.Error("Expected a pass id")
	}
	if report.Tasks != 2 || report.Products != 2 || report.Records != 2 {
		t.Errorf("Unexpected report counts: %+v", report)
	}

	wall := result["wall"]
	if len(wall) != 1 || wall[0].Relationship != models.RelationshipOutput {
		t.Errorf("Unexpected wall records: %+v", wall)
	}
	if wall[0].Active.First != 21 || wall[0].Active.Last != 41 {
		t.Errorf("Expected wall active [21,41], got %+v", wall[0].Active)
	}
}

func TestComputeProductFrames_NilSchedule(t *testing.T) {
	eng := New(config.Default(), hostFixture())
	result, _, err := eng.ComputeProductFrames(nil, tenDayWindow())
	if err == nil {
		t.Fatal("Expected error for nil schedule")
	}
	if result == nil || len(result) != 0 {
		t.Errorf("Expected an empty (non-nil) map, got %v", result)
	}
}

func TestComputeProductFrames_FallsBackWhenIndexedPathPanics(t *testing.T) {
	eng := New(config.Default(), hostFixture())
	schedule := scheduleFixture()

	// Prime the engine so the guard sees a matching schedule, then break the
	// resolver: the indexed path panics, the reference path must still serve.
	if _, _, err := eng.ComputeProductFrames(schedule, tenDayWindow()); err != nil {
		t.Fatalf("Priming pass failed: %v", err)
	}
	eng.dates = nil

	result, report, err := eng.ComputeProductFrames(schedule, tenDayWindow())
	if err != nil {
		t.Fatalf("Expected fallback to succeed, got %v", err)
	}
	if !report.Fallback {
		t.Error("Expected fallback flag set")
	}
	if report.Strategy != "reference" {
		t.Errorf("Expected reference strategy, got %q", report.Strategy)
	}
	if len(report.Warnings) == 0 {
		t.Error("Expected a warning in the report")
	}
	if len(result["wall"]) != 1 {
		t.Errorf("Expected fallback result to contain wall records, got %v", result)
	}
}

func TestComputeProductFrames_ScheduleChangeInvalidatesCaches(t *testing.T) {
	eng := New(config.Default(), hostFixture())

	first := scheduleFixture()
	if _, report, err := eng.ComputeProductFrames(first, tenDayWindow()); err != nil || report.Tasks != 2 {
		t.Fatalf("First pass failed: err=%v report=%+v", err, report)
	}

	second := &models.Schedule{
		ID: "s2",
		Roots: []*models.Task{{
			ID:       "only-task",
			Category: models.CategoryConstruction,
			Dates: map[models.DateSource]models.TaskDates{
				models.DateSourceSchedule: {Start: ptr(day(1)), Finish: ptr(day(2))},
			},
			Outputs: []string{"beam"},
		}},
	}
	result, report, err := eng.ComputeProductFrames(second, tenDayWindow())
	if err != nil {
		t.Fatalf("Second pass failed: %v", err)
	}
	if report.Tasks != 1 {
		t.Errorf("Expected index rebuilt for the new schedule, got %d tasks", report.Tasks)
	}
	if _, stale := result["wall"]; stale {
		t.Error("Expected no records from the previous schedule")
	}
}

func TestComputeProductFrames_EmptyScheduleIDAlwaysRebuilds(t *testing.T) {
	eng := New(config.Default(), hostFixture())

	// Two distinct snapshots that both lack an id must not share a cache
	// generation.
	first := &models.Schedule{
		Roots: []*models.Task{{
			ID:       "build-wall",
			Category: models.CategoryConstruction,
			Dates: map[models.DateSource]models.TaskDates{
				models.DateSourceSchedule: {Start: ptr(day(2)), Finish: ptr(day(4))},
			},
			Outputs: []string{"wall"},
		}},
	}
	second := &models.Schedule{
		Roots: []*models.Task{{
			ID:       "pour-slab",
			Category: models.CategoryConstruction,
			Dates: map[models.DateSource]models.TaskDates{
				models.DateSourceSchedule: {Start: ptr(day(1)), Finish: ptr(day(3))},
			},
			Outputs: []string{"slab"},
		}},
	}

	if _, _, err := eng.ComputeProductFrames(first, tenDayWindow()); err != nil {
		t.Fatalf("First pass failed: %v", err)
	}
	result, report, err := eng.ComputeProductFrames(second, tenDayWindow())
	if err != nil {
		t.Fatalf("Second pass failed: %v", err)
	}
	if report.Tasks != 1 {
		t.Errorf("Expected 1 task from the rebuilt index, got %d", report.Tasks)
	}
	if _, stale := result["wall"]; stale {
		t.Error("Expected no records from the first snapshot")
	}
	if len(result["slab"]) != 1 {
		t.Errorf("Expected the second snapshot's records, got %v", result)
	}
}

func TestNormalizeWindow_GuessesDateRange(t *testing.T) {
	eng := New(config.Default(), hostFixture())
	w, err := eng.NormalizeWindow(scheduleFixture(), models.AnimationWindow{TotalFrames: 100})
	if err != nil {
		t.Fatalf("NormalizeWindow failed: %v", err)
	}
	if !w.Start.Equal(day(2)) || !w.Finish.Equal(day(8)) {
		t.Errorf("Expected guessed range [day2, day8], got [%v, %v]", w.Start, w.Finish)
	}
	if w.StartFrame != 1 {
		t.Errorf("Expected default start frame 1, got %d", w.StartFrame)
	}
	if w.Duration != day(8).Sub(day(2)) {
		t.Errorf("Expected duration from the interval, got %v", w.Duration)
	}
}

func TestNormalizeWindow_DerivesFrameCountFromSpeed(t *testing.T) {
	eng := New(config.Default(), hostFixture())

	// One day of schedule per 4 hours of playback at 24 fps.
	w, err := eng.NormalizeWindow(scheduleFixture(), models.AnimationWindow{
		Start:  day(0),
		Finish: day(1),
		Speed:  14400,
	})
	if err != nil {
		t.Fatalf("NormalizeWindow failed: %v", err)
	}
	if w.TotalFrames != 144 {
		t.Errorf("Expected 144 frames from speed, got %d", w.TotalFrames)
	}

	w, err = eng.NormalizeWindow(scheduleFixture(), models.AnimationWindow{Start: day(0), Finish: day(1)})
	if err != nil {
		t.Fatalf("NormalizeWindow failed: %v", err)
	}
	if w.TotalFrames != 250 {
		t.Errorf("Expected default 250 frames, got %d", w.TotalFrames)
	}
}

func TestNormalizeWindow_UndatedScheduleFails(t *testing.T) {
	eng := New(config.Default(), hostFixture())
	empty := &models.Schedule{ID: "s0", Roots: []*models.Task{{ID: "t1"}}}
	if _, err := eng.NormalizeWindow(empty, models.AnimationWindow{}); err == nil {
		t.Error("Expected error when no range is set or derivable")
	}
}

func TestApplyAnimation_SetsTimelineAndKeyframes(t *testing.T) {
	host := hostFixture()
	eng := New(config.Default(), host)
	window := tenDayWindow()

	result, _, err := eng.ComputeProductFrames(scheduleFixture(), window)
	if err != nil {
		t.Fatalf("ComputeProductFrames failed: %v", err)
	}
	applied, err := eng.ApplyAnimation(result, window)
	if err != nil {
		t.Fatalf("ApplyAnimation failed: %v", err)
	}
	if applied == 0 {
		t.Fatal("Expected mutations to be applied")
	}

	// Timeline covers the window plus one trailing frame.
	if host.RangeStart != 1 || host.RangeEnd != 102 {
		t.Errorf("Expected timeline [1,102], got [%d,%d]", host.RangeStart, host.RangeEnd)
	}

	var wall *scene.MemoryObject
	for _, obj := range host.Objects() {
		if obj.Name() == "wall-a" {
			wall = obj.(*scene.MemoryObject)
		}
	}
	if wall == nil || len(wall.Keyframes) == 0 {
		t.Fatal("Expected keyframes on the wall object")
	}

	// Construction output: hidden through before_start, visible from the
	// active phase on.
	first := wall.Keyframes[0]
	if first.Frame != 1 || !first.Hidden {
		t.Errorf("Expected wall hidden at frame 1, got %+v", first)
	}
	sawVisible := false
	for _, kf := range wall.Keyframes {
		if kf.Frame == 21 && !kf.Hidden {
			sawVisible = true
		}
	}
	if !sawVisible {
		t.Error("Expected wall visible at its activation frame 21")
	}
}

func TestApplyAnimation_DemolitionHidesAtEnd(t *testing.T) {
	host := hostFixture()
	eng := New(config.Default(), host)
	window := tenDayWindow()

	result, _, err := eng.ComputeProductFrames(scheduleFixture(), window)
	if err != nil {
		t.Fatalf("ComputeProductFrames failed: %v", err)
	}
	if _, err := eng.ApplyAnimation(result, window); err != nil {
		t.Fatalf("ApplyAnimation failed: %v", err)
	}

	var shed *scene.MemoryObject
	for _, obj := range host.Objects() {
		if obj.Name() == "shed-1" {
			shed = obj.(*scene.MemoryObject)
		}
	}
	if shed == nil {
		t.Fatal("Missing shed object")
	}

	// Demolition input: visible before its task, hidden after it ends.
	var sawVisibleBefore, sawHiddenAfter bool
	for _, kf := range shed.Keyframes {
		if kf.Frame == 1 && !kf.Hidden {
			sawVisibleBefore = true
		}
		if kf.Frame > 70 && kf.Hidden {
			sawHiddenAfter = true
		}
	}
	if !sawVisibleBefore {
		t.Error("Expected shed visible before demolition starts")
	}
	if !sawHiddenAfter {
		t.Error("Expected shed hidden after demolition ends")
	}
}

func TestApplyAnimation_UnmappedProductsIgnored(t *testing.T) {
	host := hostFixture()
	eng := New(config.Default(), host)
	window := tenDayWindow()

	records := map[string][]models.ProductFrameRecord{
		"nonexistent": {{
			ProductID:    "nonexistent",
			Category:     models.CategoryConstruction,
			Relationship: models.RelationshipOutput,
			Active:       models.FrameSpan{First: 1, Last: 101},
			BeforeStart:  models.EmptySpan(),
			AfterEnd:     models.EmptySpan(),
		}},
	}
	applied, err := eng.ApplyAnimation(records, window)
	if err != nil {
		t.Fatalf("ApplyAnimation failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("Expected no mutations for unmapped products, got %d", applied)
	}
}

func TestApplyAnimation_InvalidWindow(t *testing.T) {
	eng := New(config.Default(), hostFixture())
	if _, err := eng.ApplyAnimation(map[string][]models.ProductFrameRecord{}, models.AnimationWindow{}); err == nil {
		t.Error("Expected error for invalid window")
	}
}

func TestApplySnapshot_StatesByDate(t *testing.T) {
	host := hostFixture()
	eng := New(config.Default(), host)
	schedule := scheduleFixture()

	// Day 3: wall construction active, shed not yet demolished.
	if err := eng.ApplySnapshot(schedule, day(3)); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}
	objects := map[string]*scene.MemoryObject{}
	for _, obj := range host.Objects() {
		if mem, ok := obj.(*scene.MemoryObject); ok {
			objects[mem.Name()] = mem
		}
	}
	if objects["wall-a"].Hidden {
		t.Error("Expected wall visible during its construction")
	}
	if objects["shed-1"].Hidden {
		t.Error("Expected shed visible before its demolition")
	}
	if !objects["orphan"].Hidden {
		t.Error("Expected unscheduled object hidden in snapshot")
	}

	// Day 9: construction done, demolition done.
	if err := eng.ApplySnapshot(schedule, day(9)); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}
	if objects["wall-a"].Hidden {
		t.Error("Expected wall to remain visible after construction")
	}
	if !objects["shed-1"].Hidden {
		t.Error("Expected shed hidden after demolition")
	}

	// Day 1: construction not started, wall hidden.
	if err := eng.ApplySnapshot(schedule, day(1)); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}
	if !objects["wall-a"].Hidden {
		t.Error("Expected wall hidden before construction starts")
	}
}

func TestClearAnimation_ResetsObjects(t *testing.T) {
	host := hostFixture()
	eng := New(config.Default(), host)
	window := tenDayWindow()

	result, _, err := eng.ComputeProductFrames(scheduleFixture(), window)
	if err != nil {
		t.Fatalf("ComputeProductFrames failed: %v", err)
	}
	if _, err := eng.ApplyAnimation(result, window); err != nil {
		t.Fatalf("ApplyAnimation failed: %v", err)
	}

	eng.ClearAnimation(true)
	for _, obj := range host.Objects() {
		mem, ok := obj.(*scene.MemoryObject)
		if !ok || !mem.Kind().Renderable() {
			continue
		}
		if mem.Hidden {
			t.Errorf("Expected %s visible after clear", mem.Name())
		}
		if len(mem.Keyframes) != 0 {
			t.Errorf("Expected %s keyframes cleared, got %d", mem.Name(), len(mem.Keyframes))
		}
		if mem.Color != neutralColor {
			t.Errorf("Expected %s reset to neutral color, got %+v", mem.Name(), mem.Color)
		}
	}
}

func TestBakeActivationJob_ProducesFractions(t *testing.T) {
	eng := New(config.Default(), hostFixture())
	job, err := eng.BakeActivationJob(scheduleFixture(), tenDayWindow())
	if err != nil {
		t.Fatalf("BakeActivationJob failed: %v", err)
	}

	value, err := job(func(progress float64, message string) {})
	if err != nil {
		t.Fatalf("Job failed: %v", err)
	}
	baked, ok := value.(map[string]BakedActivation)
	if !ok {
		t.Fatalf("Unexpected result type %T", value)
	}

	wall, ok := baked["wall-a"]
	if !ok {
		t.Fatal("Expected baked activation for wall-a")
	}
	// Active frames [21,41] over [1,101] → fractions 0.2 and 0.4.
	if wall.Start != 0.2 || wall.Finish != 0.4 {
		t.Errorf("Expected activation [0.2,0.4], got %+v", wall)
	}
	if _, ok := baked["orphan"]; ok {
		t.Error("Expected no activation for unscheduled object")
	}
}

func TestInvalidateProfiles_ServesEditedProfile(t *testing.T) {
	cfg := config.Default()
	eng := New(cfg, hostFixture())

	before := eng.profiles.Get(models.CategoryConstruction)
	if before.ShowBeforeStart {
		t.Fatal("Expected default construction profile")
	}

	// Edit the spec after it has been resolved once; both cache layers hold
	// the old compilation until invalidated.
	cfg.Profiles[models.CategoryConstruction] = config.ProfileSpec{
		StartColor:      "#112233",
		ActiveColor:     "#445566",
		ShowBeforeStart: true,
	}
	eng.InvalidateProfiles()

	after := eng.profiles.Get(models.CategoryConstruction)
	if !after.ShowBeforeStart {
		t.Error("Expected edited flag to be served after invalidate")
	}
	want, err := models.ParseHexColor("#445566")
	if err != nil {
		t.Fatalf("ParseHexColor failed: %v", err)
	}
	if after.ActiveColor != want {
		t.Errorf("Expected edited active color %+v, got %+v", want, after.ActiveColor)
	}
}

func TestProfileCache_FallsBackOnBadSpec(t *testing.T) {
	cfg := config.Default()
	cfg.Profiles[models.CategoryLogistic] = config.ProfileSpec{ActiveColor: "nothex"}
	eng := New(cfg, hostFixture())

	// An uncompilable spec must not fail the pass; the undefined default
	// serves instead.
	profile := eng.profiles.Get(models.CategoryLogistic)
	fallback, err := config.Default().ProfileFor(models.CategoryUndefined)
	if err != nil {
		t.Fatalf("ProfileFor failed: %v", err)
	}
	if profile != fallback {
		t.Errorf("Expected undefined fallback profile, got %+v", profile)
	}
}

func TestInvalidateScene_ForcesRebuildOnNextApply(t *testing.T) {
	host := hostFixture()
	eng := New(config.Default(), host)
	window := tenDayWindow()

	result, _, err := eng.ComputeProductFrames(scheduleFixture(), window)
	if err != nil {
		t.Fatalf("ComputeProductFrames failed: %v", err)
	}
	if _, err := eng.ApplyAnimation(result, window); err != nil {
		t.Fatalf("ApplyAnimation failed: %v", err)
	}

	// A second wall object appears; without invalidation the stale cache
	// would keep serving only the first.
	added := host.AddObject("wall-b", scene.KindMesh, "wall")
	eng.InvalidateScene()
	if _, err := eng.ApplyAnimation(result, window); err != nil {
		t.Fatalf("Second ApplyAnimation failed: %v", err)
	}
	if len(added.Keyframes) == 0 {
		t.Error("Expected the new object to receive keyframes after scene invalidation")
	}
}
