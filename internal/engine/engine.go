// Package engine orchestrates one computation pass: build the relationship
// index and date resolver, compute the per-product frame table, resolve
// products to scene objects, and flush the resulting appearance timeline
// through the batch applier. All caches are owned by the Engine and mutated
// only between passes via explicit build/invalidate.
package engine

import (
	"fmt"
	"time"

	"github.com/julianstephens/seq4d/internal/batch"
	"github.com/julianstephens/seq4d/internal/config"
	"github.com/julianstephens/seq4d/internal/frames"
	"github.com/julianstephens/seq4d/internal/index"
	"github.com/julianstephens/seq4d/internal/logger"
	"github.com/julianstephens/seq4d/internal/models"
	"github.com/julianstephens/seq4d/internal/scene"
)

const defaultFPS = 24

type Engine struct {
	cfg  *config.Config
	host scene.Host

	index    *index.Index
	dates    *index.DateResolver
	objects  *scene.Cache
	profiles *profileCache
	applier  *batch.Applier

	// scheduleID guards against querying caches built for a different
	// schedule snapshot.
	scheduleID string
}

func New(cfg *config.Config, host scene.Host) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		cfg:      cfg,
		host:     host,
		index:    index.New(),
		dates:    index.NewDateResolver(),
		objects:  scene.NewCache(),
		profiles: newProfileCache(cfg),
		applier:  batch.NewApplier(),
	}
}

// InvalidateSchedule clears the relationship index and date memo. Must be
// called when the active schedule changes, strictly between passes.
func (e *Engine) InvalidateSchedule() {
	e.index.Invalidate()
	e.dates.Invalidate()
	e.scheduleID = ""
}

// InvalidateScene clears the product-to-object cache. Must be called when
// scene objects are added, removed, or reassociated.
func (e *Engine) InvalidateScene() {
	e.objects.Invalidate()
}

// InvalidateProfiles drops resolved appearance profiles; call after profile
// or category configuration changes.
func (e *Engine) InvalidateProfiles() {
	e.profiles.Invalidate()
}

// ComputeProductFrames builds the per-product frame table for the schedule
// under the given window. Individual task failures are skipped and reported;
// only an unusable schedule fails the whole pass, returning an empty map.
func (e *Engine) ComputeProductFrames(schedule *models.Schedule, window models.AnimationWindow) (map[string][]models.ProductFrameRecord, *Report, error) {
	report := newReport()
	started := time.Now()

	if schedule == nil {
		return map[string][]models.ProductFrameRecord{}, report, fmt.Errorf("no schedule loaded")
	}

	window, err := e.NormalizeWindow(schedule, window)
	if err != nil {
		return map[string][]models.ProductFrameRecord{}, report, err
	}

	// An empty id gives no way to tell snapshots apart, so always rebuild.
	if schedule.ID == "" || e.scheduleID != schedule.ID {
		e.InvalidateSchedule()
		e.index.Build(schedule)
		e.scheduleID = schedule.ID
	} else if !e.index.Built() {
		e.index.Build(schedule)
	}
	report.Tasks = len(e.index.Tasks())

	result, err := e.computeIndexed(schedule, window, report)
	if err != nil {
		// The optimized path degrades performance, never correctness:
		// fall back to the reference strategy.
		logger.Warn("indexed frame computation failed, falling back",
			"pass", report.PassID, "err", err)
		report.warn(fmt.Sprintf("indexed strategy failed: %v", err))
		report.Fallback = true

		ref := frames.NewReference(e.cfg.DateSource)
		report.Strategy = ref.Name()
		result, err = ref.Compute(schedule, window)
		if err != nil {
			return map[string][]models.ProductFrameRecord{}, report, fmt.Errorf("frame computation failed: %w", err)
		}
	}

	report.Products = len(result)
	for _, records := range result {
		report.Records += len(records)
	}
	report.Elapsed = time.Since(started)
	logger.Info("product frames computed",
		"pass", report.PassID, "strategy", report.Strategy,
		"products", report.Products, "records", report.Records,
		"elapsed", report.Elapsed)
	return result, report, nil
}

// computeIndexed runs the fast strategy, converting a panic anywhere in the
// indexed path into an error so the caller can fall back.
func (e *Engine) computeIndexed(schedule *models.Schedule, window models.AnimationWindow, report *Report) (result map[string][]models.ProductFrameRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("indexed strategy panicked: %v", r)
		}
	}()
	calc := frames.NewCalculator(e.index, e.dates, e.cfg.DateSource)
	report.Strategy = calc.Name()
	return calc.Compute(schedule, window)
}

// NormalizeWindow fills in derivable window fields: a missing calendar
// interval is guessed from the schedule's own date range, a missing duration
// comes from the interval, and a missing frame count is derived from the
// playback speed at the default frame rate.
func (e *Engine) NormalizeWindow(schedule *models.Schedule, w models.AnimationWindow) (models.AnimationWindow, error) {
	if w.Start.IsZero() || w.Finish.IsZero() {
		start, finish := GuessDateRange(schedule, e.cfg.DateSource)
		if start == nil || finish == nil {
			return w, fmt.Errorf("no visualization range set and none derivable from schedule")
		}
		if w.Start.IsZero() {
			w.Start = *start
		}
		if w.Finish.IsZero() {
			w.Finish = *finish
		}
	}
	if !w.Finish.After(w.Start) {
		w.Finish = w.Start.Add(24 * time.Hour)
	}
	if w.Duration <= 0 {
		w.Duration = w.Finish.Sub(w.Start)
	}
	if w.StartFrame <= 0 {
		w.StartFrame = 1
	}
	if w.TotalFrames <= 0 {
		if w.Speed > 0 {
			w.TotalFrames = int(w.Duration.Seconds() / w.Speed * defaultFPS)
		}
		if w.TotalFrames <= 0 {
			w.TotalFrames = 250
		}
	}
	return w, w.Validate()
}

// GuessDateRange derives [earliest start, latest finish] over all resolvable
// tasks in the schedule.
func GuessDateRange(schedule *models.Schedule, source models.DateSource) (*time.Time, *time.Time) {
	if schedule == nil {
		return nil, nil
	}
	resolver := index.NewDateResolver()
	var start, finish *time.Time
	schedule.WalkTasks(func(_, task *models.Task) bool {
		if s := resolver.Resolve(task, source, index.EndpointStart, index.ModeEarliest); s != nil {
			if start == nil || s.Before(*start) {
				start = s
			}
		}
		if f := resolver.Resolve(task, source, index.EndpointFinish, index.ModeLatest); f != nil {
			if finish == nil || f.After(*finish) {
				finish = f
			}
		}
		return true
	})
	return start, finish
}
