package engine

import (
	"fmt"
	"time"

	"github.com/julianstephens/seq4d/internal/index"
	"github.com/julianstephens/seq4d/internal/logger"
	"github.com/julianstephens/seq4d/internal/models"
	"github.com/julianstephens/seq4d/internal/scene"
)

var neutralColor = models.Color{R: 0.8, G: 0.8, B: 0.8, A: 1.0}

// ApplyAnimation resolves products to scene objects, builds visibility and
// appearance intents for every frame record, and flushes them as one batch.
// The host timeline bounds are set to cover the window plus one trailing
// frame. Returns the number of mutations applied.
func (e *Engine) ApplyAnimation(productFrames map[string][]models.ProductFrameRecord, window models.AnimationWindow) (int, error) {
	if e.host == nil {
		return 0, fmt.Errorf("no scene host attached")
	}
	if err := window.Validate(); err != nil {
		return 0, fmt.Errorf("invalid animation window: %w", err)
	}
	if !e.objects.Built() {
		e.objects.Build(e.host)
	}

	matched := 0
	for productID, records := range productFrames {
		objects := e.objects.ObjectsFor(productID)
		if len(objects) == 0 {
			continue
		}
		matched++
		for _, obj := range objects {
			for _, rec := range records {
				e.planRecord(obj, rec, window)
			}
		}
	}

	applied := e.applier.Flush(e.host)
	e.host.SetFrameRange(window.StartFrame, window.StartFrame+window.TotalFrames+1)
	logger.Info("animation applied",
		"products", matched, "mutations", applied)
	return applied, nil
}

// planRecord turns one ProductFrameRecord into batched intents. State
// transitions happen at the clipped active boundaries; each phase keyframes
// its state at both ends so playback holds it across the span.
func (e *Engine) planRecord(obj scene.Object, rec models.ProductFrameRecord, window models.AnimationWindow) {
	profile := e.profiles.Get(rec.Category)

	if rec.FinishedBeforeWindow(window) {
		// Task completed before the window opened: the product wears its
		// finished appearance for the whole animation.
		e.planPhaseHold(obj, rec.BeforeStart, profile.HideAtEnd, e.endColor(profile))
		return
	}

	if !rec.BeforeStart.Empty() {
		hidden := rec.Relationship == models.RelationshipOutput && !profile.ShowBeforeStart
		e.planPhaseHold(obj, rec.BeforeStart, hidden, e.startColor(profile))
	}
	if !rec.Active.Empty() {
		e.planPhaseHold(obj, rec.Active, false, &profile.ActiveColor)
	}
	if !rec.AfterEnd.Empty() {
		e.planPhaseHold(obj, rec.AfterEnd, profile.HideAtEnd, e.endColor(profile))
	}
}

// planPhaseHold keyframes one phase: state set at the first frame and held
// at the last. A nil color keeps the object's original appearance.
func (e *Engine) planPhaseHold(obj scene.Object, span models.FrameSpan, hidden bool, color *models.Color) {
	e.applier.AddVisibility(obj, span.First, hidden)
	if !hidden && color != nil {
		e.applier.AddAppearance(obj, span.First, *color)
	}
	if span.Last > span.First {
		e.applier.AddVisibility(obj, span.Last, hidden)
		if !hidden && color != nil {
			e.applier.AddAppearance(obj, span.Last, *color)
		}
	}
}

func (e *Engine) startColor(p models.AppearanceProfile) *models.Color {
	if p.UseOriginalStart {
		return nil
	}
	c := p.StartColor
	return &c
}

func (e *Engine) endColor(p models.AppearanceProfile) *models.Color {
	if p.UseOriginalEnd {
		return nil
	}
	c := p.EndColor
	return &c
}

// ApplySnapshot sets every mapped object to its state at a single instant,
// without keyframes. Objects whose tasks have no resolvable dates are hidden,
// matching snapshot behavior in the viewport.
func (e *Engine) ApplySnapshot(schedule *models.Schedule, at time.Time) error {
	if e.host == nil {
		return fmt.Errorf("no scene host attached")
	}
	if schedule == nil {
		return fmt.Errorf("no schedule loaded")
	}
	if schedule.ID == "" || e.scheduleID != schedule.ID {
		e.InvalidateSchedule()
		e.index.Build(schedule)
		e.scheduleID = schedule.ID
	} else if !e.index.Built() {
		e.index.Build(schedule)
	}
	if !e.objects.Built() {
		e.objects.Build(e.host)
	}

	for _, obj := range e.objects.Renderables() {
		pid := obj.ProductID()
		if pid == "" {
			continue
		}
		inputs, outputs := e.index.TasksForProduct(pid)
		if len(inputs) == 0 && len(outputs) == 0 {
			obj.SetHidden(true)
			continue
		}
		e.snapshotObject(obj, at, inputs, outputs)
	}
	return nil
}

func (e *Engine) snapshotObject(obj scene.Object, at time.Time, inputs, outputs []*models.Task) {
	apply := func(task *models.Task, rel models.Relationship) bool {
		start := e.dates.Resolve(task, e.cfg.DateSource, index.EndpointStart, index.ModeEarliest)
		finish := e.dates.Resolve(task, e.cfg.DateSource, index.EndpointFinish, index.ModeLatest)
		if start == nil || finish == nil {
			return false
		}
		profile := e.profiles.Get(task.Category)

		switch {
		case at.Before(*start):
			hidden := rel == models.RelationshipOutput && !profile.ShowBeforeStart
			obj.SetHidden(hidden)
			if !hidden && !profile.UseOriginalStart {
				obj.SetColor(profile.StartColor)
			}
		case !at.After(*finish):
			obj.SetHidden(false)
			obj.SetColor(profile.ActiveColor)
		default:
			obj.SetHidden(profile.HideAtEnd)
			if !profile.HideAtEnd && !profile.UseOriginalEnd {
				obj.SetColor(profile.EndColor)
			}
		}
		return true
	}

	applied := false
	for _, task := range outputs {
		if apply(task, models.RelationshipOutput) {
			applied = true
		}
	}
	for _, task := range inputs {
		if apply(task, models.RelationshipInput) {
			applied = true
		}
	}
	if !applied {
		obj.SetHidden(true)
	}
}

// ClearAnimation resets every scene object to the neutral default. With
// includeHostState set, keyframe data is cleared too.
func (e *Engine) ClearAnimation(includeHostState bool) {
	e.applier.Clear()
	if e.host == nil {
		return
	}
	for _, obj := range e.host.Objects() {
		if obj == nil || !obj.Kind().Renderable() {
			continue
		}
		if includeHostState {
			obj.ClearAnimation()
			continue
		}
		obj.SetHidden(false)
		obj.SetColor(neutralColor)
	}
}
