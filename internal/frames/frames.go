// Package frames turns task calendar intervals into per-product frame
// partitions. Two interchangeable strategies exist: the indexed calculator
// backed by the relationship index and date resolver, and a reference
// implementation that recomputes everything on demand. Both produce identical
// records; the engine falls back to the reference path when the indexed one
// fails.
package frames

import (
	"math"
	"time"

	"github.com/julianstephens/seq4d/internal/models"
)

// Strategy computes the product frame table for one schedule and window.
type Strategy interface {
	Name() string
	Compute(schedule *models.Schedule, window models.AnimationWindow) (map[string][]models.ProductFrameRecord, error)
}

// partition maps a task interval onto the window's frame range and splits it
// into the three phases. emit is false when the task has no visible effect
// inside the window. The three spans always tile [StartFrame, EndFrame]
// exactly, except in the finished-before-window case where before_start
// covers the whole window and the other two spans are empty.
func partition(w models.AnimationWindow, taskStart, taskFinish time.Time) (before, active, after models.FrameSpan, emit bool) {
	// Entirely in the past: the product wears its finished appearance for
	// the whole animation.
	if taskFinish.Before(w.Start) {
		return models.FrameSpan{First: w.StartFrame, Last: w.EndFrame()},
			models.EmptySpan(), models.EmptySpan(), true
	}
	// Entirely in the future: no visible effect within the window.
	if taskStart.After(w.Finish) {
		return models.EmptySpan(), models.EmptySpan(), models.EmptySpan(), false
	}

	dur := w.Duration
	if dur <= 0 {
		dur = w.Finish.Sub(w.Start)
	}

	progressStart, progressFinish := 0.0, 1.0
	if dur > 0 {
		progressStart = float64(taskStart.Sub(w.Start)) / float64(dur)
		progressFinish = float64(taskFinish.Sub(w.Start)) / float64(dur)
	}

	sf := int(math.Round(float64(w.StartFrame) + progressStart*float64(w.TotalFrames)))
	ff := int(math.Round(float64(w.StartFrame) + progressFinish*float64(w.TotalFrames)))

	first := max(sf, w.StartFrame)
	last := min(ff, w.EndFrame())
	if last < first {
		// Inverted after clipping (zero-length or backwards interval):
		// collapse to a single active frame at the clipped start.
		last = first
	}
	active = models.FrameSpan{First: first, Last: last}

	before = models.FrameSpan{First: w.StartFrame, Last: active.First - 1}
	if before.Empty() {
		before = models.EmptySpan()
	}
	after = models.FrameSpan{First: active.Last + 1, Last: w.EndFrame()}
	if after.Empty() {
		after = models.EmptySpan()
	}
	return before, active, after, true
}

func record(task *models.Task, productID string, rel models.Relationship,
	taskStart, taskFinish time.Time,
	before, active, after models.FrameSpan) models.ProductFrameRecord {
	category := task.Category
	if category == "" {
		category = models.CategoryUndefined
	}
	return models.ProductFrameRecord{
		ProductID:    productID,
		TaskID:       task.ID,
		Category:     category,
		Relationship: rel,
		TaskStart:    taskStart,
		TaskFinish:   taskFinish,
		BeforeStart:  before,
		Active:       active,
		AfterEnd:     after,
	}
}
