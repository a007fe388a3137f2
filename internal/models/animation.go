package models

import (
	"fmt"
	"time"
)

// AnimationWindow maps a calendar interval onto a discrete frame range.
type AnimationWindow struct {
	StartFrame  int           `json:"start_frame"`
	TotalFrames int           `json:"total_frames"`
	Start       time.Time     `json:"start"`
	Finish      time.Time     `json:"finish"`
	Duration    time.Duration `json:"duration"`
	Speed       float64       `json:"speed"`
}

// EndFrame is the last frame of the window, inclusive.
func (w AnimationWindow) EndFrame() int {
	return w.StartFrame + w.TotalFrames
}

// Validate checks the window invariants: a positive frame count and a
// non-inverted calendar interval.
func (w AnimationWindow) Validate() error {
	if w.TotalFrames <= 0 {
		return fmt.Errorf("total frames must be positive, got %d", w.TotalFrames)
	}
	if w.Finish.Before(w.Start) {
		return fmt.Errorf("window finish %s precedes start %s",
			w.Finish.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// FrameSpan is an inclusive range of frames. A span with Last < First is
// empty; EmptySpan returns the canonical empty value.
type FrameSpan struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

func EmptySpan() FrameSpan { return FrameSpan{First: 0, Last: -1} }

func (s FrameSpan) Empty() bool { return s.Last < s.First }

func (s FrameSpan) Contains(frame int) bool {
	return !s.Empty() && frame >= s.First && frame <= s.Last
}

// Len is the number of frames covered by the span.
func (s FrameSpan) Len() int {
	if s.Empty() {
		return 0
	}
	return s.Last - s.First + 1
}

// Phase names a product's appearance state relative to a task interval.
type Phase string

const (
	PhaseBeforeStart Phase = "before_start"
	PhaseActive      Phase = "active"
	PhaseAfterEnd    Phase = "after_end"
)

// Relationship is whether a product is produced or consumed by a task.
type Relationship string

const (
	RelationshipOutput Relationship = "output"
	RelationshipInput  Relationship = "input"
)

// ProductFrameRecord is one task's contribution to a product's animation: the
// raw task interval and its three-phase partition of the window. A product
// accumulates one record per contributing task; merging is left to consumers.
type ProductFrameRecord struct {
	ProductID    string       `json:"product_id"`
	TaskID       string       `json:"task_id"`
	Category     TaskCategory `json:"category"`
	Relationship Relationship `json:"relationship"`

	TaskStart  time.Time `json:"task_start"`
	TaskFinish time.Time `json:"task_finish"`

	BeforeStart FrameSpan `json:"before_start"`
	Active      FrameSpan `json:"active"`
	AfterEnd    FrameSpan `json:"after_end"`
}

// PhaseAt returns the phase containing the given frame. Playback may move
// backward, so this is a lookup, not a replay: any frame inside the window
// resolves to exactly one phase.
func (r ProductFrameRecord) PhaseAt(frame int) (Phase, bool) {
	switch {
	case r.BeforeStart.Contains(frame):
		return PhaseBeforeStart, true
	case r.Active.Contains(frame):
		return PhaseActive, true
	case r.AfterEnd.Contains(frame):
		return PhaseAfterEnd, true
	}
	return "", false
}

// FinishedBeforeWindow reports whether the task completed entirely before
// the visualization window, in which case the product wears its finished
// appearance for the whole animation.
func (r ProductFrameRecord) FinishedBeforeWindow(w AnimationWindow) bool {
	return r.Active.Empty() && r.AfterEnd.Empty() && !r.BeforeStart.Empty() &&
		r.TaskFinish.Before(w.Start)
}
