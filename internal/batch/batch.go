// Package batch coalesces per-object mutations into grouped operations.
// Timeline-position switches dominate the cost of applying an animation, so
// intents are buffered with no side effects and flushed grouped by frame,
// then by mutation kind within each frame.
package batch

import (
	"sort"

	"github.com/julianstephens/seq4d/internal/logger"
	"github.com/julianstephens/seq4d/internal/models"
	"github.com/julianstephens/seq4d/internal/scene"
)

type visibilityIntent struct {
	obj    scene.Object
	frame  int
	hidden bool
}

type appearanceIntent struct {
	obj   scene.Object
	frame int
	color models.Color
}

type keyframeIntent struct {
	obj   scene.Object
	frame int
	attr  scene.Attr
	value any
}

// Applier accumulates visibility, appearance, and keyframe intents. Nothing
// touches the host until Flush. Within one (frame, kind) group intents apply
// in insertion order, so the last intent added for an object wins.
type Applier struct {
	visibility []visibilityIntent
	appearance []appearanceIntent
	keyframes  []keyframeIntent
}

func NewApplier() *Applier { return &Applier{} }

func (a *Applier) AddVisibility(obj scene.Object, frame int, hidden bool) {
	a.visibility = append(a.visibility, visibilityIntent{obj: obj, frame: frame, hidden: hidden})
}

func (a *Applier) AddAppearance(obj scene.Object, frame int, color models.Color) {
	a.appearance = append(a.appearance, appearanceIntent{obj: obj, frame: frame, color: color})
}

func (a *Applier) AddKeyframe(obj scene.Object, frame int, attr scene.Attr, value any) {
	a.keyframes = append(a.keyframes, keyframeIntent{obj: obj, frame: frame, attr: attr, value: value})
}

// Pending returns the number of buffered intents.
func (a *Applier) Pending() int {
	return len(a.visibility) + len(a.appearance) + len(a.keyframes)
}

// Clear discards all unflushed intents.
func (a *Applier) Clear() {
	a.visibility = nil
	a.appearance = nil
	a.keyframes = nil
}

// Flush applies all buffered intents to the host, one frame at a time in
// ascending order. Within a frame the order is visibility, then appearance,
// then keyframe, so an object's final state at flush reflects the most
// recent intent of each kind. Returns the number of operations applied.
// The buffer is cleared afterwards regardless of per-operation failures.
func (a *Applier) Flush(host scene.Host) int {
	frames := a.frameSet()
	sort.Ints(frames)

	applied := 0
	for _, frame := range frames {
		host.SetFrame(frame)

		for _, in := range a.visibility {
			if in.frame != frame {
				continue
			}
			in.obj.SetHidden(in.hidden)
			if err := in.obj.Keyframe(scene.AttrHide); err != nil {
				logger.Warn("visibility keyframe failed", "object", in.obj.Name(), "frame", frame, "err", err)
				continue
			}
			applied++
		}

		for _, in := range a.appearance {
			if in.frame != frame {
				continue
			}
			in.obj.SetColor(in.color)
			if err := in.obj.Keyframe(scene.AttrColor); err != nil {
				logger.Warn("appearance keyframe failed", "object", in.obj.Name(), "frame", frame, "err", err)
				continue
			}
			applied++
		}

		for _, in := range a.keyframes {
			if in.frame != frame {
				continue
			}
			if !a.applyKeyframe(in) {
				continue
			}
			applied++
		}
	}

	a.Clear()
	return applied
}

func (a *Applier) applyKeyframe(in keyframeIntent) bool {
	switch in.attr {
	case scene.AttrHide:
		hidden, ok := in.value.(bool)
		if !ok {
			logger.Warn("keyframe intent skipped: hide value not bool", "object", in.obj.Name())
			return false
		}
		in.obj.SetHidden(hidden)
	case scene.AttrColor:
		color, ok := in.value.(models.Color)
		if !ok {
			logger.Warn("keyframe intent skipped: color value not a color", "object", in.obj.Name())
			return false
		}
		in.obj.SetColor(color)
	default:
		logger.Warn("keyframe intent skipped: unknown attribute", "attr", string(in.attr))
		return false
	}
	if err := in.obj.Keyframe(in.attr); err != nil {
		logger.Warn("keyframe failed", "object", in.obj.Name(), "frame", in.frame, "err", err)
		return false
	}
	return true
}

func (a *Applier) frameSet() []int {
	seen := make(map[int]struct{})
	for _, in := range a.visibility {
		seen[in.frame] = struct{}{}
	}
	for _, in := range a.appearance {
		seen[in.frame] = struct{}{}
	}
	for _, in := range a.keyframes {
		seen[in.frame] = struct{}{}
	}
	frames := make([]int, 0, len(seen))
	for f := range seen {
		frames = append(frames, f)
	}
	return frames
}
