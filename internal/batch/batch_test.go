package batch

import (
	"testing"

	"github.com/julianstephens/seq4d/internal/models"
	"github.com/julianstephens/seq4d/internal/scene"
)

var (
	red   = models.Color{R: 1, A: 1}
	green = models.Color{G: 1, A: 1}
)

func TestFlush_GroupsByFrame(t *testing.T) {
	host := scene.NewMemoryHost()
	a := host.AddObject("a", scene.KindMesh, "p1")
	b := host.AddObject("b", scene.KindMesh, "p2")

	applier := NewApplier()
	// Intents arrive interleaved across frames; flush must visit each frame
	// exactly once.
	applier.AddVisibility(a, 10, true)
	applier.AddVisibility(b, 20, true)
	applier.AddAppearance(a, 10, red)
	applier.AddAppearance(b, 20, green)
	applier.AddVisibility(a, 30, false)

	applied := applier.Flush(host)
	if applied != 5 {
		t.Errorf("Expected 5 applied operations, got %d", applied)
	}
	if host.FrameSwitches != 3 {
		t.Errorf("Expected 3 frame switches for 3 distinct frames, got %d", host.FrameSwitches)
	}
}

func TestFlush_AppliesFramesInAscendingOrder(t *testing.T) {
	host := scene.NewMemoryHost()
	a := host.AddObject("a", scene.KindMesh, "p1")

	applier := NewApplier()
	applier.AddVisibility(a, 30, false)
	applier.AddVisibility(a, 10, true)
	applier.AddVisibility(a, 20, true)
	applier.Flush(host)

	if len(a.Keyframes) != 3 {
		t.Fatalf("Expected 3 keyframes, got %d", len(a.Keyframes))
	}
	for i, frame := range []int{10, 20, 30} {
		if a.Keyframes[i].Frame != frame {
			t.Errorf("Keyframe %d: expected frame %d, got %d", i, frame, a.Keyframes[i].Frame)
		}
	}
	if a.Hidden {
		t.Error("Expected final visibility state from the last frame (visible)")
	}
}

func TestFlush_LastIntentWinsWithinFrame(t *testing.T) {
	host := scene.NewMemoryHost()
	a := host.AddObject("a", scene.KindMesh, "p1")

	applier := NewApplier()
	applier.AddAppearance(a, 10, red)
	applier.AddAppearance(a, 10, green)
	applier.Flush(host)

	if a.Color != green {
		t.Errorf("Expected the later appearance intent to win, got %+v", a.Color)
	}
}

func TestFlush_KeyframeIntents(t *testing.T) {
	host := scene.NewMemoryHost()
	a := host.AddObject("a", scene.KindMesh, "p1")

	applier := NewApplier()
	applier.AddKeyframe(a, 5, scene.AttrHide, true)
	applier.AddKeyframe(a, 5, scene.AttrColor, red)

	if applied := applier.Flush(host); applied != 2 {
		t.Errorf("Expected 2 applied operations, got %d", applied)
	}
	if !a.Hidden || a.Color != red {
		t.Errorf("Expected keyframe intents applied, got hidden=%v color=%+v", a.Hidden, a.Color)
	}
}

func TestFlush_SkipsMistypedKeyframeValues(t *testing.T) {
	host := scene.NewMemoryHost()
	a := host.AddObject("a", scene.KindMesh, "p1")

	applier := NewApplier()
	applier.AddKeyframe(a, 5, scene.AttrHide, "not-a-bool")
	applier.AddKeyframe(a, 5, scene.AttrColor, red)

	if applied := applier.Flush(host); applied != 1 {
		t.Errorf("Expected mistyped intent skipped and 1 applied, got %d", applied)
	}
	if a.Color != red {
		t.Error("Expected the well-typed intent to still apply")
	}
}

func TestFlush_ClearsBuffer(t *testing.T) {
	host := scene.NewMemoryHost()
	a := host.AddObject("a", scene.KindMesh, "p1")

	applier := NewApplier()
	applier.AddVisibility(a, 10, true)
	applier.Flush(host)

	if applier.Pending() != 0 {
		t.Errorf("Expected empty buffer after flush, got %d pending", applier.Pending())
	}
	if applied := applier.Flush(host); applied != 0 {
		t.Errorf("Expected second flush to apply nothing, got %d", applied)
	}
}

func TestClear_DiscardsWithoutApplying(t *testing.T) {
	host := scene.NewMemoryHost()
	a := host.AddObject("a", scene.KindMesh, "p1")

	applier := NewApplier()
	applier.AddVisibility(a, 10, true)
	applier.AddAppearance(a, 10, red)
	if applier.Pending() != 2 {
		t.Fatalf("Expected 2 pending intents, got %d", applier.Pending())
	}

	applier.Clear()
	if applier.Pending() != 0 {
		t.Errorf("Expected no pending intents after clear, got %d", applier.Pending())
	}
	if a.Hidden || len(a.Keyframes) != 0 {
		t.Error("Expected cleared intents to leave the object untouched")
	}
}
