// Package scene abstracts the host rendering system. The engine only ever
// touches objects through the Host and Object interfaces; the real viewport
// binding lives outside this module, and MemoryHost stands in for it in
// tests and CLI dry runs.
package scene

import "github.com/julianstephens/seq4d/internal/models"

// ObjectKind classifies a scene entry. Only mesh-like kinds are renderable
// product representations; containers group other objects and carry no
// geometry of their own.
type ObjectKind string

const (
	KindMesh      ObjectKind = "mesh"
	KindContainer ObjectKind = "container"
	KindEmpty     ObjectKind = "empty"
	KindSpace     ObjectKind = "space"
)

// Renderable reports whether objects of this kind represent physical
// products in the viewport.
func (k ObjectKind) Renderable() bool { return k == KindMesh }

// Attr names a keyframeable object attribute.
type Attr string

const (
	AttrHide  Attr = "hide"
	AttrColor Attr = "color"
)

// Object is one renderable instance owned by the host scene.
type Object interface {
	Name() string
	Kind() ObjectKind
	// ProductID is the logical product this object represents, empty when
	// the object is not associated with any product.
	ProductID() string

	SetHidden(hidden bool)
	SetColor(c models.Color)
	// Keyframe records the object's current value of attr at the host's
	// current frame.
	Keyframe(attr Attr) error

	// ClearAnimation drops all keyframes and resets visibility and color
	// to the host's neutral defaults.
	ClearAnimation()
}

// Host is the scene-owning side of the rendering system.
type Host interface {
	Objects() []Object
	// SetFrame moves the host timeline. Frame switches are expensive; the
	// batch applier minimizes them by grouping mutations per frame.
	SetFrame(frame int)
	CurrentFrame() int
	// SetFrameRange sets the timeline's playback bounds.
	SetFrameRange(start, end int)
}
