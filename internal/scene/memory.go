package scene

import "github.com/julianstephens/seq4d/internal/models"

// KeyframeRecord is one recorded keyframe on a MemoryObject.
type KeyframeRecord struct {
	Frame  int
	Attr   Attr
	Hidden bool
	Color  models.Color
}

// MemoryObject is an in-memory Object implementation.
type MemoryObject struct {
	host      *MemoryHost
	name      string
	kind      ObjectKind
	productID string

	Hidden    bool
	Color     models.Color
	Keyframes []KeyframeRecord
}

func (o *MemoryObject) Name() string          { return o.name }
func (o *MemoryObject) Kind() ObjectKind      { return o.kind }
func (o *MemoryObject) ProductID() string     { return o.productID }
func (o *MemoryObject) SetHidden(hidden bool) { o.Hidden = hidden }
func (o *MemoryObject) SetColor(c models.Color) {
	o.Color = c
}

func (o *MemoryObject) Keyframe(attr Attr) error {
	o.Keyframes = append(o.Keyframes, KeyframeRecord{
		Frame:  o.host.CurrentFrame(),
		Attr:   attr,
		Hidden: o.Hidden,
		Color:  o.Color,
	})
	return nil
}

func (o *MemoryObject) ClearAnimation() {
	o.Keyframes = nil
	o.Hidden = false
	o.Color = models.Color{R: 0.8, G: 0.8, B: 0.8, A: 1.0}
}

// MemoryHost is an in-memory Host used by tests and by the CLI when no real
// viewport is attached. It counts frame switches so tests can assert that
// batching minimizes them.
type MemoryHost struct {
	objects []Object

	frame         int
	FrameSwitches int
	RangeStart    int
	RangeEnd      int
}

func NewMemoryHost() *MemoryHost { return &MemoryHost{} }

// AddObject creates and registers a new object, returning it for inspection.
func (h *MemoryHost) AddObject(name string, kind ObjectKind, productID string) *MemoryObject {
	obj := &MemoryObject{
		host:      h,
		name:      name,
		kind:      kind,
		productID: productID,
		Color:     models.Color{R: 0.8, G: 0.8, B: 0.8, A: 1.0},
	}
	h.objects = append(h.objects, obj)
	return obj
}

func (h *MemoryHost) Objects() []Object { return h.objects }

func (h *MemoryHost) SetFrame(frame int) {
	if frame != h.frame {
		h.FrameSwitches++
		h.frame = frame
	}
}

func (h *MemoryHost) CurrentFrame() int { return h.frame }

func (h *MemoryHost) SetFrameRange(start, end int) {
	h.RangeStart, h.RangeEnd = start, end
}
