package compose

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/chartsmith/pkg/signal"
)

// DragBox tracks a press-drag-release rubber-band gesture over empty
// playfield space.
//
// While the gesture is live, Rect exposes the current rectangle for drawing.
// On release the finalized rectangle is emitted exactly once to OnCompleted
// subscribers, followed by a separate OnEnded notification, so callers that
// only care about the end of the gesture need not process rectangles.
//
// A press released without movement is a click, not a drag: no rectangle is
// emitted, but OnEnded still fires.
//
// The zero value is ready to use.
type DragBox struct {
	active  bool
	moved   bool
	start   r2.Vec
	current r2.Vec

	completed signal.Signal[Rect]
	ended     signal.Signal[struct{}]
}

// Begin starts a gesture at the given pointer position.
func (d *DragBox) Begin(pos r2.Vec) {
	d.active = true
	d.moved = false
	d.start = pos
	d.current = pos
}

// Update extends the live gesture to the given pointer position.
// No-op when no gesture is active.
func (d *DragBox) Update(pos r2.Vec) {
	if !d.active {
		return
	}
	d.current = pos
	if pos != d.start {
		d.moved = true
	}
}

// End finishes the gesture at the given pointer position, emitting the
// finalized rectangle (if the pointer moved) and then the ended
// notification. No-op when no gesture is active.
func (d *DragBox) End(pos r2.Vec) {
	if !d.active {
		return
	}
	d.Update(pos)
	rect := RectFromCorners(d.start, d.current)
	moved := d.moved

	d.active = false
	d.moved = false

	if moved {
		d.completed.Emit(rect)
	}
	d.ended.Emit(struct{}{})
}

// Active reports whether a gesture is in progress.
func (d *DragBox) Active() bool { return d.active }

// Dragging reports whether a gesture is in progress and the pointer has
// moved since Begin, i.e. the release will emit a rectangle.
func (d *DragBox) Dragging() bool { return d.active && d.moved }

// Rect returns the current rubber-band rectangle. The second return is
// false when no gesture is active.
func (d *DragBox) Rect() (Rect, bool) {
	if !d.active {
		return Rect{}, false
	}
	return RectFromCorners(d.start, d.current), true
}

// OnCompleted subscribes fn to finalized rectangles.
func (d *DragBox) OnCompleted(fn func(Rect)) *signal.Subscription {
	return d.completed.Subscribe(fn)
}

// OnEnded subscribes fn to end-of-gesture notifications. It fires after any
// OnCompleted subscribers, whether or not a rectangle was emitted.
func (d *DragBox) OnEnded(fn func()) *signal.Subscription {
	return d.ended.Subscribe(func(struct{}) { fn() })
}
