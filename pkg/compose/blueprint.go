package compose

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/signal"
)

// Drawable is the composer-owned screen proxy for one hit object. Blueprints
// never position themselves; they read position, visibility, and hit shape
// from their drawable every time they are asked.
//
// Drawables are matched to chart notifications by hit object identity
// (pointer equality).
type Drawable interface {
	// HitObject returns the object this drawable renders.
	HitObject() *chart.HitObject

	// ScreenPosition returns the drawable's anchor point in screen space.
	// For holds this is the head, not the tail.
	ScreenPosition() r2.Vec

	// Visible reports whether the drawable currently renders inside the
	// viewport.
	Visible() bool

	// HitTest reports whether a pointer at p hits the drawable.
	HitTest(p r2.Vec) bool
}

// SelectionRequest is emitted when the user clicks a blueprint. The handler
// decides what the click means given the modifier state.
type SelectionRequest struct {
	Blueprint *Blueprint
	Modifiers Modifiers
}

// DragRequest is emitted while the user drags a blueprint. Both pointer
// positions are raw screen space; the container turns the pair into a
// [Movement] anchored at the blueprint's movement start position.
type DragRequest struct {
	Blueprint *Blueprint
	Down      r2.Vec // pointer position when the press started
	Current   r2.Vec // pointer position now
}

// Blueprint is the interactive selection overlay for one drawable.
//
// A blueprint carries the explicit selected flag, the movement start
// position captured when a drag begins, and four event streams the container
// wires into the selection handler. Blueprints are created via the
// [Composer] and owned by the container's collection; external code
// interacts with them through selection calls and subscriptions.
type Blueprint struct {
	drawable Drawable
	selected bool
	seq      uint64 // collection insertion sequence, assigned on insert
	moveFrom r2.Vec // drawable position captured when the current drag began

	selectedSig  signal.Signal[*Blueprint]
	deselected   signal.Signal[*Blueprint]
	selectionReq signal.Signal[SelectionRequest]
	dragReq      signal.Signal[DragRequest]
}

// NewBlueprint creates an unselected blueprint over the given drawable.
func NewBlueprint(d Drawable) *Blueprint {
	return &Blueprint{drawable: d}
}

// Drawable returns the proxied drawable.
func (b *Blueprint) Drawable() Drawable { return b.drawable }

// HitObject returns the hit object behind the proxied drawable.
func (b *Blueprint) HitObject() *chart.HitObject { return b.drawable.HitObject() }

// Selected reports whether the blueprint is part of the current selection.
func (b *Blueprint) Selected() bool { return b.selected }

// Visible reports whether the proxied drawable currently renders.
func (b *Blueprint) Visible() bool { return b.drawable.Visible() }

// HitTest reports whether a pointer at p hits the proxied drawable.
func (b *Blueprint) HitTest(p r2.Vec) bool { return b.drawable.HitTest(p) }

// SelectionPoint returns the screen point tested against rectangle
// selection.
func (b *Blueprint) SelectionPoint() r2.Vec { return b.drawable.ScreenPosition() }

// Select marks the blueprint selected and notifies subscribers.
// No-op if already selected.
func (b *Blueprint) Select() {
	if b.selected {
		return
	}
	b.selected = true
	b.selectedSig.Emit(b)
}

// Deselect clears the selected flag and notifies subscribers.
// No-op if not selected.
func (b *Blueprint) Deselect() {
	if !b.selected {
		return
	}
	b.selected = false
	b.deselected.Emit(b)
}

// BeginMove captures the drawable's current position as the anchor for the
// drag that is about to happen. Subsequent [Movement] events are computed
// against this anchor, not the drawable's live position, so repeated drag
// updates to the same pointer position cannot compound.
func (b *Blueprint) BeginMove() {
	b.moveFrom = b.drawable.ScreenPosition()
}

// MovementStartPosition returns the anchor captured by the last BeginMove.
func (b *Blueprint) MovementStartPosition() r2.Vec { return b.moveFrom }

// RequestSelection emits a selection request with the given modifier state.
func (b *Blueprint) RequestSelection(mods Modifiers) {
	b.selectionReq.Emit(SelectionRequest{Blueprint: b, Modifiers: mods})
}

// RequestDrag emits a drag request for the pointer pair (down, current).
func (b *Blueprint) RequestDrag(down, current r2.Vec) {
	b.dragReq.Emit(DragRequest{Blueprint: b, Down: down, Current: current})
}

// OnSelected subscribes fn to selection events.
func (b *Blueprint) OnSelected(fn func(*Blueprint)) *signal.Subscription {
	return b.selectedSig.Subscribe(fn)
}

// OnDeselected subscribes fn to deselection events.
func (b *Blueprint) OnDeselected(fn func(*Blueprint)) *signal.Subscription {
	return b.deselected.Subscribe(fn)
}

// OnSelectionRequested subscribes fn to selection requests.
func (b *Blueprint) OnSelectionRequested(fn func(SelectionRequest)) *signal.Subscription {
	return b.selectionReq.Subscribe(fn)
}

// OnDragRequested subscribes fn to drag requests.
func (b *Blueprint) OnDragRequested(fn func(DragRequest)) *signal.Subscription {
	return b.dragReq.Subscribe(fn)
}
