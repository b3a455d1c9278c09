package compose

import "gonum.org/v1/gonum/spatial/r2"

// Composer supplies the container with everything the host editor owns: the
// live drawable collection, blueprint construction, the selection handler,
// and the placement area test.
type Composer interface {
	// CreateSelectionHandler returns the handler that owns selection and
	// movement policy. Called once during container construction.
	CreateSelectionHandler() SelectionHandler

	// Drawables returns the live drawable collection. The container scans
	// it to resolve added hit objects; the composer mutates it as objects
	// come and go.
	Drawables() []Drawable

	// CreateBlueprint returns a blueprint for the drawable, or nil to skip
	// it (the container will not track the drawable).
	CreateBlueprint(d Drawable) *Blueprint

	// CursorInPlacementArea reports whether the pointer is currently over
	// the area where placements may be shown. Queried every frame.
	CursorInPlacementArea() bool
}

// Movement is a move intent for the current selection, derived from a drag:
// From is the dragged blueprint's movement start position and To is that
// anchor displaced by the pointer's total travel since the press.
type Movement struct {
	Blueprint *Blueprint
	From      r2.Vec
	To        r2.Vec
}

// Delta returns the displacement the movement asks for.
func (m Movement) Delta() r2.Vec { return m.To.Sub(m.From) }

// SelectionHandler owns the domain policy behind selection events. The
// container tells it what happened; the handler decides what it means and
// mutates hit objects accordingly.
//
// Implementations track the selection set via HandleSelected and
// HandleDeselected, which the container guarantees to call exactly once per
// transition.
type SelectionHandler interface {
	// BindDeselectAll hands the handler a callback that deselects every
	// blueprint in the container. Called once during construction, before
	// any other method.
	BindDeselectAll(fn func())

	// HandleSelected is called after a blueprint enters the selection.
	HandleSelected(b *Blueprint)

	// HandleDeselected is called after a blueprint leaves the selection.
	HandleDeselected(b *Blueprint)

	// HandleSelectionRequested is called when the user clicks a blueprint.
	// The handler applies its click semantics (exclusive, additive, ...)
	// by calling Select and Deselect on blueprints.
	HandleSelectionRequested(b *Blueprint, mods Modifiers)

	// HandleMovement is called with a move intent during a drag. The
	// handler applies the move to the selection, or rejects it; the report
	// is whether the move was applied.
	HandleMovement(m Movement) bool

	// UpdateVisibility refreshes selection affordances after a gesture
	// ends; bounding controls depend on the final selection set.
	UpdateVisibility()
}
