package compose

import "gonum.org/v1/gonum/spatial/r2"

// PlacementState is the visibility state the container assigns to the live
// placement every frame.
type PlacementState int

const (
	// PlacementHidden hides the placement preview, used while the cursor
	// is outside the placement area and nothing has been committed yet.
	PlacementHidden PlacementState = iota
	// PlacementShown shows the placement preview.
	PlacementShown
)

// String returns "hidden" or "shown".
func (s PlacementState) String() string {
	if s == PlacementShown {
		return "shown"
	}
	return "hidden"
}

// Placement is one in-progress object placement produced by a [Tool].
//
// At most one placement is alive at a time; the container closes the old one
// before creating the next. Implementations are plain state machines: a
// placement that has begun (first anchor set for a multi-step object) stays
// visible even when the cursor leaves the placement area, so the user can
// drag out of bounds without losing the preview.
type Placement interface {
	// UpdatePointer moves the placement preview to follow the pointer.
	UpdatePointer(pos r2.Vec)

	// MouseDown offers a press to the placement. Returning true consumes
	// the event (an anchor was set or an object was committed); returning
	// false lets the container fall through to blueprint hit-testing.
	MouseDown(pos r2.Vec, mods Modifiers) bool

	// SetState shows or hides the preview. Called every frame.
	SetState(s PlacementState)

	// Begun reports whether the placement has an uncommitted anchor.
	Begun() bool

	// Close releases the placement. Called exactly once by the container;
	// the placement must tolerate being closed while one of its own calls
	// is still on the stack (committing an object triggers a refresh).
	Close()
}

// Tool is a user-selectable editing mode. Tools that create objects return
// a fresh [Placement] from CreatePlacement; pure selection tools return nil.
type Tool interface {
	// Name returns the tool's display name.
	Name() string

	// CreatePlacement returns a new placement, or nil if the tool does not
	// place objects.
	CreatePlacement() Placement
}
