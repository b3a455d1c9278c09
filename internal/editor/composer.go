package editor

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/compose"
	"github.com/matzehuels/chartsmith/pkg/signal"
)

// playfieldComposer adapts the playfield to the compose layer: it keeps one
// noteView per hit object, realizes views for new objects, and answers the
// placement-area test from the last pointer position.
//
// The composer must subscribe to the chart before the container does, so
// that an added object already has its view when the container resolves it.
// newPlayfieldComposer subscribes immediately; construct it first.
type playfieldComposer struct {
	field   *playfield
	handler *chartSelectionHandler

	views []compose.Drawable

	pointerInField bool

	addedSub   *signal.Subscription
	removedSub *signal.Subscription
}

func newPlayfieldComposer(c *chart.Chart, field *playfield, handler *chartSelectionHandler) *playfieldComposer {
	pc := &playfieldComposer{field: field, handler: handler}
	for _, obj := range c.Objects() {
		pc.views = append(pc.views, newNoteView(obj, field))
	}
	pc.addedSub = c.OnObjectAdded(func(obj *chart.HitObject) {
		pc.views = append(pc.views, newNoteView(obj, field))
	})
	pc.removedSub = c.OnObjectRemoved(func(obj *chart.HitObject) {
		for i, v := range pc.views {
			if v.HitObject() == obj {
				pc.views = append(pc.views[:i], pc.views[i+1:]...)
				return
			}
		}
	})
	return pc
}

// close releases the chart subscriptions.
func (pc *playfieldComposer) close() {
	pc.addedSub.Unsubscribe()
	pc.removedSub.Unsubscribe()
}

// setPointer records the pointer position ahead of routing the event into
// the container, so the placement-area test answers for the event being
// processed rather than the previous one.
func (pc *playfieldComposer) setPointer(p r2.Vec) {
	pc.pointerInField = pc.field.contains(p)
}

// CreateSelectionHandler returns the handler owning selection policy.
func (pc *playfieldComposer) CreateSelectionHandler() compose.SelectionHandler {
	return pc.handler
}

// Drawables returns the live view collection.
func (pc *playfieldComposer) Drawables() []compose.Drawable {
	return pc.views
}

// CreateBlueprint wraps a view in a blueprint. Objects on lanes the
// playfield does not show get no blueprint; they stay in the chart but
// cannot be selected.
func (pc *playfieldComposer) CreateBlueprint(d compose.Drawable) *compose.Blueprint {
	obj := d.HitObject()
	if obj.Lane < 0 || obj.Lane >= pc.field.lanes {
		return nil
	}
	return compose.NewBlueprint(d)
}

// CursorInPlacementArea reports whether the pointer is over the playfield.
func (pc *playfieldComposer) CursorInPlacementArea() bool {
	return pc.pointerInField
}

var _ compose.Composer = (*playfieldComposer)(nil)
