package editor

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

// noteView is the screen proxy for one hit object. It owns no state of its
// own: position, visibility, and hit shape are derived from the object and
// the playfield on every query, so scrolling and zooming need no refresh
// pass.
type noteView struct {
	obj   *chart.HitObject
	field *playfield
}

func newNoteView(obj *chart.HitObject, field *playfield) *noteView {
	return &noteView{obj: obj, field: field}
}

// HitObject returns the object this view renders.
func (v *noteView) HitObject() *chart.HitObject { return v.obj }

// ScreenPosition returns the center of the object's head cell.
func (v *noteView) ScreenPosition() r2.Vec {
	return v.field.point(v.obj.Lane, v.obj.Start)
}

// Visible reports whether any part of the object is inside the window.
func (v *noteView) Visible() bool {
	if v.obj.Lane < 0 || v.obj.Lane >= v.field.lanes {
		return false
	}
	return v.field.visible(v.obj.Start, v.obj.End())
}

// HitTest reports whether a pointer hits the object: the head cell for a
// tap, any cell between head and tail for a hold.
func (v *noteView) HitTest(p r2.Vec) bool {
	lane, row, ok := v.field.cellAt(p)
	if !ok || lane != v.obj.Lane {
		return false
	}
	head := v.field.rowOf(v.obj.Start)
	if v.obj.Kind == chart.KindHold {
		return row >= head && row <= v.field.rowOf(v.obj.End())
	}
	return row == head
}
