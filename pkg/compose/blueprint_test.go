package compose

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

func TestSelectAndDeselectAreIdempotent(t *testing.T) {
	bp := blueprintAt(time.Second)
	selections, deselections := 0, 0
	bp.OnSelected(func(*Blueprint) { selections++ })
	bp.OnDeselected(func(*Blueprint) { deselections++ })

	bp.Select()
	bp.Select()
	if selections != 1 {
		t.Errorf("selected fired %d times, want 1", selections)
	}
	if !bp.Selected() {
		t.Error("Selected() = false after Select")
	}

	bp.Deselect()
	bp.Deselect()
	if deselections != 1 {
		t.Errorf("deselected fired %d times, want 1", deselections)
	}
	if bp.Selected() {
		t.Error("Selected() = true after Deselect")
	}
}

func TestDeselectBeforeAnySelectIsSilent(t *testing.T) {
	bp := blueprintAt(time.Second)
	fired := false
	bp.OnDeselected(func(*Blueprint) { fired = true })

	bp.Deselect()

	if fired {
		t.Error("deselected fired on an unselected blueprint")
	}
}

func TestBeginMoveCapturesCurrentDrawablePosition(t *testing.T) {
	d := &stubDrawable{obj: chart.NewTap(0, time.Second), pos: r2.Vec{X: 2, Y: 5}, visible: true}
	bp := NewBlueprint(d)

	bp.BeginMove()
	d.pos = r2.Vec{X: 9, Y: 9} // drawable moves on; the anchor must not

	if got := bp.MovementStartPosition(); got != (r2.Vec{X: 2, Y: 5}) {
		t.Errorf("MovementStartPosition() = %v, want {2 5}", got)
	}
}

func TestRequestSelectionCarriesModifiers(t *testing.T) {
	bp := blueprintAt(time.Second)
	var got SelectionRequest
	bp.OnSelectionRequested(func(req SelectionRequest) { got = req })

	bp.RequestSelection(Modifiers{Ctrl: true})

	if got.Blueprint != bp || !got.Modifiers.Ctrl {
		t.Errorf("request = %+v, want blueprint with ctrl set", got)
	}
}

func TestRequestDragCarriesPointerPair(t *testing.T) {
	bp := blueprintAt(time.Second)
	var got DragRequest
	bp.OnDragRequested(func(req DragRequest) { got = req })

	down := r2.Vec{X: 1, Y: 1}
	current := r2.Vec{X: 4, Y: 2}
	bp.RequestDrag(down, current)

	if got.Blueprint != bp || got.Down != down || got.Current != current {
		t.Errorf("request = %+v, want (%v, %v)", got, down, current)
	}
}
