package editor

import (
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/compose"
)

// ghost is the placement preview the view renders: a head cell and, for a
// begun hold, the span down to the tail cell.
type ghost struct {
	lane    int
	headRow int
	tailRow int
}

// previewer is implemented by placements that render a ghost.
type previewer interface {
	ghost() (ghost, bool)
}

// =============================================================================
// Select Tool
// =============================================================================

// selectTool is the pure selection mode; it places nothing.
type selectTool struct{}

func (selectTool) Name() string                       { return "select" }
func (selectTool) CreatePlacement() compose.Placement { return nil }

// =============================================================================
// Tap Tool
// =============================================================================

// tapTool places tap notes with a single click.
type tapTool struct {
	chart  *chart.Chart
	field  *playfield
	logger *log.Logger
}

func (t *tapTool) Name() string { return "tap" }

func (t *tapTool) CreatePlacement() compose.Placement {
	return &tapPlacement{chart: t.chart, field: t.field, logger: t.logger}
}

// tapPlacement is a single-step placement: every press inside the playfield
// commits a tap at the pointer's cell. Committing triggers a placement
// refresh, so Close arrives while MouseDown is still on the stack; the
// placement only flags itself closed.
type tapPlacement struct {
	chart  *chart.Chart
	field  *playfield
	logger *log.Logger

	pointer      r2.Vec
	pointerKnown bool
	state        compose.PlacementState
	closed       bool
}

func (p *tapPlacement) UpdatePointer(pos r2.Vec) {
	p.pointer = pos
	p.pointerKnown = true
}

func (p *tapPlacement) MouseDown(pos r2.Vec, mods compose.Modifiers) bool {
	p.UpdatePointer(pos)
	lane, t, ok := p.field.laneTime(pos)
	if !ok {
		return false
	}
	obj := chart.NewTap(lane, p.field.snap(t))
	if err := p.chart.Add(obj); err != nil {
		p.logger.Error("tap placement rejected", "err", err)
		return true
	}
	p.logger.Debug("tap placed", "lane", lane, "time", obj.Start)
	return true
}

func (p *tapPlacement) SetState(s compose.PlacementState) { p.state = s }
func (p *tapPlacement) Begun() bool                       { return false }
func (p *tapPlacement) Close()                            { p.closed = true }

func (p *tapPlacement) ghost() (ghost, bool) {
	if p.closed || p.state != compose.PlacementShown || !p.pointerKnown {
		return ghost{}, false
	}
	lane, row, ok := p.field.cellAt(p.pointer)
	if !ok {
		return ghost{}, false
	}
	return ghost{lane: lane, headRow: row, tailRow: row}, true
}

// =============================================================================
// Hold Tool
// =============================================================================

// holdTool places hold notes in two clicks: anchor the head, then commit at
// the tail.
type holdTool struct {
	chart  *chart.Chart
	field  *playfield
	logger *log.Logger
}

func (t *holdTool) Name() string { return "hold" }

func (t *holdTool) CreatePlacement() compose.Placement {
	return &holdPlacement{chart: t.chart, field: t.field, logger: t.logger}
}

// holdPlacement is a two-step placement. After the first press it reports
// Begun, which keeps the preview visible even when the pointer leaves the
// playfield mid-gesture. A second press on the anchor row cancels instead
// of committing a zero-length hold.
type holdPlacement struct {
	chart  *chart.Chart
	field  *playfield
	logger *log.Logger

	pointer      r2.Vec
	pointerKnown bool
	state        compose.PlacementState
	closed       bool

	begun      bool
	anchorLane int
	anchorTime time.Duration
}

func (p *holdPlacement) UpdatePointer(pos r2.Vec) {
	p.pointer = pos
	p.pointerKnown = true
}

func (p *holdPlacement) MouseDown(pos r2.Vec, mods compose.Modifiers) bool {
	p.UpdatePointer(pos)
	lane, t, ok := p.field.laneTime(pos)
	if !ok {
		return false
	}
	t = p.field.snap(t)

	if !p.begun {
		p.begun = true
		p.anchorLane = lane
		p.anchorTime = t
		p.logger.Debug("hold anchored", "lane", lane, "time", t)
		return true
	}

	start, end := p.anchorTime, t
	if end < start {
		start, end = end, start
	}
	if end == start {
		p.begun = false
		p.logger.Debug("hold cancelled, zero length")
		return true
	}
	obj := chart.NewHold(p.anchorLane, start, end-start)
	if err := p.chart.Add(obj); err != nil {
		p.logger.Error("hold placement rejected", "err", err)
		p.begun = false
		return true
	}
	p.logger.Debug("hold placed", "lane", p.anchorLane, "start", start, "length", end-start)
	return true
}

func (p *holdPlacement) SetState(s compose.PlacementState) { p.state = s }
func (p *holdPlacement) Begun() bool                       { return p.begun }
func (p *holdPlacement) Close()                            { p.closed = true }

func (p *holdPlacement) ghost() (ghost, bool) {
	if p.closed || p.state != compose.PlacementShown || !p.pointerKnown {
		return ghost{}, false
	}
	lane, row, ok := p.field.cellAt(p.pointer)
	if !p.begun {
		if !ok {
			return ghost{}, false
		}
		return ghost{lane: lane, headRow: row, tailRow: row}, true
	}

	head := p.field.rowOf(p.anchorTime)
	tail := head
	if ok {
		tail = row
	}
	if tail < head {
		head, tail = tail, head
	}
	return ghost{lane: p.anchorLane, headRow: head, tailRow: tail}, true
}

var (
	_ compose.Tool      = selectTool{}
	_ compose.Tool      = (*tapTool)(nil)
	_ compose.Tool      = (*holdTool)(nil)
	_ compose.Placement = (*tapPlacement)(nil)
	_ compose.Placement = (*holdPlacement)(nil)
	_ previewer         = (*tapPlacement)(nil)
	_ previewer         = (*holdPlacement)(nil)
)
