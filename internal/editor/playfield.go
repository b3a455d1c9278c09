package editor

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	laneWidth = 6 // terminal cells per lane column

	minDivision = 1
	maxDivision = 16

	defaultDivision = 4
	defaultRows     = 24
)

// playfield maps between chart coordinates (lane, time) and terminal cells.
//
// The playfield shows a vertical slice of the chart: lanes are fixed-width
// columns, rows are time steps of one beat divided by the snap division,
// and time grows downward from the scroll offset. All screen positions the
// compose layer sees come from here, so a cell is the unit of both hit
// testing and movement.
type playfield struct {
	lanes    int
	beat     time.Duration
	division int // rows per beat

	originX int // terminal column of the first lane
	originY int // terminal row of the first time step
	rows    int // visible time steps

	scroll time.Duration // time at the first visible row
}

func newPlayfield(lanes int, beat time.Duration) *playfield {
	if beat <= 0 {
		beat = 500 * time.Millisecond
	}
	if lanes < 1 {
		lanes = 1
	}
	return &playfield{
		lanes:    lanes,
		beat:     beat,
		division: defaultDivision,
		rows:     defaultRows,
	}
}

// rowDuration returns the time step of one row at the current division.
func (f *playfield) rowDuration() time.Duration {
	return f.beat / time.Duration(f.division)
}

// setViewport positions the playfield body on screen.
func (f *playfield) setViewport(originX, originY, rows int) {
	f.originX = originX
	f.originY = originY
	if rows < 4 {
		rows = 4
	}
	f.rows = rows
}

// width returns the playfield body width in terminal cells.
func (f *playfield) width() int { return f.lanes * laneWidth }

// contains reports whether a pointer is over the playfield body.
func (f *playfield) contains(p r2.Vec) bool {
	_, _, ok := f.cellAt(p)
	return ok
}

// cellAt converts a pointer position to the (lane, row) cell under it.
func (f *playfield) cellAt(p r2.Vec) (lane, row int, ok bool) {
	col := int(math.Floor(p.X)) - f.originX
	row = int(math.Floor(p.Y)) - f.originY
	if col < 0 || col >= f.width() || row < 0 || row >= f.rows {
		return 0, 0, false
	}
	return col / laneWidth, row, true
}

// laneTime converts a pointer position to chart coordinates. The time is
// the start of the row's time step, so pointer-derived times land on the
// snap grid whenever the scroll offset does.
func (f *playfield) laneTime(p r2.Vec) (lane int, t time.Duration, ok bool) {
	lane, row, ok := f.cellAt(p)
	if !ok {
		return 0, 0, false
	}
	return lane, f.scroll + time.Duration(row)*f.rowDuration(), true
}

// point returns the screen-space anchor (center of the head cell) for an
// object at (lane, t). Positions off the visible window map outside the
// body; callers check visibility separately.
func (f *playfield) point(lane int, t time.Duration) r2.Vec {
	return r2.Vec{
		X: float64(f.originX+lane*laneWidth) + float64(laneWidth)/2,
		Y: float64(f.originY) + f.rowOffset(t) + 0.5,
	}
}

// rowOffset returns the fractional row distance of t from the scroll
// offset. Negative above the window.
func (f *playfield) rowOffset(t time.Duration) float64 {
	return float64(t-f.scroll) / float64(f.rowDuration())
}

// rowOf returns the row index of t, which may lie outside [0, rows).
func (f *playfield) rowOf(t time.Duration) int {
	return int(math.Floor(f.rowOffset(t)))
}

// timeAt returns the time at the start of the given visible row.
func (f *playfield) timeAt(row int) time.Duration {
	return f.scroll + time.Duration(row)*f.rowDuration()
}

// visible reports whether the time range [from, to] intersects the window.
func (f *playfield) visible(from, to time.Duration) bool {
	return to >= f.scroll && from < f.scroll+time.Duration(f.rows)*f.rowDuration()
}

// snap rounds t to the nearest grid step, never below zero.
func (f *playfield) snap(t time.Duration) time.Duration {
	step := f.rowDuration()
	snapped := (t + step/2) / step * step
	if snapped < 0 {
		return 0
	}
	return snapped
}

// scrollBy moves the window by a number of rows, clamped at time zero.
func (f *playfield) scrollBy(rows int) {
	f.scroll += time.Duration(rows) * f.rowDuration()
	if f.scroll < 0 {
		f.scroll = 0
	}
}

// setDivision changes the snap division and re-aligns the scroll offset to
// the new grid so pointer-derived times stay snapped.
func (f *playfield) setDivision(d int) {
	if d < minDivision {
		d = minDivision
	}
	if d > maxDivision {
		d = maxDivision
	}
	f.division = d
	f.scroll = f.scroll / f.rowDuration() * f.rowDuration()
}

// finerDivision and coarserDivision walk the 1-2-4-8-16 ladder.
func (f *playfield) finerDivision()   { f.setDivision(f.division * 2) }
func (f *playfield) coarserDivision() { f.setDivision(f.division / 2) }
