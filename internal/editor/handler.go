package editor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/compose"
)

// chartSelectionHandler owns selection and movement policy for the editor.
//
// Click semantics: a plain click selects the clicked note exclusively
// unless it is already selected, which keeps the group intact so it can be
// dragged. Ctrl-click (or alt-click, for terminals that reserve ctrl)
// toggles the note in and out of the selection.
//
// Movement converts the dragged note's target position back to (lane,
// time), snaps the time to the grid, and applies the resulting delta to
// every note in the selection. Moves that would push any selected note out
// of bounds are rejected whole.
type chartSelectionHandler struct {
	chart  *chart.Chart
	field  *playfield
	logger *log.Logger

	deselectAll func()
	onChange    func()

	selected map[*compose.Blueprint]struct{}
	summary  string
}

func newChartSelectionHandler(c *chart.Chart, field *playfield, logger *log.Logger) *chartSelectionHandler {
	return &chartSelectionHandler{
		chart:    c,
		field:    field,
		logger:   logger,
		selected: make(map[*compose.Blueprint]struct{}),
	}
}

// setOnChange registers a callback fired after the handler mutates the
// chart (moves, deletions).
func (h *chartSelectionHandler) setOnChange(fn func()) { h.onChange = fn }

func (h *chartSelectionHandler) markChanged() {
	if h.onChange != nil {
		h.onChange()
	}
}

// BindDeselectAll stores the container's deselect-everything callback.
func (h *chartSelectionHandler) BindDeselectAll(fn func()) { h.deselectAll = fn }

// ClearSelection deselects every note, then refreshes the summary.
func (h *chartSelectionHandler) ClearSelection() {
	if h.deselectAll != nil {
		h.deselectAll()
	}
	h.UpdateVisibility()
}

// HandleSelected tracks the blueprint in the selection set.
func (h *chartSelectionHandler) HandleSelected(b *compose.Blueprint) {
	h.selected[b] = struct{}{}
}

// HandleDeselected drops the blueprint from the selection set.
func (h *chartSelectionHandler) HandleDeselected(b *compose.Blueprint) {
	delete(h.selected, b)
}

// HandleSelectionRequested applies click semantics.
func (h *chartSelectionHandler) HandleSelectionRequested(b *compose.Blueprint, mods compose.Modifiers) {
	if mods.Ctrl || mods.Alt {
		if b.Selected() {
			b.Deselect()
		} else {
			b.Select()
		}
		return
	}
	if b.Selected() {
		return
	}
	for other := range h.cloneSelection() {
		if other != b {
			other.Deselect()
		}
	}
	b.Select()
}

// HandleMovement applies a move intent to the selection.
func (h *chartSelectionHandler) HandleMovement(m compose.Movement) bool {
	lane, t, ok := h.field.laneTime(m.To)
	if !ok {
		return false
	}

	dragged := m.Blueprint.HitObject()
	laneDelta := lane - dragged.Lane
	timeDelta := h.field.snap(t) - dragged.Start
	if laneDelta == 0 && timeDelta == 0 {
		return false
	}

	targets := h.moveTargets(m.Blueprint)
	for _, obj := range targets {
		newLane := obj.Lane + laneDelta
		newStart := obj.Start + timeDelta
		if newLane < 0 || newLane >= h.field.lanes || newStart < 0 {
			return false
		}
	}

	for _, obj := range targets {
		obj.Lane += laneDelta
		obj.Start += timeDelta
	}
	h.markChanged()
	return true
}

// moveTargets returns the hit objects a drag moves: the selection, plus the
// dragged note itself when it was toggled out of the selection mid-press.
func (h *chartSelectionHandler) moveTargets(dragged *compose.Blueprint) []*chart.HitObject {
	objs := make([]*chart.HitObject, 0, len(h.selected)+1)
	seen := false
	for b := range h.selected {
		if b == dragged {
			seen = true
		}
		objs = append(objs, b.HitObject())
	}
	if !seen {
		objs = append(objs, dragged.HitObject())
	}
	return objs
}

// UpdateVisibility recomputes the selection summary after a gesture ends.
func (h *chartSelectionHandler) UpdateVisibility() {
	h.summary = h.describeSelection()
}

// SelectionCount returns the number of selected notes.
func (h *chartSelectionHandler) SelectionCount() int { return len(h.selected) }

// SelectionSummary returns the cached post-gesture selection description.
func (h *chartSelectionHandler) SelectionSummary() string { return h.summary }

func (h *chartSelectionHandler) describeSelection() string {
	if len(h.selected) == 0 {
		return ""
	}
	var from, to time.Duration
	first := true
	for b := range h.selected {
		obj := b.HitObject()
		if first || obj.Start < from {
			from = obj.Start
		}
		if first || obj.End() > to {
			to = obj.End()
		}
		first = false
	}
	if len(h.selected) == 1 {
		return fmt.Sprintf("1 note @ %s", formatTime(from))
	}
	return fmt.Sprintf("%d notes %s-%s", len(h.selected), formatTime(from), formatTime(to))
}

// DeleteSelection removes every selected note from the chart. Removal
// notifications deselect and untrack each blueprint along the way.
func (h *chartSelectionHandler) DeleteSelection() int {
	ids := make([]*chart.HitObject, 0, len(h.selected))
	for b := range h.selected {
		ids = append(ids, b.HitObject())
	}
	removed := 0
	for _, obj := range ids {
		if h.chart.Remove(obj.ID) {
			removed++
		}
	}
	if removed > 0 {
		h.logger.Debug("deleted selection", "notes", removed)
		h.markChanged()
	}
	h.UpdateVisibility()
	return removed
}

func (h *chartSelectionHandler) cloneSelection() map[*compose.Blueprint]struct{} {
	out := make(map[*compose.Blueprint]struct{}, len(h.selected))
	for b := range h.selected {
		out[b] = struct{}{}
	}
	return out
}

func formatTime(t time.Duration) string {
	minutes := int(t / time.Minute)
	seconds := int(t/time.Second) % 60
	millis := int(t/time.Millisecond) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

var _ compose.SelectionHandler = (*chartSelectionHandler)(nil)
