package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

// Grid styles
var (
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleHeaderBg = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleToolOn   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleToolOff  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleDirty    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	styleGutter   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleBeatRow  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	styleBarRow   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleTap      = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	styleHold     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	styleHoldBody = lipgloss.NewStyle().Foreground(lipgloss.Color("25"))
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	styleGhost    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleRubber   = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))

	styleStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
)

// Cell glyphs, laneWidth-1 wide plus the lane divider.
const (
	glyphNote   = " ███ "
	glyphBody   = " ░░░ "
	glyphGhost  = " ▒▒▒ "
	glyphRubber = "  ·  "
	glyphBeat   = "┄┄┄┄┄"
	glyphEmpty  = "     "
	divider     = "│"
)

// cellKind classifies what a playfield cell shows, in paint priority order.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellRubber
	cellGhost
	cellHoldBody
	cellHold
	cellTap
	cellSelectedBody
	cellSelected
)

type cellKey struct{ lane, row int }

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString(m.viewBody())
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader() string {
	s := m.s
	title := s.chart.Title
	if title == "" {
		title = "Untitled"
	}
	parts := []string{fmt.Sprintf("%.6g BPM", s.chart.BPM), fmt.Sprintf("%d lanes", s.chart.Lanes)}
	if s.chart.Artist != "" {
		parts = append([]string{s.chart.Artist}, parts...)
	}
	line1 := styleHeader.Render(" "+title) + styleHeaderBg.Render("  "+strings.Join(parts, " · "))

	var tools []string
	active := s.container.CurrentTool()
	for i, t := range s.tools {
		label := fmt.Sprintf("[%d %s]", i+1, t.Name())
		if t == active {
			tools = append(tools, styleToolOn.Render(label))
		} else {
			tools = append(tools, styleToolOff.Render(label))
		}
	}
	line2 := " " + strings.Join(tools, " ") +
		styleHeaderBg.Render(fmt.Sprintf("  snap 1/%d", s.field.division))
	if s.dirty {
		line2 += styleDirty.Render("  ●")
	}
	return line1 + "\n" + line2 + "\n"
}

func (m Model) viewBody() string {
	s := m.s
	cells := m.collectCells()

	var b strings.Builder
	for row := 0; row < s.field.rows; row++ {
		b.WriteString(m.gutterFor(row))
		for lane := 0; lane < s.field.lanes; lane++ {
			b.WriteString(m.renderCell(cells[cellKey{lane, row}], row))
			b.WriteString(styleGutter.Render(divider))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// collectCells classifies every occupied playfield cell. Notes are walked
// in paint order, so the selected tier lands last and overdraws overlapping
// unselected notes; the ghost and rubber band never overdraw notes.
func (m Model) collectCells() map[cellKey]cellKind {
	s := m.s
	cells := make(map[cellKey]cellKind)

	set := func(lane, row int, kind cellKind) {
		if row < 0 || row >= s.field.rows || lane < 0 || lane >= s.field.lanes {
			return
		}
		key := cellKey{lane, row}
		if kind > cells[key] {
			cells[key] = kind
		}
	}

	if rect, ok := s.container.DragRect(); ok {
		fromLane, fromRow, okA := s.field.cellAt(rect.Min)
		toLane, toRow, okB := s.field.cellAt(rect.Max)
		if okA && okB {
			for lane := fromLane; lane <= toLane; lane++ {
				for row := fromRow; row <= toRow; row++ {
					set(lane, row, cellRubber)
				}
			}
		}
	}

	if p, ok := s.container.CurrentPlacement().(previewer); ok {
		if g, show := p.ghost(); show {
			for row := g.headRow; row <= g.tailRow; row++ {
				set(g.lane, row, cellGhost)
			}
		}
	}

	// Notes last, in paint order: later notes overwrite earlier ones, so
	// the selected tier always ends up on top of overlapping notes, and
	// every note overdraws the gesture affordances.
	for _, bp := range s.container.PaintOrder() {
		if !bp.Visible() {
			continue
		}
		obj := bp.HitObject()
		head := s.field.rowOf(obj.Start)
		tail := head
		if obj.Kind == chart.KindHold {
			tail = s.field.rowOf(obj.End())
		}
		headKind, bodyKind := cellTap, cellHoldBody
		if obj.Kind == chart.KindHold {
			headKind = cellHold
		}
		if bp.Selected() {
			headKind, bodyKind = cellSelected, cellSelectedBody
		}
		for row := head; row <= tail; row++ {
			if row < 0 || row >= s.field.rows {
				continue
			}
			kind := bodyKind
			if row == head {
				kind = headKind
			}
			cells[cellKey{obj.Lane, row}] = kind
		}
	}
	return cells
}

func (m Model) renderCell(kind cellKind, row int) string {
	switch kind {
	case cellTap:
		return styleTap.Render(glyphNote)
	case cellHold:
		return styleHold.Render(glyphNote)
	case cellHoldBody:
		return styleHoldBody.Render(glyphBody)
	case cellSelected:
		return styleSelected.Render(glyphNote)
	case cellSelectedBody:
		return styleSelected.Render(glyphBody)
	case cellGhost:
		return styleGhost.Render(glyphGhost)
	case cellRubber:
		return styleRubber.Render(glyphRubber)
	}
	if onBeat, onBar := m.rowGrid(row); onBar {
		return styleBarRow.Render(glyphBeat)
	} else if onBeat {
		return styleBeatRow.Render(glyphBeat)
	}
	return glyphEmpty
}

// rowGrid reports whether a row starts a beat or a bar (four beats).
func (m Model) rowGrid(row int) (beat, bar bool) {
	f := m.s.field
	steps := int(f.timeAt(row) / f.rowDuration())
	return steps%f.division == 0, steps%(f.division*4) == 0
}

func (m Model) gutterFor(row int) string {
	if beat, _ := m.rowGrid(row); beat {
		return styleGutter.Render(formatTime(m.s.field.timeAt(row)) + " " + divider)
	}
	return styleGutter.Render(strings.Repeat(" ", gutterWidth-1) + divider)
}

func (m Model) viewFooter() string {
	s := m.s

	left := fmt.Sprintf(" %d note", s.chart.Len())
	if s.chart.Len() != 1 {
		left += "s"
	}
	if desc := s.handler.describeSelection(); desc != "" {
		left += " · " + desc
	}
	if m.status != "" {
		left += " · " + m.status
	}

	return styleStatus.Render(left) + "\n " + m.help.View(m.keys)
}
