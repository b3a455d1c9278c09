package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chartsmith/pkg/backup"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// snapshotListModel - Interactive snapshot selection
// =============================================================================

// snapshotListModel is the bubbletea model for picking a snapshot to restore.
type snapshotListModel struct {
	snapshots []backup.Snapshot
	cursor    int
	selected  *backup.Snapshot
	height    int
	offset    int
}

// newSnapshotList creates a picker over the given snapshots, newest first.
func newSnapshotList(snaps []backup.Snapshot) snapshotListModel {
	return snapshotListModel{
		snapshots: snaps,
		height:    15,
	}
}

func (m snapshotListModel) Init() tea.Cmd {
	return nil
}

func (m snapshotListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.snapshots)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			snap := m.snapshots[m.cursor]
			m.selected = &snap
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m snapshotListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Restore Snapshot"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ restore  q cancel"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.snapshots) {
		end = len(m.snapshots)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		s := m.snapshots[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{cursor, s.Name, formatRelativeTime(s.SavedAt), formatSize(s.Size)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Snapshot", "Saved", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.offset + row
			if actualIdx >= len(m.snapshots) {
				return lipgloss.NewStyle()
			}
			isCurrent := actualIdx == m.cursor
			isNewest := actualIdx == 0

			base := lipgloss.NewStyle()
			if col == 2 || col == 3 {
				base = base.Foreground(colorDim)
				if isCurrent {
					base = base.Foreground(colorGray)
				}
			}

			if isCurrent {
				if col == 1 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			if isNewest && col == 1 {
				return base.Foreground(colorGreen)
			}
			if col == 1 {
				return base.Foreground(colorWhite)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s newest\n", StyleSuccess.Render("●")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.snapshots))))

	return b.String()
}

// pickSnapshot runs the interactive picker and returns the chosen snapshot
// name. A cancelled picker returns ok=false with no error.
func pickSnapshot(ctx context.Context, snaps []backup.Snapshot) (string, bool, error) {
	p := tea.NewProgram(newSnapshotList(snaps), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(snapshotListModel)
	if !ok || m.selected == nil {
		return "", false, nil
	}
	return m.selected.Name, true, nil
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
