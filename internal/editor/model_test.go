package editor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/chartsmith/pkg/backup"
	"github.com/matzehuels/chartsmith/pkg/chart"
)

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newTestModel builds a model over a fresh chart, sized so the playfield
// matches the geometry the other fixtures use (24 rows from origin 11,2).
func newTestModel(t *testing.T, store backup.Store, opts ...ModelOption) Model {
	t.Helper()
	c := chart.New("Test", 120, 4)
	m := NewModel("test.toml", c, store, discardLogger(), opts...)
	t.Cleanup(m.Close)
	return update(m, tea.WindowSizeMsg{Width: 80, Height: 28})
}

func clickAt(m Model, x, y int) Model {
	m = update(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return update(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})
}

func TestModelResizeSetsViewport(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())

	f := m.s.field
	if f.originX != gutterWidth || f.originY != headerRows || f.rows != 24 {
		t.Errorf("viewport = (%d, %d, %d rows), want (11, 2, 24)", f.originX, f.originY, f.rows)
	}
}

func TestModelSnapDivisionOption(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore(), WithSnapDivision(8))
	if m.s.field.division != 8 {
		t.Errorf("division = %d, want 8", m.s.field.division)
	}
}

func TestModelInitSchedulesFrame(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())
	if m.Init() == nil {
		t.Error("Init should schedule the frame tick")
	}
}

func TestModelToolKeys(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())

	for _, tc := range []struct {
		key  string
		want string
	}{
		{"2", "tap"},
		{"3", "hold"},
		{"1", "select"},
	} {
		m = update(m, keyRunes(tc.key))
		if got := m.s.container.CurrentTool().Name(); got != tc.want {
			t.Errorf("after %q: tool = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestModelScrollAndZoomKeys(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())
	f := m.s.field

	m = update(m, keyRunes("j"))
	if f.scroll != 125*time.Millisecond {
		t.Errorf("scroll = %v after j, want 125ms", f.scroll)
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if f.scroll != 0 {
		t.Errorf("scroll = %v, want clamped to 0", f.scroll)
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyPgDown})
	if f.scroll != 3*time.Second {
		t.Errorf("scroll = %v after pgdown, want 3s", f.scroll)
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyHome})
	if f.scroll != 0 {
		t.Errorf("scroll = %v after home, want 0", f.scroll)
	}

	m = update(m, keyRunes("+"))
	if f.division != 8 {
		t.Errorf("division = %d after +, want 8", f.division)
	}
	m = update(m, keyRunes("-"))
	if f.division != 4 {
		t.Errorf("division = %d after -, want 4", f.division)
	}
}

func TestModelMouseSelectsNote(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())
	if err := m.s.chart.Add(chart.NewTap(0, 500*time.Millisecond)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	m = clickAt(m, 14, 6)
	if m.s.handler.SelectionCount() != 1 {
		t.Errorf("SelectionCount = %d after click, want 1", m.s.handler.SelectionCount())
	}
}

func TestModelMouseDragMovesNote(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())
	obj := chart.NewTap(0, 500*time.Millisecond)
	if err := m.s.chart.Add(obj); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	m = update(m, tea.MouseMsg{X: 14, Y: 6, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(m, tea.MouseMsg{X: 20, Y: 8, Action: tea.MouseActionMotion})
	m = update(m, tea.MouseMsg{X: 20, Y: 8, Action: tea.MouseActionRelease})

	if obj.Lane != 1 || obj.Start != 750*time.Millisecond {
		t.Errorf("note at lane %d @ %v, want lane 1 @ 750ms", obj.Lane, obj.Start)
	}
}

func TestModelWheelScrolls(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())
	f := m.s.field

	m = update(m, tea.MouseMsg{X: 14, Y: 6, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if f.scroll != 250*time.Millisecond {
		t.Errorf("scroll = %v after wheel down, want 250ms", f.scroll)
	}
	m = update(m, tea.MouseMsg{X: 14, Y: 6, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if f.scroll != 0 {
		t.Errorf("scroll = %v after wheel up, want 0", f.scroll)
	}
}

func TestModelDeleteKeyRemovesSelection(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())
	if err := m.s.chart.Add(chart.NewTap(0, 500*time.Millisecond)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	m = clickAt(m, 14, 6)
	m = update(m, keyRunes("x"))

	if m.s.chart.Len() != 0 {
		t.Errorf("chart has %d notes after delete, want 0", m.s.chart.Len())
	}
	if m.status != "deleted 1" {
		t.Errorf("status = %q, want \"deleted 1\"", m.status)
	}
}

func TestModelEscClearsSelection(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())
	if err := m.s.chart.Add(chart.NewTap(0, 500*time.Millisecond)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	m = clickAt(m, 14, 6)
	m = update(m, tea.KeyMsg{Type: tea.KeyEscape})

	if m.s.handler.SelectionCount() != 0 {
		t.Error("esc should clear the selection")
	}
}

func TestModelSaveKeyWritesChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.toml")
	c := chart.New("Test", 120, 4)
	m := NewModel(path, c, backup.NewNullStore(), discardLogger())
	t.Cleanup(m.Close)

	if err := c.Add(chart.NewTap(0, 0)); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("chart file not written: %v", err)
	}
	if m.Dirty() {
		t.Error("save should clear the dirty flag")
	}
	if !strings.Contains(m.status, "saved") {
		t.Errorf("status = %q, want a save confirmation", m.status)
	}
}

func TestModelAutosaveSnapshotsDirtyChart(t *testing.T) {
	store, err := backup.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	m := newTestModel(t, store, WithAutosaveInterval(0))

	if err := m.s.chart.Add(chart.NewTap(0, 0)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	next, cmd := m.Update(frameMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("frame update should schedule the next tick")
	}

	snaps, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("store has %d snapshots, want 1", len(snaps))
	}
	if !strings.HasPrefix(snaps[0].Name, "test-") {
		t.Errorf("snapshot name = %q, want test-<timestamp>", snaps[0].Name)
	}
	if !m.Dirty() {
		t.Error("autosave is not a save; the chart should stay dirty")
	}
}

func TestModelCleanChartSkipsAutosave(t *testing.T) {
	store, err := backup.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	m := newTestModel(t, store, WithAutosaveInterval(0))

	update(m, frameMsg(time.Now()))

	snaps, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("store has %d snapshots for a clean chart, want 0", len(snaps))
	}
}

func TestModelQuitSnapshotsWhenDirty(t *testing.T) {
	store, err := backup.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	m := newTestModel(t, store)
	if err := m.s.chart.Add(chart.NewTap(0, 0)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("cmd() = %T, want tea.QuitMsg", cmd())
	}

	snaps, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(snaps) != 1 {
		t.Errorf("store has %d snapshots after dirty quit, want 1", len(snaps))
	}
}

func TestModelQuitCleanSkipsSnapshot(t *testing.T) {
	store, err := backup.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	m := newTestModel(t, store)

	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}

	snaps, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("store has %d snapshots after clean quit, want 0", len(snaps))
	}
}

func TestModelViewSmoke(t *testing.T) {
	m := newTestModel(t, backup.NewNullStore())
	if err := m.s.chart.Add(chart.NewTap(0, 500*time.Millisecond)); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := m.s.chart.Add(chart.NewHold(2, time.Second, 500*time.Millisecond)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	out := m.View()
	for _, want := range []string{
		"Test",
		"120 BPM",
		"4 lanes",
		"snap 1/4",
		"2 notes",
		glyphNote,
		glyphBody,
		"00:00.000",
		"quit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if lines := strings.Count(out, "\n"); lines < m.s.field.rows {
		t.Errorf("View() has %d lines, want at least %d body rows", lines, m.s.field.rows)
	}
}
