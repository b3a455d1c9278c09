package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartsmith/pkg/backup"
	"github.com/matzehuels/chartsmith/pkg/chart"
)

// seedSnapshot stores a marshaled chart under the given snapshot name.
func seedSnapshot(t *testing.T, dir, name string, ch *chart.Chart) {
	t.Helper()
	store, err := backup.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer store.Close()

	data, err := chart.Marshal(ch)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if err := store.Save(context.Background(), name, data); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
}

func TestRunRestoreApply(t *testing.T) {
	storeDir := t.TempDir()
	recovered := chart.New("Recovered", 150, 4)
	if err := recovered.Add(chart.NewTap(1, 500*time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	seedSnapshot(t, storeDir, "neon-20260821-120000", recovered)

	c := New(io.Discard, log.InfoLevel)
	chartPath := filepath.Join(t.TempDir(), "neon.toml")

	err := c.runRestoreApply(context.Background(), chartPath, "neon-20260821-120000", storeDir, "")
	if err != nil {
		t.Fatalf("runRestoreApply() error: %v", err)
	}

	ch, err := chart.ReadFile(chartPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if ch.Title != "Recovered" {
		t.Errorf("restored title = %q, want %q", ch.Title, "Recovered")
	}
	if ch.Len() != 1 {
		t.Errorf("restored chart has %d objects, want 1", ch.Len())
	}
}

func TestRunRestoreApplyToOutput(t *testing.T) {
	storeDir := t.TempDir()
	seedSnapshot(t, storeDir, "neon-20260821-120000", chart.New("Recovered", 150, 4))

	c := New(io.Discard, log.InfoLevel)
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "neon.toml")
	output := filepath.Join(dir, "recovered.toml")

	err := c.runRestoreApply(context.Background(), chartPath, "neon-20260821-120000", storeDir, output)
	if err != nil {
		t.Fatalf("runRestoreApply() error: %v", err)
	}

	if _, err := chart.ReadFile(output); err != nil {
		t.Errorf("output file should hold the restored chart: %v", err)
	}
	if _, err := chart.ReadFile(chartPath); err == nil {
		t.Error("chart path should be untouched when --output is set")
	}
}

func TestRunRestoreApplyMissingSnapshot(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	chartPath := filepath.Join(t.TempDir(), "neon.toml")

	err := c.runRestoreApply(context.Background(), chartPath, "neon-20990101-000000", t.TempDir(), "")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("runRestoreApply() error = %v, want snapshot not found", err)
	}
}

func TestRunRestoreApplyCorruptSnapshot(t *testing.T) {
	storeDir := t.TempDir()
	store, err := backup.NewFileStore(storeDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(context.Background(), "neon-bad", []byte("lanes = }")); err != nil {
		t.Fatal(err)
	}
	store.Close()

	c := New(io.Discard, log.InfoLevel)
	chartPath := filepath.Join(t.TempDir(), "neon.toml")

	err = c.runRestoreApply(context.Background(), chartPath, "neon-bad", storeDir, "")
	if err == nil || !strings.Contains(err.Error(), "not a valid chart") {
		t.Errorf("runRestoreApply() error = %v, want invalid chart", err)
	}
}

func TestRunRestoreApplyRejectsBadName(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	chartPath := filepath.Join(t.TempDir(), "neon.toml")

	err := c.runRestoreApply(context.Background(), chartPath, "../../etc/passwd", t.TempDir(), "")
	if err == nil {
		t.Fatal("runRestoreApply() should reject snapshot names with path separators")
	}
}

func TestRunRestoreClear(t *testing.T) {
	storeDir := t.TempDir()
	seedSnapshot(t, storeDir, "a-20260821-120000", chart.New("A", 120, 4))
	seedSnapshot(t, storeDir, "b-20260821-130000", chart.New("B", 120, 4))

	c := New(io.Discard, log.InfoLevel)
	if err := c.runRestoreClear(context.Background(), storeDir); err != nil {
		t.Fatalf("runRestoreClear() error: %v", err)
	}

	store, _, err := openStore(storeDir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	snaps, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 0 {
		t.Errorf("store holds %d snapshots after clear, want 0", len(snaps))
	}
}

func TestRunRestoreClearEmpty(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	if err := c.runRestoreClear(context.Background(), t.TempDir()); err != nil {
		t.Errorf("runRestoreClear() on empty store error: %v", err)
	}
}

func TestRunRestoreList(t *testing.T) {
	storeDir := t.TempDir()
	seedSnapshot(t, storeDir, "neon-20260821-120000", chart.New("Neon", 120, 4))

	c := New(io.Discard, log.InfoLevel)
	if err := c.runRestoreList(context.Background(), "", storeDir); err != nil {
		t.Errorf("runRestoreList() error: %v", err)
	}
	if err := c.runRestoreList(context.Background(), "neon.toml", storeDir); err != nil {
		t.Errorf("runRestoreList(neon.toml) error: %v", err)
	}
}

// =============================================================================
// Picker Model
// =============================================================================

func pickerSnaps() []backup.Snapshot {
	now := time.Now()
	return []backup.Snapshot{
		{Name: "neon-20260821-140000", SavedAt: now, Size: 512},
		{Name: "neon-20260821-130000", SavedAt: now.Add(-time.Hour), Size: 498},
		{Name: "neon-20260820-093000", SavedAt: now.Add(-29 * time.Hour), Size: 2048},
	}
}

func updatePicker(t *testing.T, m snapshotListModel, msg tea.Msg) (snapshotListModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	picker, ok := next.(snapshotListModel)
	if !ok {
		t.Fatalf("Update() returned %T, want snapshotListModel", next)
	}
	return picker, cmd
}

func TestPickerNavigation(t *testing.T) {
	m := newSnapshotList(pickerSnaps())

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
	up := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}

	m, _ = updatePicker(t, m, down)
	m, _ = updatePicker(t, m, down)
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	// Clamped at the bottom.
	m, _ = updatePicker(t, m, down)
	if m.cursor != 2 {
		t.Errorf("cursor after clamped move = %d, want 2", m.cursor)
	}

	m, _ = updatePicker(t, m, up)
	if m.cursor != 1 {
		t.Errorf("cursor after up = %d, want 1", m.cursor)
	}
}

func TestPickerScrollsOffset(t *testing.T) {
	m := newSnapshotList(pickerSnaps())
	m.height = 2

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
	m, _ = updatePicker(t, m, down)
	m, _ = updatePicker(t, m, down)

	if m.offset != 1 {
		t.Errorf("offset = %d, want 1 once the cursor passes the window", m.offset)
	}

	up := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}
	m, _ = updatePicker(t, m, up)
	m, _ = updatePicker(t, m, up)
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0 after scrolling back", m.offset)
	}
}

func TestPickerSelects(t *testing.T) {
	m := newSnapshotList(pickerSnaps())

	m, _ = updatePicker(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, cmd := updatePicker(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.selected == nil {
		t.Fatal("enter should select the snapshot under the cursor")
	}
	if m.selected.Name != "neon-20260821-130000" {
		t.Errorf("selected = %q, want the second snapshot", m.selected.Name)
	}
	if cmd == nil {
		t.Fatal("selection should quit the picker")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("selection command should be tea.Quit")
	}
}

func TestPickerCancel(t *testing.T) {
	m := newSnapshotList(pickerSnaps())

	m, cmd := updatePicker(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.selected != nil {
		t.Error("cancelled picker should not have a selection")
	}
	if cmd == nil {
		t.Fatal("esc should quit the picker")
	}
}

func TestPickerViewSmoke(t *testing.T) {
	m := newSnapshotList(pickerSnaps())

	view := m.View()
	for _, want := range []string{"Restore Snapshot", "neon-20260821-140000", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		if got := formatRelativeTime(tt.at); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	if got := formatSize(512); got != "512 B" {
		t.Errorf("formatSize(512) = %q, want %q", got, "512 B")
	}
	if got := formatSize(2048); got != "2.0 KB" {
		t.Errorf("formatSize(2048) = %q, want %q", got, "2.0 KB")
	}
}
