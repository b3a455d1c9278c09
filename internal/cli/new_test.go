package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

func TestParseChartParams(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		bpm     string
		lanes   string
		want    chartParams
		wantErr bool
	}{
		{
			name:  "valid",
			title: "Neon Rush",
			bpm:   "174",
			lanes: "4",
			want:  chartParams{Title: "Neon Rush", BPM: 174, Lanes: 4},
		},
		{
			name:  "fractional bpm",
			title: "X",
			bpm:   "98.5",
			lanes: "6",
			want:  chartParams{Title: "X", BPM: 98.5, Lanes: 6},
		},
		{
			name:  "trims whitespace",
			title: " Padded ",
			bpm:   " 120 ",
			lanes: " 4 ",
			want:  chartParams{Title: "Padded", BPM: 120, Lanes: 4},
		},
		{
			name:  "empty title allowed",
			title: "",
			bpm:   "120",
			lanes: "4",
			want:  chartParams{BPM: 120, Lanes: 4},
		},
		{name: "bad bpm", title: "X", bpm: "fast", lanes: "4", wantErr: true},
		{name: "zero bpm", title: "X", bpm: "0", lanes: "4", wantErr: true},
		{name: "negative bpm", title: "X", bpm: "-120", lanes: "4", wantErr: true},
		{name: "bad lanes", title: "X", bpm: "120", lanes: "many", wantErr: true},
		{name: "zero lanes", title: "X", bpm: "120", lanes: "0", wantErr: true},
		{name: "too many lanes", title: "X", bpm: "120", lanes: "9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChartParams(tt.title, "", tt.bpm, tt.lanes)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseChartParams() should have failed")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseChartParams() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseChartParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateParamsAudio(t *testing.T) {
	p := chartParams{Title: "X", Audio: "../escape.ogg", BPM: 120, Lanes: 4}
	if err := validateParams(p); err == nil {
		t.Error("validateParams() should reject audio path traversal")
	}

	p.Audio = "audio/track.ogg"
	if err := validateParams(p); err != nil {
		t.Errorf("validateParams() rejected valid audio path: %v", err)
	}
}

// =============================================================================
// Form Model
// =============================================================================

func formKey(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func updateForm(t *testing.T, f chartForm, msg tea.Msg) (chartForm, tea.Cmd) {
	t.Helper()
	next, cmd := f.Update(msg)
	form, ok := next.(chartForm)
	if !ok {
		t.Fatalf("Update() returned %T, want chartForm", next)
	}
	return form, cmd
}

func TestChartFormNavigation(t *testing.T) {
	f := newChartForm(chartParams{BPM: 120, Lanes: 4})

	if f.focus != fieldTitle {
		t.Fatalf("initial focus = %d, want title", f.focus)
	}

	f, _ = updateForm(t, f, formKey(tea.KeyTab))
	f, _ = updateForm(t, f, formKey(tea.KeyTab))
	if f.focus != fieldBPM {
		t.Errorf("focus after two tabs = %d, want bpm", f.focus)
	}

	f, _ = updateForm(t, f, formKey(tea.KeyShiftTab))
	if f.focus != fieldArtist {
		t.Errorf("focus after shift+tab = %d, want artist", f.focus)
	}

	// Wraps at both ends.
	f, _ = updateForm(t, f, formKey(tea.KeyShiftTab))
	f, _ = updateForm(t, f, formKey(tea.KeyShiftTab))
	if f.focus != fieldLanes {
		t.Errorf("focus after wrapping backward = %d, want lanes", f.focus)
	}
	f, _ = updateForm(t, f, formKey(tea.KeyTab))
	if f.focus != fieldTitle {
		t.Errorf("focus after wrapping forward = %d, want title", f.focus)
	}
}

func TestChartFormTypesIntoFocusedField(t *testing.T) {
	f := newChartForm(chartParams{BPM: 120, Lanes: 4})

	f, _ = updateForm(t, f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Neon")})

	if got := f.inputs[fieldTitle].Value(); got != "Neon" {
		t.Errorf("title value = %q, want %q", got, "Neon")
	}
	if got := f.inputs[fieldArtist].Value(); got != "" {
		t.Errorf("artist value = %q, want empty", got)
	}
}

func TestChartFormSubmit(t *testing.T) {
	f := newChartForm(chartParams{Title: "Neon Rush", Artist: "DJ Test", BPM: 174, Lanes: 4})

	// Enter advances through the fields, then submits from the last one.
	var cmd tea.Cmd
	for range fieldCount {
		f, cmd = updateForm(t, f, formKey(tea.KeyEnter))
	}

	if !f.submitted {
		t.Fatal("form should be submitted after enter on the last field")
	}
	want := chartParams{Title: "Neon Rush", Artist: "DJ Test", BPM: 174, Lanes: 4}
	if f.result != want {
		t.Errorf("result = %+v, want %+v", f.result, want)
	}
	if cmd == nil {
		t.Fatal("submit should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("submit command should be tea.Quit")
	}
}

func TestChartFormRejectsInvalidInput(t *testing.T) {
	f := newChartForm(chartParams{Title: "X", BPM: 0, Lanes: 4})

	var cmd tea.Cmd
	for range fieldCount {
		f, cmd = updateForm(t, f, formKey(tea.KeyEnter))
	}

	if f.submitted {
		t.Fatal("form should not submit with zero BPM")
	}
	if cmd != nil {
		t.Error("failed submit should not quit")
	}
	if f.errMsg == "" {
		t.Error("failed submit should set an error message")
	}

	// Moving focus clears the error.
	f, _ = updateForm(t, f, formKey(tea.KeyShiftTab))
	if f.errMsg != "" {
		t.Error("error message should clear when focus moves")
	}
}

func TestChartFormCancel(t *testing.T) {
	f := newChartForm(chartParams{BPM: 120, Lanes: 4})

	f, cmd := updateForm(t, f, formKey(tea.KeyEsc))

	if f.submitted {
		t.Error("cancelled form should not be submitted")
	}
	if cmd == nil {
		t.Fatal("esc should quit the form")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc command should be tea.Quit")
	}
}

// =============================================================================
// runNew
// =============================================================================

func TestRunNewCreatesChart(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	path := filepath.Join(t.TempDir(), "neon.toml")

	params := chartParams{Title: "Neon Rush", Artist: "DJ Test", BPM: 174, Lanes: 4}
	if err := c.runNew(path, params); err != nil {
		t.Fatalf("runNew() error: %v", err)
	}

	ch, err := chart.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if ch.Title != "Neon Rush" || ch.Artist != "DJ Test" {
		t.Errorf("chart metadata = %q/%q, want Neon Rush/DJ Test", ch.Title, ch.Artist)
	}
	if ch.BPM != 174 || ch.Lanes != 4 {
		t.Errorf("chart shape = %g BPM/%d lanes, want 174/4", ch.BPM, ch.Lanes)
	}
	if ch.Len() != 0 {
		t.Errorf("new chart has %d objects, want 0", ch.Len())
	}
}

func TestRunNewRefusesOverwrite(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	path := filepath.Join(t.TempDir(), "exists.toml")
	if err := os.WriteFile(path, []byte("title = \"old\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := c.runNew(path, chartParams{Title: "New", BPM: 120, Lanes: 4})
	if err == nil {
		t.Fatal("runNew() should refuse to overwrite an existing file")
	}
}

func TestRunNewRejectsBadPath(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)

	err := c.runNew(filepath.Join(t.TempDir(), "chart.json"), chartParams{Title: "X", BPM: 120, Lanes: 4})
	if err == nil {
		t.Fatal("runNew() should reject non-toml paths")
	}
}
