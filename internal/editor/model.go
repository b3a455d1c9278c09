// Package editor is the terminal chart editor: a bubbletea program that
// hosts the compose selection layer over a playfield grid.
//
// The editor owns the glue the compose layer delegates outward: the
// playfield coordinate mapping, note views (drawables), the selection
// handler with the editor's click and movement policy, and the placement
// tools. Mouse input is routed to the container; a frame tick drives
// placement visibility and autosave.
package editor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/chartsmith/pkg/backup"
	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/compose"
	"github.com/matzehuels/chartsmith/pkg/signal"
)

const (
	framePeriod     = 50 * time.Millisecond
	gutterWidth     = 11 // "mm:ss.mmm │"
	headerRows      = 2
	footerRows      = 2
	keepSnapshots   = 10
	defaultAutosave = 30 * time.Second
)

// frameMsg drives the per-frame tick.
type frameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(framePeriod, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// session owns the live editing state. The bubbletea model is copied on
// every Update; everything the compose wiring or closures must observe
// lives here behind one pointer.
type session struct {
	path      string
	chart     *chart.Chart
	field     *playfield
	handler   *chartSelectionHandler
	composer  *playfieldComposer
	container *compose.Container
	store     backup.Store
	logger    *log.Logger

	tools []compose.Tool

	dirty    bool
	lastSave time.Time

	subs []*signal.Subscription
}

// newSession wires the editing stack in dependency order. The composer
// subscribes to the chart before the container attaches, so an added
// object's view exists by the time the container resolves it.
func newSession(path string, c *chart.Chart, store backup.Store, logger *log.Logger) *session {
	s := &session{
		path:   path,
		chart:  c,
		store:  store,
		logger: logger,
	}
	s.field = newPlayfield(c.Lanes, c.BeatLength())
	s.handler = newChartSelectionHandler(c, s.field, logger)
	s.handler.setOnChange(s.markDirty)
	s.composer = newPlayfieldComposer(c, s.field, s.handler)
	s.container = compose.New(c, s.composer, compose.WithLogger(logger))
	s.container.Attach()

	s.tools = []compose.Tool{
		selectTool{},
		&tapTool{chart: c, field: s.field, logger: logger},
		&holdTool{chart: c, field: s.field, logger: logger},
	}
	s.container.SetTool(s.tools[0])

	s.subs = []*signal.Subscription{
		c.OnObjectAdded(func(*chart.HitObject) { s.markDirty() }),
		c.OnObjectRemoved(func(*chart.HitObject) { s.markDirty() }),
	}
	return s
}

func (s *session) markDirty() { s.dirty = true }

// close tears the stack down in reverse construction order.
func (s *session) close() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.container.Close()
	s.composer.close()
	s.store.Close()
}

// saveChart writes the chart back to its file.
func (s *session) saveChart() error {
	if err := chart.WriteFile(s.chart, s.path); err != nil {
		return err
	}
	s.dirty = false
	s.lastSave = time.Now()
	s.logger.Info("chart saved", "path", s.path)
	return nil
}

// snapshot stores an autosave snapshot and prunes old ones. Best effort:
// failures are logged, not surfaced, so autosave never interrupts editing.
func (s *session) snapshot() {
	data, err := chart.Marshal(s.chart)
	if err != nil {
		s.logger.Error("snapshot marshal failed", "err", err)
		return
	}
	name := snapshotName(s.path, time.Now())
	ctx := context.Background()
	if err := s.store.Save(ctx, name, data); err != nil {
		s.logger.Error("snapshot save failed", "err", err)
		return
	}
	if err := s.store.Prune(ctx, keepSnapshots); err != nil {
		s.logger.Error("snapshot prune failed", "err", err)
	}
	s.lastSave = time.Now()
	s.logger.Debug("snapshot saved", "name", name)
}

// snapshotName derives a snapshot name from the chart path and a timestamp.
func snapshotName(path string, at time.Time) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("%s-%s", base, at.Format("20060102-150405"))
}

// Model is the bubbletea model for the chart editor.
type Model struct {
	s *session

	keys          keyMap
	help          help.Model
	autosaveEvery time.Duration
	width, height int
	status        string
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithAutosaveInterval overrides how often a dirty chart is snapshotted.
func WithAutosaveInterval(d time.Duration) ModelOption {
	return func(m *Model) { m.autosaveEvery = d }
}

// WithSnapDivision sets the initial beat division of the playfield grid.
func WithSnapDivision(d int) ModelOption {
	return func(m *Model) { m.s.field.setDivision(d) }
}

// NewModel creates the editor model over a loaded chart. The store receives
// autosave snapshots; pass a backup.NullStore to disable autosave.
func NewModel(path string, c *chart.Chart, store backup.Store, logger *log.Logger, opts ...ModelOption) Model {
	m := Model{
		s:             newSession(path, c, store, logger),
		keys:          defaultKeyMap(),
		help:          help.New(),
		autosaveEvery: defaultAutosave,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Close releases the editing session. Call after the program exits.
func (m Model) Close() { m.s.close() }

// Dirty reports whether the chart has unsaved changes.
func (m Model) Dirty() bool { return m.s.dirty }

func (m Model) Init() tea.Cmd {
	return frameTick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.s.container.Tick()
		if m.s.dirty && time.Since(m.s.lastSave) >= m.autosaveEvery {
			m.s.snapshot()
		}
		return m, frameTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.s.field.setViewport(gutterWidth, headerRows, msg.Height-headerRows-footerRows)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.s.dirty {
			m.s.snapshot()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Save):
		if err := m.s.saveChart(); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = "saved " + m.s.path
		}

	case key.Matches(msg, m.keys.ToolSelect):
		m.s.container.SetTool(m.s.tools[0])
		m.status = ""
	case key.Matches(msg, m.keys.ToolTap):
		m.s.container.SetTool(m.s.tools[1])
		m.status = ""
	case key.Matches(msg, m.keys.ToolHold):
		m.s.container.SetTool(m.s.tools[2])
		m.status = ""

	case key.Matches(msg, m.keys.Deselect):
		m.s.handler.ClearSelection()
		m.status = ""

	case key.Matches(msg, m.keys.Delete):
		if n := m.s.handler.DeleteSelection(); n > 0 {
			m.status = fmt.Sprintf("deleted %d", n)
		}

	case key.Matches(msg, m.keys.Up):
		m.s.field.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.s.field.scrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.s.field.scrollBy(-m.s.field.rows)
	case key.Matches(msg, m.keys.PageDown):
		m.s.field.scrollBy(m.s.field.rows)
	case key.Matches(msg, m.keys.Top):
		m.s.field.scroll = 0

	case key.Matches(msg, m.keys.SnapFiner):
		m.s.field.finerDivision()
	case key.Matches(msg, m.keys.SnapCoarser):
		m.s.field.coarserDivision()
	}
	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pos := r2.Vec{X: float64(msg.X), Y: float64(msg.Y)}
	mods := compose.Modifiers{Ctrl: msg.Ctrl, Shift: msg.Shift, Alt: msg.Alt}
	m.s.composer.setPointer(pos)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.s.field.scrollBy(-2)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.s.field.scrollBy(2)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.s.container.MouseDown(pos, mods)
		}
	case tea.MouseActionMotion:
		m.s.container.MouseMove(pos, mods)
	case tea.MouseActionRelease:
		m.s.container.MouseUp(pos, mods)
	}
	return m, nil
}
