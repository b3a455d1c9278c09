package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/internal/editor"
)

// editCommand creates the edit command for interactive chart editing.
func (c *CLI) editCommand() *cobra.Command {
	var (
		snap       int
		noAutosave bool
		storeDir   string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:   "edit [chart.toml]",
		Short: "Edit a chart in the terminal",
		Long: `Edit a chart in the terminal.

The editor opens in fullscreen with mouse support. Click to select notes,
drag to move them, and drag on empty grid to rubber-band select. The tap
and hold tools (keys 2 and 3) place new notes; key 1 returns to selection.

While the chart has unsaved changes it is snapshotted periodically, so a
crashed or abandoned session can be recovered with 'restore'. Save with
ctrl+s, quit with q.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], snap, noAutosave, storeDir, logFile)
		},
	}

	cmd.Flags().IntVar(&snap, "snap", defaultSnapDivision, "initial beat division of the grid (1, 2, 4, 8, or 16)")
	cmd.Flags().BoolVar(&noAutosave, "no-autosave", false, "disable autosave snapshots")
	cmd.Flags().StringVar(&storeDir, "autosave-dir", "", "snapshot directory (default: ~/.local/state/chartsmith)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append session logs to this file")

	return cmd
}

// runEdit loads the chart and runs the fullscreen editor until quit.
func (c *CLI) runEdit(ctx context.Context, path string, snap int, noAutosave bool, storeDir, logFile string) error {
	ch, err := loadChart(path)
	if err != nil {
		return err
	}

	store, err := newStore(noAutosave, storeDir)
	if err != nil {
		return fmt.Errorf("initialize snapshot store: %w", err)
	}
	defer store.Close()

	// The terminal belongs to the editor while it runs, so session logs
	// go to a file or nowhere.
	sessionLog := log.New(io.Discard)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		sessionLog = newLogger(f, c.Logger.GetLevel())
	}

	m := editor.NewModel(path, ch, store, sessionLog, editor.WithSnapDivision(snap))
	defer m.Close()

	prog := newProgress(c.Logger)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("editor: %w", err)
	}
	prog.done("Session closed")

	if fm, ok := final.(editor.Model); ok && fm.Dirty() {
		if noAutosave {
			printWarning("Unsaved changes were discarded (autosave disabled)")
		} else {
			printWarning("Quit with unsaved changes - a snapshot was kept")
			printNextStep("Recover", "chartsmith restore apply "+path)
		}
	}

	return nil
}
