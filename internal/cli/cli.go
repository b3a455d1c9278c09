// Package cli implements the chartsmith command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/pkg/backup"
	"github.com/matzehuels/chartsmith/pkg/buildinfo"
	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chartsmith"

	// defaultSnapDivision is the beat division the editor grid starts at.
	defaultSnapDivision = 4
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "chartsmith",
		Short:        "Chartsmith edits rhythm-game charts in the terminal",
		Long:         `Chartsmith is a terminal editor for rhythm-game charts: place, move, and select notes on a lane grid, with autosave snapshots and a live browser preview.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.restoreCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factory
// =============================================================================

// newStore creates the snapshot store for editing sessions.
func newStore(noAutosave bool, dir string) (backup.Store, error) {
	if noAutosave {
		return backup.NewNullStore(), nil
	}
	if dir == "" {
		d, err := autosaveDir()
		if err != nil {
			return backup.NewNullStore(), nil
		}
		dir = d
	}
	return backup.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// autosaveDir returns the snapshot directory using XDG standard
// (~/.local/state/chartsmith/).
func autosaveDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// =============================================================================
// Chart Loading
// =============================================================================

// loadChart validates the path and reads the chart file.
func loadChart(path string) (*chart.Chart, error) {
	if err := errors.ValidateChartPath(path); err != nil {
		return nil, err
	}
	c, err := chart.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load chart %s: %w", path, err)
	}
	return c, nil
}

// defaultOutputPath derives an output path from the input by swapping the
// extension.
func defaultOutputPath(input, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ext
}
