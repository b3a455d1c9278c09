package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/pkg/backup"
	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/errors"
)

// restoreCommand creates the restore command group for snapshot recovery.
func (c *CLI) restoreCommand() *cobra.Command {
	var storeDir string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Recover charts from autosave snapshots",
	}

	cmd.PersistentFlags().StringVar(&storeDir, "autosave-dir", "", "snapshot directory (default: ~/.local/state/chartsmith)")

	cmd.AddCommand(c.restoreListCommand(&storeDir))
	cmd.AddCommand(c.restoreApplyCommand(&storeDir))
	cmd.AddCommand(c.restoreClearCommand(&storeDir))
	cmd.AddCommand(c.restorePathCommand(&storeDir))

	return cmd
}

// openStore opens the snapshot store at dir, resolving the default autosave
// directory when dir is empty. Returns the resolved directory alongside.
func openStore(dir string) (backup.Store, string, error) {
	if dir == "" {
		d, err := autosaveDir()
		if err != nil {
			return nil, "", fmt.Errorf("resolve autosave dir: %w", err)
		}
		dir = d
	}
	store, err := backup.NewFileStore(dir)
	if err != nil {
		return nil, "", fmt.Errorf("open snapshot store: %w", err)
	}
	return store, dir, nil
}

// filterSnapshots keeps snapshots taken for the given chart file. Snapshot
// names start with the chart's base name.
func filterSnapshots(snaps []backup.Snapshot, chartPath string) []backup.Snapshot {
	base := strings.TrimSuffix(filepath.Base(chartPath), filepath.Ext(chartPath))
	var out []backup.Snapshot
	for _, s := range snaps {
		if strings.HasPrefix(s.Name, base+"-") {
			out = append(out, s)
		}
	}
	return out
}

// restoreListCommand creates the "restore list" subcommand.
func (c *CLI) restoreListCommand(storeDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list [chart.toml]",
		Short: "List autosave snapshots",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chartPath := ""
			if len(args) == 1 {
				chartPath = args[0]
			}
			return c.runRestoreList(cmd.Context(), chartPath, *storeDir)
		},
	}
}

// runRestoreList prints all snapshots, optionally filtered to one chart.
func (c *CLI) runRestoreList(ctx context.Context, chartPath, storeDir string) error {
	store, dir, err := openStore(storeDir)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if chartPath != "" {
		snaps = filterSnapshots(snaps, chartPath)
	}

	if len(snaps) == 0 {
		printInfo("No snapshots")
		printDetail("Directory: %s", dir)
		return nil
	}

	for _, s := range snaps {
		name := fmt.Sprintf("%-32s", s.Name)
		saved := fmt.Sprintf("%-14s", formatRelativeTime(s.SavedAt))
		fmt.Println("  " + StyleValue.Render(name) + StyleDim.Render(saved) + StyleNumber.Render(formatSize(s.Size)))
	}
	printNewline()
	printDetail("%d snapshots · %s", len(snaps), dir)

	return nil
}

// restoreApplyCommand creates the "restore apply" subcommand.
func (c *CLI) restoreApplyCommand(storeDir *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "apply [chart.toml] [snapshot]",
		Short: "Restore a chart from a snapshot",
		Long: `Restore a chart from a snapshot.

Without a snapshot name, an interactive picker lists the chart's
snapshots, newest first. The restored chart overwrites the chart file
unless --output points elsewhere.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapName := ""
			if len(args) == 2 {
				snapName = args[1]
			}
			return c.runRestoreApply(cmd.Context(), args[0], snapName, *storeDir, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the restored chart here instead of overwriting")

	return cmd
}

// runRestoreApply loads a snapshot and writes it back as a chart file.
func (c *CLI) runRestoreApply(ctx context.Context, chartPath, snapName, storeDir, output string) error {
	if err := errors.ValidateChartPath(chartPath); err != nil {
		return err
	}

	store, _, err := openStore(storeDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if snapName == "" {
		snaps, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("list snapshots: %w", err)
		}
		snaps = filterSnapshots(snaps, chartPath)
		if len(snaps) == 0 {
			printInfo("No snapshots for %s", chartPath)
			return nil
		}
		name, ok, err := pickSnapshot(ctx, snaps)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Cancelled")
			return nil
		}
		snapName = name
	}

	if err := errors.ValidateSnapshotName(snapName); err != nil {
		return err
	}

	data, found, err := store.Load(ctx, snapName)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		return fmt.Errorf("snapshot %q not found", snapName)
	}

	ch, err := chart.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("snapshot %q is not a valid chart: %w", snapName, err)
	}

	target := output
	if target == "" {
		target = chartPath
	}
	if err := chart.WriteFile(ch, target); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	taps, holds := countKinds(ch)
	printSuccess("Restored %s", snapName)
	printFile(target)
	printStats(taps, holds, ch.Length())
	printNewline()
	printNextStep("Edit", "chartsmith edit "+target)

	return nil
}

// restoreClearCommand creates the "restore clear" subcommand.
func (c *CLI) restoreClearCommand(storeDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all autosave snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRestoreClear(cmd.Context(), *storeDir)
		},
	}
}

// runRestoreClear removes every snapshot in the store.
func (c *CLI) runRestoreClear(ctx context.Context, storeDir string) error {
	store, dir, err := openStore(storeDir)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		printInfo("No snapshots to clear")
		return nil
	}

	if err := store.Prune(ctx, 0); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}

	printSuccess("Cleared %d snapshots", len(snaps))
	printDetail("Directory: %s", dir)
	return nil
}

// restorePathCommand creates the "restore path" subcommand.
func (c *CLI) restorePathCommand(storeDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the snapshot directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := *storeDir
			if dir == "" {
				d, err := autosaveDir()
				if err != nil {
					return fmt.Errorf("resolve autosave dir: %w", err)
				}
				dir = d
			}
			fmt.Println(dir)
			return nil
		},
	}
}
