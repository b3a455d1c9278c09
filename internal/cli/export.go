package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/pkg/render"
)

// exportCommand creates the export command for rendering charts to SVG.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output     string
		width      int
		laneHeight int
	)

	cmd := &cobra.Command{
		Use:   "export [chart.toml]",
		Short: "Export a chart as an SVG timeline",
		Long: `Export a chart as an SVG timeline.

The output is a horizontal lane view: one band per lane, a beat grid
derived from the chart's BPM, taps as circles and holds as bars. The
same renderer backs the 'preview' command's live view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(args[0], output, width, laneHeight)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.svg)")
	cmd.Flags().IntVar(&width, "width", 960, "image width in pixels")
	cmd.Flags().IntVar(&laneHeight, "lane-height", 36, "height of each lane band in pixels")

	return cmd
}

// runExport renders the chart to an SVG file.
func (c *CLI) runExport(input, output string, width, laneHeight int) error {
	ch, err := loadChart(input)
	if err != nil {
		return err
	}

	if output == "" {
		output = defaultOutputPath(input, ".svg")
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := render.SVG(f, ch, render.WithWidth(width), render.WithLaneHeight(laneHeight)); err != nil {
		f.Close()
		return fmt.Errorf("render svg: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	taps, holds := countKinds(ch)
	printSuccess("Export complete")
	printFile(output)
	printStats(taps, holds, ch.Length())

	return nil
}
