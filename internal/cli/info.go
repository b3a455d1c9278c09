package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

// infoCommand creates the info command for inspecting chart files.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [chart.toml]",
		Short: "Show chart metadata and note statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(args[0])
		},
	}
}

// runInfo loads the chart and prints a metadata summary.
func (c *CLI) runInfo(path string) error {
	ch, err := loadChart(path)
	if err != nil {
		return err
	}

	title := ch.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Println(StyleTitle.Render(title))
	if ch.Artist != "" {
		fmt.Println(StyleDim.Render("  by " + ch.Artist))
	}
	printNewline()

	taps, holds := countKinds(ch)
	printKeyValue("Path", path)
	if ch.Audio != "" {
		printKeyValue("Audio", ch.Audio)
	}
	printKeyValue("BPM", strconv.FormatFloat(ch.BPM, 'g', -1, 64))
	printKeyValue("Lanes", strconv.Itoa(ch.Lanes))
	printKeyValue("Notes", fmt.Sprintf("%d (%d taps, %d holds)", ch.Len(), taps, holds))
	printKeyValue("Length", formatDuration(ch.Length()))
	printKeyValue("Beat", ch.BeatLength().Round(time.Millisecond).String())
	if density := noteDensity(ch); density > 0 {
		printKeyValue("Density", fmt.Sprintf("%.2f notes/sec", density))
	}

	if err := ch.Validate(); err != nil {
		printNewline()
		printWarning("Chart has validation issues: %v", err)
	}

	return nil
}

// countKinds tallies the chart's objects by kind.
func countKinds(c *chart.Chart) (taps, holds int) {
	for _, o := range c.Objects() {
		if o.Kind == chart.KindHold {
			holds++
		} else {
			taps++
		}
	}
	return taps, holds
}

// noteDensity returns notes per second over the chart's played span,
// or zero for charts too short to measure.
func noteDensity(c *chart.Chart) float64 {
	length := c.Length()
	if length <= 0 {
		return 0
	}
	return float64(c.Len()) / length.Seconds()
}
