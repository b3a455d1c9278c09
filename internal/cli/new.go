package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/pkg/chart"
	"github.com/matzehuels/chartsmith/pkg/errors"
)

// maxLanes caps the lane count so charts stay editable in an 80-column
// terminal (gutter plus eight 6-cell lanes).
const maxLanes = 8

// chartParams holds the metadata for a chart to be created.
type chartParams struct {
	Title  string
	Artist string
	Audio  string
	BPM    float64
	Lanes  int
}

// newCommand creates the new command for scaffolding chart files.
func (c *CLI) newCommand() *cobra.Command {
	params := chartParams{BPM: 120, Lanes: 4}

	cmd := &cobra.Command{
		Use:   "new [chart.toml]",
		Short: "Create a new chart file",
		Long: `Create a new chart file.

Without flags, an interactive form asks for the chart's metadata. Pass
--title to skip the form and create the chart directly from flags.

The new chart is empty; open it with 'edit' to place notes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") {
				filled, ok, err := runChartForm(cmd.Context(), params)
				if err != nil {
					return err
				}
				if !ok {
					printInfo("Cancelled")
					return nil
				}
				params = filled
			}
			return c.runNew(args[0], params)
		},
	}

	cmd.Flags().StringVar(&params.Title, "title", "", "chart title (skips the interactive form)")
	cmd.Flags().StringVar(&params.Artist, "artist", "", "artist name")
	cmd.Flags().StringVar(&params.Audio, "audio", "", "audio file, relative to the chart")
	cmd.Flags().Float64Var(&params.BPM, "bpm", params.BPM, "beats per minute")
	cmd.Flags().IntVar(&params.Lanes, "lanes", params.Lanes, "number of lanes (1-8)")

	return cmd
}

// runNew validates the parameters and writes an empty chart file.
func (c *CLI) runNew(path string, params chartParams) error {
	if err := errors.ValidateChartPath(path); err != nil {
		return err
	}
	if err := validateParams(params); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	ch := chart.New(params.Title, params.BPM, params.Lanes)
	ch.Artist = params.Artist
	ch.Audio = params.Audio

	if err := chart.WriteFile(ch, path); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	title := params.Title
	if title == "" {
		title = "Untitled"
	}
	printSuccess("Created %s (%g BPM, %d lanes)", title, params.BPM, params.Lanes)
	printFile(path)
	printNewline()
	printNextStep("Edit", "chartsmith edit "+path)

	return nil
}

// validateParams checks chart metadata before a file is written.
func validateParams(p chartParams) error {
	if err := errors.ValidateTitle(p.Title); err != nil {
		return err
	}
	if err := errors.ValidateAudioPath(p.Audio); err != nil {
		return err
	}
	if p.BPM <= 0 {
		return fmt.Errorf("bpm must be positive, got %g", p.BPM)
	}
	if p.Lanes < 1 || p.Lanes > maxLanes {
		return fmt.Errorf("lanes must be between 1 and %d, got %d", maxLanes, p.Lanes)
	}
	return nil
}

// parseChartParams converts raw form input into chart parameters.
func parseChartParams(title, artist, bpm, lanes string) (chartParams, error) {
	p := chartParams{Title: strings.TrimSpace(title), Artist: strings.TrimSpace(artist)}

	b, err := strconv.ParseFloat(strings.TrimSpace(bpm), 64)
	if err != nil {
		return p, fmt.Errorf("bpm must be a number, got %q", bpm)
	}
	p.BPM = b

	l, err := strconv.Atoi(strings.TrimSpace(lanes))
	if err != nil {
		return p, fmt.Errorf("lanes must be a whole number, got %q", lanes)
	}
	p.Lanes = l

	if err := validateParams(p); err != nil {
		return p, err
	}
	return p, nil
}

// =============================================================================
// Interactive Form
// =============================================================================

// Form field order.
const (
	fieldTitle = iota
	fieldArtist
	fieldBPM
	fieldLanes
	fieldCount
)

// chartForm is the bubbletea model for the interactive new-chart form.
type chartForm struct {
	inputs    [fieldCount]textinput.Model
	focus     int
	submitted bool
	result    chartParams
	errMsg    string
}

// newChartForm builds the form prefilled with the given defaults.
func newChartForm(initial chartParams) chartForm {
	var f chartForm

	title := textinput.New()
	title.Placeholder = "Untitled"
	title.CharLimit = 256
	title.Width = 40
	title.SetValue(initial.Title)
	f.inputs[fieldTitle] = title

	artist := textinput.New()
	artist.Placeholder = "Unknown"
	artist.CharLimit = 256
	artist.Width = 40
	artist.SetValue(initial.Artist)
	f.inputs[fieldArtist] = artist

	bpm := textinput.New()
	bpm.Placeholder = "120"
	bpm.CharLimit = 8
	bpm.Width = 10
	bpm.SetValue(strconv.FormatFloat(initial.BPM, 'f', -1, 64))
	f.inputs[fieldBPM] = bpm

	lanes := textinput.New()
	lanes.Placeholder = "4"
	lanes.CharLimit = 2
	lanes.Width = 10
	lanes.SetValue(strconv.Itoa(initial.Lanes))
	f.inputs[fieldLanes] = lanes

	f.inputs[fieldTitle].Focus()
	return f
}

func (f chartForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f chartForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateFocused(msg)
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return f, tea.Quit

	case "tab", "down":
		return f.setFocus(f.focus + 1), nil

	case "shift+tab", "up":
		return f.setFocus(f.focus - 1), nil

	case "enter":
		if f.focus < fieldLanes {
			return f.setFocus(f.focus + 1), nil
		}
		params, err := parseChartParams(
			f.inputs[fieldTitle].Value(),
			f.inputs[fieldArtist].Value(),
			f.inputs[fieldBPM].Value(),
			f.inputs[fieldLanes].Value(),
		)
		if err != nil {
			f.errMsg = err.Error()
			return f, nil
		}
		f.submitted = true
		f.result = params
		return f, tea.Quit
	}

	return f.updateFocused(msg)
}

// updateFocused routes a message to the currently focused input.
func (f chartForm) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// setFocus moves focus to field i, wrapping at both ends.
func (f chartForm) setFocus(i int) chartForm {
	f.inputs[f.focus].Blur()
	f.focus = ((i % fieldCount) + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
	f.errMsg = ""
	return f
}

func (f chartForm) View() string {
	labels := [fieldCount]string{"Title", "Artist", "BPM", "Lanes"}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("New Chart"))
	b.WriteString("\n\n")
	for i := range f.inputs {
		b.WriteString(StyleDim.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styleFormError.Render(f.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab next · shift+tab back · enter create · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// runChartForm runs the interactive form and reports whether it was
// submitted. A cancelled form returns ok=false with no error.
func runChartForm(ctx context.Context, initial chartParams) (chartParams, bool, error) {
	p := tea.NewProgram(newChartForm(initial), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return initial, false, fmt.Errorf("form: %w", err)
	}
	f, ok := final.(chartForm)
	if !ok || !f.submitted {
		return initial, false, nil
	}
	return f.result, true, nil
}
