// Package render draws charts as standalone SVG documents.
//
// The output is a horizontal lane timeline: one band per lane, a beat
// grid derived from the chart's BPM, taps as circles and holds as
// rounded bars. Rendering is deterministic for a given chart and
// options, so exports diff cleanly.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

// Palette mirrors the terminal UI colors.
const (
	colorBackground = "#16161e"
	colorLaneEven   = "#1e1e28"
	colorLaneOdd    = "#23232f"
	colorBeatLine   = "#2e2e3a"
	colorBarLine    = "#44445a"
	colorTap        = "#2ec8c0" // teal, matches the editor's tap notes
	colorHold       = "#5fafff" // light blue, matches hold notes
	colorTitle      = "#eeeeee"
	colorSubtle     = "#8a8a96"
)

const (
	defaultWidth      = 960
	defaultLaneHeight = 36

	margin       = 16.0
	headerHeight = 44.0
	beatsPerBar  = 4
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width      int
	laneHeight int
}

func WithWidth(px int) SVGOption      { return func(r *svgRenderer) { r.width = px } }
func WithLaneHeight(px int) SVGOption { return func(r *svgRenderer) { r.laneHeight = px } }

// SVG writes the chart as a complete SVG document.
func SVG(w io.Writer, c *chart.Chart, opts ...SVGOption) error {
	r := newSVGRenderer(opts...)

	lanes := c.Lanes
	if lanes < 1 {
		lanes = 1
	}
	span := timelineSpan(c)

	innerWidth := float64(r.width) - 2*margin
	laneHeight := float64(r.laneHeight)
	totalHeight := 2*margin + headerHeight + float64(lanes)*laneHeight
	bodyTop := margin + headerHeight

	xAt := func(t time.Duration) float64 {
		return margin + innerWidth*float64(t)/float64(span)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %.1f" width="%d" height="%.0f">`+"\n",
		r.width, totalHeight, r.width, totalHeight)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%.1f" fill="%s"/>`+"\n",
		r.width, totalHeight, colorBackground)

	renderHeader(&buf, c, float64(r.width))
	renderLanes(&buf, lanes, bodyTop, innerWidth, laneHeight)
	renderBeatGrid(&buf, c, span, bodyTop, float64(lanes)*laneHeight, xAt)
	renderObjects(&buf, c, bodyTop, laneHeight, xAt)

	buf.WriteString("</svg>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: defaultWidth, laneHeight: defaultLaneHeight}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width < 200 {
		r.width = 200
	}
	if r.laneHeight < 12 {
		r.laneHeight = 12
	}
	return r
}

// timelineSpan picks the rendered time range: the chart length padded to
// the next full bar, or four empty bars for a chart with no objects yet.
func timelineSpan(c *chart.Chart) time.Duration {
	beat := c.BeatLength()
	if beat <= 0 {
		beat = 500 * time.Millisecond
	}
	bar := beatsPerBar * beat

	length := c.Length()
	if length == 0 {
		return 4 * bar
	}
	bars := (length + bar - 1) / bar
	return time.Duration(bars) * bar
}

func renderHeader(buf *bytes.Buffer, c *chart.Chart, width float64) {
	title := c.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="monospace" font-size="18" fill="%s">%s</text>`+"\n",
		margin, margin+18, colorTitle, escape(title))

	meta := fmt.Sprintf("%.6g BPM / %d lanes / %d objects", c.BPM, c.Lanes, c.Len())
	if c.Artist != "" {
		meta = escape(c.Artist) + " / " + meta
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="monospace" font-size="12" fill="%s">%s</text>`+"\n",
		margin, margin+36, colorSubtle, meta)
}

func renderLanes(buf *bytes.Buffer, lanes int, top, width, laneHeight float64) {
	for lane := 0; lane < lanes; lane++ {
		fill := colorLaneEven
		if lane%2 == 1 {
			fill = colorLaneOdd
		}
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			margin, top+float64(lane)*laneHeight, width, laneHeight, fill)
	}
}

func renderBeatGrid(buf *bytes.Buffer, c *chart.Chart, span time.Duration, top, height float64, xAt func(time.Duration) float64) {
	beat := c.BeatLength()
	if beat <= 0 {
		return
	}
	for i, t := 0, time.Duration(0); t <= span; i, t = i+1, t+beat {
		color, width := colorBeatLine, 1.0
		if i%beatsPerBar == 0 {
			color, width = colorBarLine, 1.5
		}
		x := xAt(t)
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
			x, top, x, top+height, color, width)
	}
}

func renderObjects(buf *bytes.Buffer, c *chart.Chart, top, laneHeight float64, xAt func(time.Duration) float64) {
	noteRadius := laneHeight * 0.28
	holdHeight := laneHeight * 0.56

	for _, o := range c.Objects() {
		cy := top + (float64(o.Lane)+0.5)*laneHeight
		switch o.Kind {
		case chart.KindHold:
			x := xAt(o.Start)
			w := xAt(o.End()) - x
			if w < holdHeight {
				w = holdHeight
			}
			fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s"/>`+"\n",
				x, cy-holdHeight/2, w, holdHeight, holdHeight/2, colorHold)
		default:
			fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
				xAt(o.Start), cy, noteRadius, colorTap)
		}
	}
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
