// Package pkg provides the core libraries for chartsmith rhythm-game chart editing.
//
// # Overview
//
// Chartsmith edits beatmaps: notes placed on lanes along a time axis. The pkg
// directory is organized into these areas:
//
//  1. [chart] - Domain model (hit objects, the live Chart, TOML codec)
//  2. [compose] - Editing surface (selection, drag, placement tools)
//  3. [signal] - Typed event subscriptions wiring the two together
//  4. [backup] - Autosave snapshot stores
//  5. [render] - SVG timeline export
//
// # Architecture
//
// The typical data flow through an editing session:
//
//	chart.toml
//	     ↓
//	[chart] package (decode, validate, own the objects)
//	     ↓
//	[compose] package (container, blueprints, drag-box, tools)
//	     ↓
//	terminal UI (internal/editor) or HTTP preview (internal/preview)
//	     ↓
//	[chart] codec / [render] SVG / [backup] snapshots
//
// # Quick Start
//
// Load a chart and export it as SVG:
//
//	import (
//	    "os"
//	    "github.com/matzehuels/chartsmith/pkg/chart"
//	    "github.com/matzehuels/chartsmith/pkg/render"
//	)
//
//	c, err := chart.ReadFile("song.toml")
//	if err != nil {
//	    return err
//	}
//	f, _ := os.Create("song.svg")
//	defer f.Close()
//	err = render.SVG(f, c, render.WithWidth(1280))
//
// # Main Packages
//
// [chart] - The beatmap domain model. Charts own hit objects (taps and
// holds), fire membership signals on Add/Remove, and serialize to a TOML
// format with integer-millisecond times.
//
// [compose] - The editing surface: a Container orchestrates per-object
// Blueprints (selection + movement state), a rubber-band DragBox, and an
// exclusive placement tool slot. Pointer events flow in, selection and
// placement decisions flow out through handler interfaces.
//
// [signal] - Minimal typed signals for the editor's single-goroutine event
// model. Subscriptions are handles with idempotent Unsubscribe.
//
// [backup] - Snapshot stores for crash recovery. FileStore persists named
// snapshots with metadata under a private directory; NullStore disables
// autosave without branching in callers.
//
// [render] - Deterministic SVG timelines: one band per lane, a beat grid
// from the chart's BPM, taps as circles and holds as bars.
//
// [errors] - Structured error codes and the input validators shared by the
// CLI and the preview server.
//
// [buildinfo] - Build-time version metadata injected via ldflags.
//
// [chart]: https://pkg.go.dev/github.com/matzehuels/chartsmith/pkg/chart
// [compose]: https://pkg.go.dev/github.com/matzehuels/chartsmith/pkg/compose
// [signal]: https://pkg.go.dev/github.com/matzehuels/chartsmith/pkg/signal
// [backup]: https://pkg.go.dev/github.com/matzehuels/chartsmith/pkg/backup
// [render]: https://pkg.go.dev/github.com/matzehuels/chartsmith/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/chartsmith/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/chartsmith/pkg/buildinfo
package pkg
