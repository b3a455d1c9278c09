package chart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// =============================================================================
// Chart Serialization API
// =============================================================================

// Marshal converts a chart to TOML bytes.
// Objects are sorted by start time for deterministic output.
func Marshal(c *Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeChartTo(c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes TOML bytes into a live chart.
// Returns validation errors for malformed documents or constraint violations.
func Unmarshal(data []byte) (*Chart, error) {
	return readChartFrom(bytes.NewReader(data))
}

// WriteFile writes a chart to a TOML file.
// The file is created with 0644 permissions.
func WriteFile(c *Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeChartTo(c, f)
}

// Write writes a chart as TOML to an io.Writer.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(c *Chart, w io.Writer) error {
	return writeChartTo(c, w)
}

// ReadFile reads a TOML file and returns the decoded chart.
func ReadFile(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readChartFrom(f)
}

// Read decodes a TOML chart from an io.Reader.
// Use ReadFile for files or pass bytes.NewReader for in-memory data.
func Read(r io.Reader) (*Chart, error) {
	return readChartFrom(r)
}

// =============================================================================
// File Format
// =============================================================================

// File is the on-disk representation of a chart. All times are integer
// milliseconds so that hand-edited files stay readable.
//
// The format is designed for round-trip fidelity: read → edit → write → read
// produces an equivalent chart.
type File struct {
	Title   string   `toml:"title"`
	Artist  string   `toml:"artist,omitempty"`
	Audio   string   `toml:"audio,omitempty"`
	BPM     float64  `toml:"bpm"`
	Lanes   int      `toml:"lanes"`
	Objects []Object `toml:"objects,omitempty"`
}

// Object is the on-disk representation of one hit object.
// A missing ID is tolerated on read (hand-written files) and assigned fresh.
type Object struct {
	ID    string `toml:"id,omitempty"`
	Lane  int    `toml:"lane"`
	Start int64  `toml:"start"` // milliseconds
	Kind  string `toml:"kind"`
	Hold  int64  `toml:"hold,omitempty"` // milliseconds
}

// FromChart converts a live chart to its file representation.
// Objects are sorted by start time for deterministic output.
func FromChart(c *Chart) File {
	objects := c.Objects()
	out := File{
		Title:   c.Title,
		Artist:  c.Artist,
		Audio:   c.Audio,
		BPM:     c.BPM,
		Lanes:   c.Lanes,
		Objects: make([]Object, len(objects)),
	}
	for i, o := range objects {
		out.Objects[i] = Object{
			ID:    o.ID.String(),
			Lane:  o.Lane,
			Start: o.Start.Milliseconds(),
			Kind:  o.Kind.String(),
			Hold:  o.Hold.Milliseconds(),
		}
	}
	return out
}

// ToChart converts a file representation to a live chart and validates it.
func ToChart(f File) (*Chart, error) {
	c := New(f.Title, f.BPM, f.Lanes)
	c.Artist = f.Artist
	c.Audio = f.Audio

	for i, fo := range f.Objects {
		o := &HitObject{
			Start: time.Duration(fo.Start) * time.Millisecond,
			Lane:  fo.Lane,
			Hold:  time.Duration(fo.Hold) * time.Millisecond,
		}

		kind, err := parseKind(fo.Kind)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		o.Kind = kind

		if fo.ID == "" {
			o.ID = uuid.New()
		} else {
			id, err := uuid.Parse(fo.ID)
			if err != nil {
				return nil, fmt.Errorf("object %d: parse id: %w", i, err)
			}
			o.ID = id
		}

		if err := c.Add(o); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeChartTo(c *Chart, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(FromChart(c)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readChartFrom(r io.Reader) (*Chart, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToChart(f)
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "tap", "":
		return KindTap, nil
	case "hold":
		return KindHold, nil
	default:
		return KindTap, fmt.Errorf("unknown object kind %q", s)
	}
}
