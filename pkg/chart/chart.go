// Package chart defines the beatmap domain model: hit objects placed on
// lanes along a time axis, and the live Chart container that owns them.
//
// A Chart is the single source of truth during editing. Mutations go through
// Add and Remove, which fire synchronous notifications so that interested
// parties (the editor's overlay layer, autosave) can track membership changes
// without polling. Moving an existing object in time or across lanes mutates
// the object in place and fires nothing; objects keep their identity for
// their whole lifetime.
//
// Serialization to and from the on-disk TOML format lives in codec.go.
package chart

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/chartsmith/pkg/signal"
)

var (
	// ErrNilObject is returned by [Chart.Add] when the object is nil.
	ErrNilObject = errors.New("hit object must not be nil")

	// ErrInvalidObjectID is returned by [Chart.Add] when the object's ID is
	// the zero UUID. Use NewTap or NewHold to construct objects with IDs.
	ErrInvalidObjectID = errors.New("hit object ID must not be zero")

	// ErrDuplicateObjectID is returned by [Chart.Add] when an object with
	// the same ID is already present. Object IDs must be unique per chart.
	ErrDuplicateObjectID = errors.New("duplicate hit object ID")

	// ErrInvalidBPM is returned by [Chart.Validate] when BPM is zero or
	// negative.
	ErrInvalidBPM = errors.New("bpm must be positive")

	// ErrInvalidLaneCount is returned by [Chart.Validate] when the chart has
	// fewer than one lane.
	ErrInvalidLaneCount = errors.New("chart must have at least one lane")

	// ErrLaneOutOfRange is returned by [Chart.Validate] when an object's
	// lane is negative or not below the chart's lane count.
	ErrLaneOutOfRange = errors.New("lane out of range")

	// ErrNegativeStart is returned by [Chart.Validate] when an object starts
	// before the beginning of the track.
	ErrNegativeStart = errors.New("start time must not be negative")

	// ErrInvalidHold is returned by [Chart.Validate] when a hold has a
	// non-positive length or a tap carries one.
	ErrInvalidHold = errors.New("invalid hold length")
)

// Kind distinguishes the playable hit object types.
type Kind int

const (
	// KindTap is a single-instant note.
	KindTap Kind = iota
	// KindHold is a note held for a duration after its start.
	KindHold
)

// String returns the serialized name of the kind ("tap", "hold").
func (k Kind) String() string {
	switch k {
	case KindHold:
		return "hold"
	default:
		return "tap"
	}
}

// HitObject is one playable note. Identity is the ID; Start, Lane, and Hold
// are freely mutable during editing.
type HitObject struct {
	ID    uuid.UUID
	Start time.Duration // offset from the beginning of the track
	Lane  int           // 0-based lane index
	Kind  Kind
	Hold  time.Duration // hold length; zero for taps
}

// NewTap creates a tap note at the given lane and start offset.
func NewTap(lane int, start time.Duration) *HitObject {
	return &HitObject{ID: uuid.New(), Start: start, Lane: lane, Kind: KindTap}
}

// NewHold creates a hold note spanning [start, start+hold].
func NewHold(lane int, start, hold time.Duration) *HitObject {
	return &HitObject{ID: uuid.New(), Start: start, Lane: lane, Kind: KindHold, Hold: hold}
}

// End returns the time at which the object stops being active:
// Start for taps, Start+Hold for holds.
func (o *HitObject) End() time.Duration { return o.Start + o.Hold }

// Chart is the live beatmap being edited.
//
// The zero value is not usable - use New or the codec's Read functions.
// Chart is not safe for concurrent use; all access happens on the editor's
// UI goroutine.
type Chart struct {
	Title  string
	Artist string
	Audio  string // relative path to the audio file
	BPM    float64
	Lanes  int

	objects []*HitObject
	byID    map[uuid.UUID]*HitObject

	added   signal.Signal[*HitObject]
	removed signal.Signal[*HitObject]
}

// New creates an empty chart with the given metadata.
func New(title string, bpm float64, lanes int) *Chart {
	return &Chart{
		Title: title,
		BPM:   bpm,
		Lanes: lanes,
		byID:  make(map[uuid.UUID]*HitObject),
	}
}

// Add inserts a hit object and notifies ObjectAdded subscribers.
// Returns ErrNilObject, ErrInvalidObjectID, or ErrDuplicateObjectID when the
// object cannot be inserted; the chart is unchanged on error.
func (c *Chart) Add(o *HitObject) error {
	if o == nil {
		return ErrNilObject
	}
	if o.ID == uuid.Nil {
		return ErrInvalidObjectID
	}
	if _, exists := c.byID[o.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateObjectID, o.ID)
	}
	c.objects = append(c.objects, o)
	c.byID[o.ID] = o
	c.added.Emit(o)
	return nil
}

// Remove deletes the object with the given ID and notifies ObjectRemoved
// subscribers. Reports whether an object was removed; removing an unknown ID
// is a no-op.
func (c *Chart) Remove(id uuid.UUID) bool {
	o, ok := c.byID[id]
	if !ok {
		return false
	}
	delete(c.byID, id)
	for i, obj := range c.objects {
		if obj == o {
			c.objects = append(c.objects[:i], c.objects[i+1:]...)
			break
		}
	}
	c.removed.Emit(o)
	return true
}

// Get returns the object with the given ID, if present.
func (c *Chart) Get(id uuid.UUID) (*HitObject, bool) {
	o, ok := c.byID[id]
	return o, ok
}

// Objects returns a copy of the object list sorted by start time, with lane
// and then ID breaking ties. Mutating the slice does not affect the chart;
// the pointed-to objects are shared.
func (c *Chart) Objects() []*HitObject {
	out := slices.Clone(c.objects)
	slices.SortStableFunc(out, func(a, b *HitObject) int {
		if a.Start != b.Start {
			if a.Start < b.Start {
				return -1
			}
			return 1
		}
		if a.Lane != b.Lane {
			return a.Lane - b.Lane
		}
		switch {
		case a.ID.String() < b.ID.String():
			return -1
		case a.ID.String() > b.ID.String():
			return 1
		default:
			return 0
		}
	})
	return out
}

// Len returns the number of hit objects.
func (c *Chart) Len() int { return len(c.objects) }

// OnObjectAdded subscribes fn to insertion events. The notification fires
// synchronously from Add, after the object is reachable via Get and Objects.
func (c *Chart) OnObjectAdded(fn func(*HitObject)) *signal.Subscription {
	return c.added.Subscribe(fn)
}

// OnObjectRemoved subscribes fn to removal events. The notification fires
// synchronously from Remove, after the object is gone from Get and Objects.
func (c *Chart) OnObjectRemoved(fn func(*HitObject)) *signal.Subscription {
	return c.removed.Subscribe(fn)
}

// BeatLength returns the duration of one beat, or zero if BPM is not set.
func (c *Chart) BeatLength() time.Duration {
	if c.BPM <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / c.BPM)
}

// Length returns the end time of the last-ending object, or zero for an
// empty chart.
func (c *Chart) Length() time.Duration {
	var max time.Duration
	for _, o := range c.objects {
		if end := o.End(); end > max {
			max = end
		}
	}
	return max
}

// Validate checks chart-level fields and every object against the chart's
// lane count. It returns the first violation found, wrapped with the
// offending object's ID where applicable.
func (c *Chart) Validate() error {
	if c.BPM <= 0 {
		return ErrInvalidBPM
	}
	if c.Lanes < 1 {
		return ErrInvalidLaneCount
	}
	for _, o := range c.Objects() {
		if o.Lane < 0 || o.Lane >= c.Lanes {
			return fmt.Errorf("object %s: %w: lane %d of %d", o.ID, ErrLaneOutOfRange, o.Lane, c.Lanes)
		}
		if o.Start < 0 {
			return fmt.Errorf("object %s: %w", o.ID, ErrNegativeStart)
		}
		switch o.Kind {
		case KindHold:
			if o.Hold <= 0 {
				return fmt.Errorf("object %s: %w: holds need a positive length", o.ID, ErrInvalidHold)
			}
		default:
			if o.Hold != 0 {
				return fmt.Errorf("object %s: %w: taps must not carry one", o.ID, ErrInvalidHold)
			}
		}
	}
	return nil
}
