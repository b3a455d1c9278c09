package compose

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

// blueprintList is the container's ordered blueprint collection.
//
// The slice is kept in hit-test order at all times; paint order is its
// reverse. An ID index backs removal and enforces the 1:1 correspondence
// between blueprints and hit objects at insertion time.
type blueprintList struct {
	nextSeq uint64
	ordered []*Blueprint
	byID    map[uuid.UUID]*Blueprint
}

func newBlueprintList() *blueprintList {
	return &blueprintList{byID: make(map[uuid.UUID]*Blueprint)}
}

// compareBlueprints establishes the hit-test order:
//
//  1. selected blueprints before unselected ones, so the current selection
//     wins input priority and paints on top;
//  2. within a tier, later-starting objects first;
//  3. exact start-time ties broken by insertion sequence, newest first.
//
// The sequence is unique per blueprint, so the order is total: the result
// is never 0 for distinct blueprints.
func compareBlueprints(a, b *Blueprint) int {
	if a.selected != b.selected {
		if a.selected {
			return -1
		}
		return 1
	}
	if sa, sb := a.HitObject().Start, b.HitObject().Start; sa != sb {
		if sa > sb {
			return -1
		}
		return 1
	}
	switch {
	case a.seq > b.seq:
		return -1
	case a.seq < b.seq:
		return 1
	default:
		return 0
	}
}

// insert adds a blueprint and places it in order. Panics if a blueprint for
// the same hit object is already present: membership is driven by chart
// notifications, which fire exactly once per object.
func (l *blueprintList) insert(bp *Blueprint) {
	id := bp.HitObject().ID
	if _, exists := l.byID[id]; exists {
		panic(fmt.Sprintf("compose: duplicate blueprint for hit object %s", id))
	}
	l.nextSeq++
	bp.seq = l.nextSeq
	l.byID[id] = bp
	l.ordered = append(l.ordered, bp)
	l.resort()
}

// remove deletes a blueprint. No-op if it is not in the collection.
func (l *blueprintList) remove(bp *Blueprint) {
	id := bp.HitObject().ID
	if l.byID[id] != bp {
		return
	}
	delete(l.byID, id)
	if i := slices.Index(l.ordered, bp); i >= 0 {
		l.ordered = slices.Delete(l.ordered, i, i+1)
	}
}

// findByObject returns the blueprint whose drawable wraps obj (by identity),
// or nil if there is none. More than one match means the 1:1 correspondence
// between blueprints and hit objects is broken, which is a programming
// error, not a recoverable condition: it panics.
func (l *blueprintList) findByObject(obj *chart.HitObject) *Blueprint {
	var found *Blueprint
	for _, bp := range l.ordered {
		if bp.HitObject() != obj {
			continue
		}
		if found != nil {
			panic(fmt.Sprintf("compose: multiple blueprints for hit object %s, want at most one", obj.ID))
		}
		found = bp
	}
	return found
}

// resort re-establishes hit-test order. Called after any selection change,
// since the selected tier is the primary sort key.
func (l *blueprintList) resort() {
	slices.SortStableFunc(l.ordered, compareBlueprints)
}

// hitTestOrder returns a snapshot of the collection in input priority order.
func (l *blueprintList) hitTestOrder() []*Blueprint {
	return slices.Clone(l.ordered)
}

// paintOrder returns a snapshot in draw order: the reverse of hitTestOrder,
// so the first blueprint checked for input is the last one painted.
func (l *blueprintList) paintOrder() []*Blueprint {
	out := make([]*Blueprint, len(l.ordered))
	for i, bp := range l.ordered {
		out[len(out)-1-i] = bp
	}
	return out
}

func (l *blueprintList) len() int { return len(l.ordered) }
