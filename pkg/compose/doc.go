// Package compose implements the selection and placement layer of the
// playfield editor: interactive blueprints over hit objects, rubber-band
// rectangle selection, and the lifecycle of placement tools.
//
// # Overview
//
// The editor never manipulates hit objects directly from raw input. Instead,
// a [Container] maintains one [Blueprint] per on-screen hit object drawable
// and arbitrates pointer input between three interaction modes: dragging a
// blueprint (moving the selection), sweeping a [DragBox] (rectangle
// selection), and driving a [Placement] (creating a new object with the
// active [Tool]).
//
// The container stays in sync with the live chart by subscribing to its
// object added/removed notifications: a blueprint appears when an added
// object's drawable is resolvable and disappears when the object is removed.
// Blueprints and realized objects are kept in strict 1:1 correspondence.
//
// # Collaborators
//
// The host editor supplies two delegates. A [Composer] owns the drawable
// collection, constructs blueprints, and answers whether the cursor is in
// the placement area. A [SelectionHandler] owns domain policy: what a
// selection request with modifiers means, whether a requested move is legal,
// and how selection affordances are refreshed. The container routes events
// between blueprints and the handler but never mutates hit objects itself.
//
// # Input Priority
//
// Blueprints are kept in a deterministic hit-test order: selected blueprints
// first, then later-starting objects before earlier ones, with insertion
// order breaking exact ties. Paint order is the exact reverse, so whatever
// is checked first for input is also drawn on top.
//
// # Concurrency
//
// The package follows the editor's cooperative single-goroutine model: all
// calls happen on the UI goroutine in response to input events or the
// per-frame tick. Nothing here is safe for concurrent use.
package compose
