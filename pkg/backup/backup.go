// Package backup stores autosave snapshots of charts so that editing
// sessions can be recovered after a crash or an accidental quit.
package backup

import (
	"context"
	"time"
)

// Store persists named chart snapshots.
type Store interface {
	// Save stores a snapshot under the given name, overwriting any
	// previous snapshot with the same name.
	Save(ctx context.Context, name string, data []byte) error

	// Load retrieves a snapshot by name.
	// Returns (data, true, nil) on a hit and (nil, false, nil) when no
	// snapshot with that name exists.
	Load(ctx context.Context, name string) ([]byte, bool, error)

	// List returns all snapshots, newest first.
	List(ctx context.Context) ([]Snapshot, error)

	// Prune removes all but the keep most recent snapshots.
	Prune(ctx context.Context, keep int) error

	// Close releases any resources held by the store.
	Close() error
}

// Snapshot describes a stored snapshot without its payload.
type Snapshot struct {
	Name    string
	SavedAt time.Time
	Size    int
}
