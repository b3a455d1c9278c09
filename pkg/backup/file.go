package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileStore implements a file-based snapshot store.
// Snapshots are stored as individual files in a directory with metadata
// (original name, save time).
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in the given directory.
// The directory will be created if it doesn't exist. Snapshots hold
// unfinished user work, so the directory and its files are private to
// the current user.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// snapshotEntry wraps snapshot data with metadata.
type snapshotEntry struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Data    []byte    `json:"data"`
}

// Save stores a snapshot under the given name.
func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	entry := snapshotEntry{
		Name:    name,
		SavedAt: time.Now(),
		Data:    data,
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path(name), entryData, 0600)
}

// Load retrieves a snapshot by name.
func (s *FileStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	path := s.path(name)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry snapshotEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Invalid snapshot file - treat as miss
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// List returns all snapshots in the directory, newest first.
// Files that cannot be parsed are skipped.
func (s *FileStore) List(ctx context.Context) ([]Snapshot, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var snaps []Snapshot
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			continue
		}
		var entry snapshotEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{
			Name:    entry.Name,
			SavedAt: entry.SavedAt,
			Size:    len(entry.Data),
		})
	}

	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].SavedAt.Equal(snaps[j].SavedAt) {
			return snaps[i].SavedAt.After(snaps[j].SavedAt)
		}
		return snaps[i].Name < snaps[j].Name
	})
	return snaps, nil
}

// Prune removes all but the keep most recent snapshots.
// A keep value of zero or less removes every snapshot.
func (s *FileStore) Prune(ctx context.Context, keep int) error {
	snaps, err := s.List(ctx)
	if err != nil {
		return err
	}
	if keep < 0 {
		keep = 0
	}
	for _, snap := range snaps[min(keep, len(snaps)):] {
		if err := os.Remove(s.path(snap.Name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Close does nothing for file stores.
func (s *FileStore) Close() error {
	return nil
}

// path converts a snapshot name to a file path.
// The name is sanitized for readability and suffixed with a short hash
// so that distinct names never collide after sanitization.
func (s *FileStore) path(name string) string {
	sum := sha256.Sum256([]byte(name))
	filename := sanitize(name) + "-" + hex.EncodeToString(sum[:])[:8] + ".json"
	return filepath.Join(s.dir, filename)
}

// sanitize replaces filesystem-hostile characters so snapshot files stay
// recognizable in a directory listing.
func sanitize(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	const maxLen = 64
	if len(mapped) > maxLen {
		mapped = mapped[:maxLen]
	}
	return mapped
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
