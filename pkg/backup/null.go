package backup

import "context"

// NullStore is a no-op store that never persists anything.
// Useful for testing or when autosave is disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Save does nothing.
func (s *NullStore) Save(ctx context.Context, name string, data []byte) error {
	return nil
}

// Load always returns a miss.
func (s *NullStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	return nil, false, nil
}

// List always returns an empty listing.
func (s *NullStore) List(ctx context.Context) ([]Snapshot, error) {
	return nil, nil
}

// Prune does nothing.
func (s *NullStore) Prune(ctx context.Context, keep int) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
