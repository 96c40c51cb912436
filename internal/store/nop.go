package store

import "github.com/dgallez/jobhawk/internal/model"

// NopStore is a no-op status store for dry runs: nothing is persisted and
// every job comes back as NEW.
type NopStore struct{}

// NewNopStore returns a store that discards all writes.
func NewNopStore() *NopStore {
	return &NopStore{}
}

func (s *NopStore) Load() (map[string]model.Status, error) {
	return map[string]model.Status{}, nil
}

func (s *NopStore) Save(string, model.Status) error {
	return nil
}
