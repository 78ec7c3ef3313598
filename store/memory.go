package store

import (
	"context"
	"sync"

	"github.com/raushankrgupta/stylemate-backend/models"
)

// MemoryWardrobe is an in-process Wardrobe used by tests and local runs
// without a database.
type MemoryWardrobe struct {
	mu      sync.Mutex
	entries []models.WardrobeEntry
}

// NewMemoryWardrobe creates an empty in-memory wardrobe.
func NewMemoryWardrobe() *MemoryWardrobe {
	return &MemoryWardrobe{}
}

// Append adds one entry.
func (s *MemoryWardrobe) Append(_ context.Context, entry models.WardrobeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// FetchAll returns a copy of every entry in insertion order.
func (s *MemoryWardrobe) FetchAll(_ context.Context) ([]models.WardrobeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WardrobeEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
