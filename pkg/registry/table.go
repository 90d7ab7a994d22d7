package registry

import (
	"sort"
	"sync"

	"github.com/arthur-debert/asprules/pkg/errors"
)

// Table is a thread-safe index of items by extension key. A later Put for a
// key replaces the earlier item, which is what gives the host registry its
// last-registered-wins resolution.
type Table[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewTable creates an empty Table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{items: make(map[string]T)}
}

// Put stores item under key, replacing any previous item.
func (t *Table[T]) Put(key string, item T) error {
	if key == "" {
		return errors.New(errors.ErrInvalidInput, "extension key cannot be empty")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.items[key] = item
	return nil
}

// Get returns the item stored under key.
func (t *Table[T]) Get(key string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	item, ok := t.items[key]
	return item, ok
}

// Keys returns every key, sorted.
func (t *Table[T]) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.items))
	for key := range t.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clear drops every item.
func (t *Table[T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = make(map[string]T)
}
