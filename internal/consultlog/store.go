// internal/consultlog/store.go
//
// Persistence boundary for consultation entries. Backends register a
// factory under a name; config picks one at startup.

package consultlog

import (
	"fmt"
	"sort"
	"sync"
)

// Store is the append-only persistence contract. Recent returns entries
// newest-first.
type Store interface {
	Append(Entry) error
	Recent(n int) ([]Entry, error)
	Close() error
}

// Factory constructs a store rooted at the given data directory.
type Factory func(dataDir string) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register installs a backend factory. Duplicate names are a programming
// error and panic at init time.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if name == "" || factory == nil {
		panic("consultlog: name and factory are required")
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("consultlog: backend %s already registered", name))
	}
	registry[name] = factory
}

// Open constructs the named backend.
func Open(name, dataDir string) (Store, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("consultlog: unknown backend %q (have %v)", name, Backends())
	}
	return factory(dataDir)
}

// Backends returns the sorted names of registered backends.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MemoryStore keeps entries in process memory; used by tests and demo
// sessions that should not persist anything.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append records the entry.
func (s *MemoryStore) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Recent returns up to n entries, newest-first.
func (s *MemoryStore) Recent(n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.entries) == 0 {
		return nil, nil
	}
	start := len(s.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]Entry, 0, len(s.entries)-start)
	for i := len(s.entries) - 1; i >= start; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }

func init() {
	Register("memory", func(string) (Store, error) {
		return NewMemoryStore(), nil
	})
}
