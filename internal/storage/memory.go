package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryEngine implements KV with a mutex-guarded map.
// Contents are lost on Close.
type MemoryEngine struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryEngine creates an empty in-memory store.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{data: make(map[string][]byte)}
}

// Get retrieves a copy of the value stored under key.
func (m *MemoryEngine) Get(_ context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return cloneBytes(v), nil
}

// Set stores a copy of value under key.
func (m *MemoryEngine) Set(_ context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.data[string(key)] = cloneBytes(value)
	return nil
}

// Delete removes key.
func (m *MemoryEngine) Delete(_ context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.data, string(key))
	return nil
}

// Scan visits keys with the given prefix in lexical order.
func (m *MemoryEngine) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	p := string(prefix)
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = cloneBytes(m.data[k])
	}
	m.mu.RUnlock()

	// Callbacks run without the lock so fn may call back into the store.
	for i, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn([]byte(k), values[i]) {
			break
		}
	}
	return nil
}

// Stats reports the key count and the summed key and value sizes.
func (m *MemoryEngine) Stats(_ context.Context) (*KVStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	var size uint64
	for k, v := range m.data {
		size += uint64(len(k) + len(v))
	}
	return &KVStats{TotalKeys: uint64(len(m.data)), TotalSize: size}, nil
}

// Close drops all data. Later calls return ErrClosed.
func (m *MemoryEngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
