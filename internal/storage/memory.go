package storage

import "sync"

// Memory keeps blobs in a map. Nothing survives the process.
type Memory struct {
	mu     sync.Mutex
	data   map[string]string
	closed bool
}

// NewMemory creates an empty in-memory adapter
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, wrap("get", key, ErrClosed)
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return wrap("set", key, ErrClosed)
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
