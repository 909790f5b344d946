package kv

import "sync"

// Memory is an in-process store used by tests and demo mode. It goes
// through the same envelope encode/decode as the gorm store so tests
// exercise the real serialization path.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Get(key string, out any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.blobs[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, decode(raw, out)
}

func (m *Memory) Set(key string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.blobs, key)
	m.mu.Unlock()
	return nil
}

// SeedRaw injects a pre-encoded blob, bypassing the envelope. Tests use it
// to simulate legacy data written before schema envelopes existed.
func (m *Memory) SeedRaw(key string, raw []byte) {
	m.mu.Lock()
	m.blobs[key] = raw
	m.mu.Unlock()
}
