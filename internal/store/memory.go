package store

import (
	"sync"
)

// MemorySlot is a concurrency-safe in-process Slot. Nothing survives a restart.
type MemorySlot struct {
	mu     sync.RWMutex
	data   []byte
	writes int
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Read() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemorySlot) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.writes++
	return nil
}

func (s *MemorySlot) Erase() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = nil
	s.writes++
	return nil
}

// Writes counts Write and Erase calls.
func (s *MemorySlot) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
