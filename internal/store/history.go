package store

import (
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/i474232898/skycast/internal/weather"
)

// DefaultHistoryLimit is the number of lookups kept.
const DefaultHistoryLimit = 10

// Slot is a single named persisted value. Read returns nil data when nothing
// has been written.
type Slot interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Erase() error
}

// History is the bounded, deduplicated, most-recent-first lookup history.
// Every Record and Clear rewrites the whole persisted sequence.
type History struct {
	mu      sync.Mutex
	slot    Slot
	limit   int
	entries []weather.HistoryEntry
	logger  zerolog.Logger
}

// NewHistory creates a History over slot and loads what it holds.
// If limit is <= 0, DefaultHistoryLimit is used.
func NewHistory(slot Slot, limit int, logger zerolog.Logger) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	h := &History{
		slot:   slot,
		limit:  limit,
		logger: logger.With().Str("component", "history").Logger(),
	}
	h.Load()
	return h
}

// Load reads the persisted sequence into memory and returns a copy of it.
// Missing or unparsable data yields an empty history.
func (h *History) Load() []weather.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil
	data, err := h.slot.Read()
	if err != nil {
		h.logger.Warn().Err(err).Msg("history slot unreadable; starting empty")
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var entries []weather.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		h.logger.Warn().Err(err).Msg("history slot corrupt; starting empty")
		return nil
	}
	if len(entries) > h.limit {
		entries = entries[:h.limit]
	}
	h.entries = entries
	return h.copyEntries()
}

// Record removes any entry sharing the (city, country) key, prepends entry,
// truncates to the limit and persists the result.
func (h *History) Record(entry weather.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = insert(h.entries, entry, h.limit)
	return h.persist()
}

// Entries returns a copy of the in-memory history.
func (h *History) Entries() []weather.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.copyEntries()
}

// Clear empties both the persisted slot and the in-memory copy.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.slot.Erase(); err != nil {
		return err
	}
	h.entries = nil
	return nil
}

func (h *History) persist() error {
	data, err := json.Marshal(h.entries)
	if err != nil {
		return err
	}
	return h.slot.Write(data)
}

func (h *History) copyEntries() []weather.HistoryEntry {
	out := make([]weather.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// insert returns a new sequence with entry first, no other entry sharing its
// key, and at most limit elements.
func insert(entries []weather.HistoryEntry, entry weather.HistoryEntry, limit int) []weather.HistoryEntry {
	out := make([]weather.HistoryEntry, 0, limit)
	out = append(out, entry)
	for _, e := range entries {
		if len(out) == limit {
			break
		}
		if e.SameKey(entry) {
			continue
		}
		out = append(out, e)
	}
	return out
}
