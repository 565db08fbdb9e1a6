package weather

import (
	"context"
	"sync"
	"time"
)

type fakeGeocoder struct {
	mu           sync.Mutex
	places       map[string]Place
	reversePlace *Place
	reverseErr   error
	searchErr    error
	searches     []PlaceQuery
	reverses     int
}

func (g *fakeGeocoder) Name() string { return "fake-geocoder" }

func (g *fakeGeocoder) Search(_ context.Context, q PlaceQuery) (Place, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.searches = append(g.searches, q)
	if g.searchErr != nil {
		return Place{}, g.searchErr
	}
	p, ok := g.places[q.Name]
	if !ok {
		return Place{}, ErrNotFound
	}
	return p, nil
}

func (g *fakeGeocoder) Reverse(_ context.Context, lat, lon float64) (Place, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reverses++
	if g.reverseErr != nil {
		return Place{}, g.reverseErr
	}
	if g.reversePlace == nil {
		return Place{}, ErrNotFound
	}
	p := *g.reversePlace
	p.Latitude, p.Longitude = lat, lon
	return p, nil
}

func (g *fakeGeocoder) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.searches) + g.reverses
}

type fakeSource struct {
	mu       sync.Mutex
	forecast Forecast
	err      error
	requests [][2]float64
}

func (s *fakeSource) Name() string { return "fake-forecast" }

func (s *fakeSource) Forecast(_ context.Context, lat, lon float64) (Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, [2]float64{lat, lon})
	if s.err != nil {
		return Forecast{}, s.err
	}
	return s.forecast, nil
}

func (s *fakeSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// fakeHistory is a minimal in-memory HistoryStore with the same insert rule as the real one.
type fakeHistory struct {
	mu        sync.Mutex
	entries   []HistoryEntry
	recordErr error
}

func (h *fakeHistory) Record(entry HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.recordErr != nil {
		return h.recordErr
	}
	out := []HistoryEntry{entry}
	for _, e := range h.entries {
		if !e.SameKey(entry) && len(out) < 10 {
			out = append(out, e)
		}
	}
	h.entries = out
	return nil
}

func (h *fakeHistory) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *fakeHistory) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	return nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
	size     int
}

func (m *fakeMetrics) ObserveLookup(trigger, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, trigger+":"+outcome)
}

func (m *fakeMetrics) SetHistorySize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.size = n
}

func ptr[T any](v T) *T { return &v }

var testObserved = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// durbanForecast returns a forecast whose current block reports 22.4°C.
func durbanForecast() Forecast {
	return Forecast{
		Current: &Current{
			TemperatureC: 22.4,
			WindKmh:      14.2,
			ObservedAt:   testObserved,
			WeatherCode:  ptr(0),
		},
		Hourly: []HourlySample{
			{Time: testObserved.Add(-time.Hour), TemperatureC: ptr(21.0), HumidityPct: ptr(50.0), WindKmh: ptr(10.0)},
			{Time: testObserved, TemperatureC: ptr(22.4), HumidityPct: ptr(55.0), WindKmh: ptr(14.2)},
			{Time: testObserved.Add(time.Hour), TemperatureC: ptr(23.0), HumidityPct: ptr(60.0), WindKmh: ptr(12.0)},
		},
		Daily: []DailySample{
			{Date: "2024-05-01", MaxC: ptr(24.6), MinC: ptr(15.2), PrecipitationMm: ptr(0.4), WeatherCode: ptr(61)},
		},
	}
}
