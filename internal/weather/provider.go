package weather

import (
	"context"
	"time"
)

// Geocoder abstracts a geocoding collaborator (Open-Meteo, Google).
type Geocoder interface {
	Name() string
	// Search returns the single best match for the query or ErrNotFound.
	Search(ctx context.Context, q PlaceQuery) (Place, error)
	// Reverse returns the place nearest to the coordinates or ErrNotFound.
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// ForecastSource abstracts the forecast collaborator.
type ForecastSource interface {
	Name() string
	// Forecast returns the normalized response. Current is nil when the
	// collaborator sent no current-conditions block.
	Forecast(ctx context.Context, lat, lon float64) (Forecast, error)
}

// HistoryStore is the contract of the bounded, deduplicated lookup history.
type HistoryStore interface {
	Record(entry HistoryEntry) error
	Entries() []HistoryEntry
	Clear() error
}

// Metrics receives lookup observations.
type Metrics interface {
	ObserveLookup(trigger, outcome string, d time.Duration)
	SetHistorySize(n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveLookup(string, string, time.Duration) {}
func (noopMetrics) SetHistorySize(int)                          {}
