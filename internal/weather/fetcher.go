package weather

import (
	"context"
	"fmt"
)

// ForecastFetcher retrieves current, hourly and daily data for coordinates.
type ForecastFetcher struct {
	source ForecastSource
	conn   Connectivity
}

func NewForecastFetcher(source ForecastSource, conn Connectivity) *ForecastFetcher {
	return &ForecastFetcher{source: source, conn: conn}
}

// Fetch fails with ErrOffline before calling out while offline, and with
// ErrNoData when the response carries no current conditions.
func (f *ForecastFetcher) Fetch(ctx context.Context, lat, lon float64) (Forecast, error) {
	if !f.conn.Online() {
		return Forecast{}, ErrOffline
	}

	fc, err := f.source.Forecast(ctx, lat, lon)
	if err != nil {
		return Forecast{}, fmt.Errorf("forecast %.4f,%.4f via %s: %w", lat, lon, f.source.Name(), err)
	}
	if fc.Current == nil {
		return Forecast{}, ErrNoData
	}
	return fc, nil
}
