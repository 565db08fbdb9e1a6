package weather

import (
	"context"
	"errors"
	"time"
)

// ErrNoPosition is returned by a Locator that has no fix to offer.
var ErrNoPosition = errors.New("position unavailable")

// Locator acquires the device position.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// StaticLocator reports a fixed, configured position.
type StaticLocator struct {
	Latitude  *float64
	Longitude *float64
}

func (l StaticLocator) Locate(ctx context.Context) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if l.Latitude == nil || l.Longitude == nil {
		return 0, 0, ErrNoPosition
	}
	return *l.Latitude, *l.Longitude, nil
}

// AutoLocate acquires a position within timeout and, when one is available,
// runs the geolocation lookup for it. It reports whether a lookup completed;
// acquisition failures and lookup failures are both swallowed.
func (s *Service) AutoLocate(ctx context.Context, locator Locator, timeout time.Duration) bool {
	locCtx, cancel := context.WithTimeout(ctx, timeout)
	lat, lon, err := locator.Locate(locCtx)
	cancel()
	if err != nil {
		s.logger.Debug().Err(err).Msg("geolocation skipped")
		return false
	}

	_, err = s.LookupCoordinates(ctx, lat, lon)
	return err == nil
}
