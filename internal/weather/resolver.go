package weather

import (
	"context"
	"fmt"
)

// Connectivity reports whether the network is believed to be reachable.
type Connectivity interface {
	Online() bool
}

// GeoResolver turns place text or coordinates into a Place.
// It never retries and refuses to call out while offline.
type GeoResolver struct {
	geocoder Geocoder
	conn     Connectivity
}

func NewGeoResolver(geocoder Geocoder, conn Connectivity) *GeoResolver {
	return &GeoResolver{geocoder: geocoder, conn: conn}
}

// Resolve geocodes free text such as "Durban" or "Durban,ZA".
func (r *GeoResolver) Resolve(ctx context.Context, text string) (Place, error) {
	q, err := ParseQuery(text)
	if err != nil {
		return Place{}, err
	}
	if !r.conn.Online() {
		return Place{}, ErrOffline
	}

	place, err := r.geocoder.Search(ctx, q)
	if err != nil {
		return Place{}, fmt.Errorf("resolve %q via %s: %w", q.String(), r.geocoder.Name(), err)
	}
	return place, nil
}

// ReverseResolve names the place nearest to the coordinates. It is best-effort:
// callers on the geolocation path drop the lookup on failure.
func (r *GeoResolver) ReverseResolve(ctx context.Context, lat, lon float64) (Place, error) {
	if !r.conn.Online() {
		return Place{}, ErrOffline
	}

	place, err := r.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		return Place{}, fmt.Errorf("reverse %.4f,%.4f via %s: %w", lat, lon, r.geocoder.Name(), err)
	}
	return place, nil
}
