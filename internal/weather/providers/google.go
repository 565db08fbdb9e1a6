package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/skycast/internal/common"
	"github.com/i474232898/skycast/internal/weather"
)

var errNoAPIKey = errors.New("google geocoder api key is not configured")

// GoogleGeocoder implements weather.Geocoder on top of the Google Geocoding API.
// The underlying client is package-global and not context aware, so the context
// is only checked before each call.
type GoogleGeocoder struct {
	name   string
	apiKey string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		name:   "google-geocoding",
		apiKey: apiKey,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

// Search geocodes the name, then reverse geocodes the hit to obtain canonical
// city and country names.
func (g *GoogleGeocoder) Search(ctx context.Context, q weather.PlaceQuery) (weather.Place, error) {
	if g.apiKey == "" {
		return weather.Place{}, &weather.TransportError{Op: "geocode search", Err: errNoAPIKey}
	}
	if err := ctx.Err(); err != nil {
		return weather.Place{}, &weather.TransportError{Op: "geocode search", Err: err}
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: q.Name, Country: q.CountryCode})
	if err != nil {
		return weather.Place{}, classifyGoogleError("geocode search", err)
	}

	place := weather.Place{
		Name:      q.Name,
		Country:   q.CountryCode,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}
	if named, err := g.Reverse(ctx, loc.Latitude, loc.Longitude); err == nil {
		place.Name = named.Name
		place.Country = named.Country
	}
	return place, nil
}

func (g *GoogleGeocoder) Reverse(ctx context.Context, lat, lon float64) (weather.Place, error) {
	if g.apiKey == "" {
		return weather.Place{}, &weather.TransportError{Op: "geocode reverse", Err: errNoAPIKey}
	}
	if err := ctx.Err(); err != nil {
		return weather.Place{}, &weather.TransportError{Op: "geocode reverse", Err: err}
	}

	addresses, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		return weather.Place{}, classifyGoogleError("geocode reverse", err)
	}
	for _, a := range addresses {
		if a.City == "" {
			continue
		}
		return weather.Place{Name: a.City, Country: a.Country, Latitude: lat, Longitude: lon}, nil
	}
	return weather.Place{}, weather.ErrNotFound
}

// classifyGoogleError maps the client's status-string errors onto the domain taxonomy.
func classifyGoogleError(op string, err error) error {
	if common.HasAny(err.Error(), "ZERO_RESULTS", "Empty results", "no results") {
		return fmt.Errorf("%s: %w", op, weather.ErrNotFound)
	}
	return &weather.TransportError{Op: op, Err: err}
}
