package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/skycast/internal/weather"
)

const (
	DefaultGeocodingURL        = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultReverseGeocodingURL = "https://geocoding-api.open-meteo.com/v1/reverse"
)

// OpenMeteoGeocoder implements weather.Geocoder for the Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	name       string
	searchURL  string
	reverseURL string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(httpCfg HTTPClientConfig, searchURL, reverseURL string) *OpenMeteoGeocoder {
	if searchURL == "" {
		searchURL = DefaultGeocodingURL
	}
	if reverseURL == "" {
		reverseURL = DefaultReverseGeocodingURL
	}
	return &OpenMeteoGeocoder{
		name:       "openmeteo-geocoding",
		searchURL:  searchURL,
		reverseURL: reverseURL,
		httpCfg:    httpCfg,
		circuit:    newCircuit("openmeteo-geocoding", httpCfg.CircuitBreaker),
	}
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

type geocodeResult struct {
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	CountryCode string   `json:"country_code"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

// Search requests exactly one match for the query.
func (g *OpenMeteoGeocoder) Search(ctx context.Context, q weather.PlaceQuery) (weather.Place, error) {
	values := url.Values{}
	values.Set("name", q.Name)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")
	if q.CountryCode != "" {
		values.Set("countryCode", q.CountryCode)
	}

	var payload geocodeResponse
	if err := getJSON(ctx, g.httpCfg, g.circuit, "geocode search", g.searchURL+"?"+values.Encode(), &payload); err != nil {
		return weather.Place{}, err
	}
	return firstPlace(payload)
}

// Reverse requests the place nearest to the coordinates.
func (g *OpenMeteoGeocoder) Reverse(ctx context.Context, lat, lon float64) (weather.Place, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("language", "en")
	values.Set("format", "json")

	var payload geocodeResponse
	if err := getJSON(ctx, g.httpCfg, g.circuit, "geocode reverse", g.reverseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.Place{}, err
	}
	return firstPlace(payload)
}

func firstPlace(payload geocodeResponse) (weather.Place, error) {
	if len(payload.Results) == 0 {
		return weather.Place{}, weather.ErrNotFound
	}

	r := payload.Results[0]
	if r.Name == "" || r.Latitude == nil || r.Longitude == nil {
		return weather.Place{}, fmt.Errorf("%w: geocoding result lacks name or coordinates", weather.ErrInvalidResponse)
	}

	country := r.Country
	if country == "" {
		country = r.CountryCode
	}
	return weather.Place{
		Name:      r.Name,
		Country:   country,
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
	}, nil
}
