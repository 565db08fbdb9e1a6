package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrOffline is returned before any network attempt while the online flag is false.
	ErrOffline = errors.New("offline")
	// ErrNotFound is returned when the geocoder has no match for the query.
	ErrNotFound = errors.New("city not found")
	// ErrNoData is returned when the forecast response lacks current conditions.
	ErrNoData = errors.New("no weather data returned")
	// ErrEmptyQuery is returned for blank search text.
	ErrEmptyQuery = errors.New("empty place query")
	// ErrInvalidResponse is returned when a collaborator payload does not match its schema.
	ErrInvalidResponse = errors.New("invalid collaborator response")
)

// TransportError wraps a failure of the underlying network call
// (DNS, timeout, non-2xx status, open circuit).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage converts a lookup error into the single notification text shown to the user.
func UserMessage(err error) string {
	var te *TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOffline):
		return "You are offline. Only cached data available."
	case errors.Is(err, ErrNotFound):
		return "City not found"
	case errors.Is(err, ErrNoData):
		return "No weather data returned"
	case errors.Is(err, ErrEmptyQuery):
		return "Enter a city to search"
	case errors.Is(err, ErrInvalidResponse):
		return "Unexpected response from weather service"
	case errors.As(err, &te):
		return "Error fetching weather"
	default:
		return "Search failed"
	}
}
