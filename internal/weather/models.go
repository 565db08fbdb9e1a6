package weather

import (
	"strings"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionNone         Condition = ""
	ConditionClear        Condition = "clear"
	ConditionMostlyClear  Condition = "mostly clear"
	ConditionFog          Condition = "fog"
	ConditionRain         Condition = "rain"
	ConditionThunderstorm Condition = "thunderstorm"
)

// PlaceQuery is a parsed free-text search such as "Durban" or "Durban,ZA".
type PlaceQuery struct {
	Name        string
	CountryCode string
}

// ParseQuery trims the raw input and splits an optional trailing country code.
// Only the last comma is treated as a separator, and only when what follows it
// looks like an ISO 3166-1 alpha-2 code.
func ParseQuery(raw string) (PlaceQuery, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return PlaceQuery{}, ErrEmptyQuery
	}

	if i := strings.LastIndex(text, ","); i > 0 {
		name := strings.TrimSpace(text[:i])
		code := strings.TrimSpace(text[i+1:])
		if name != "" && isCountryCode(code) {
			return PlaceQuery{Name: name, CountryCode: strings.ToUpper(code)}, nil
		}
	}
	return PlaceQuery{Name: text}, nil
}

func (q PlaceQuery) String() string {
	if q.CountryCode == "" {
		return q.Name
	}
	return q.Name + "," + q.CountryCode
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Place is a geocoded location. It lives for a single lookup.
type Place struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Current is the single most-recent observation reported by the forecast collaborator.
type Current struct {
	TemperatureC float64   `json:"temperatureC"`
	WindKmh      float64   `json:"windKmh"`
	HumidityPct  *float64  `json:"humidityPct"`
	ObservedAt   time.Time `json:"observedAt"`
	WeatherCode  *int      `json:"weatherCode"`
}

// HourlySample is one entry of the hourly series. Missing provider values stay nil.
type HourlySample struct {
	Time         time.Time `json:"time"`
	TemperatureC *float64  `json:"temperatureC"`
	HumidityPct  *float64  `json:"humidityPct"`
	WindKmh      *float64  `json:"windKmh"`
}

// DailySample is one entry of the daily series.
type DailySample struct {
	Date            string   `json:"date"`
	MaxC            *float64 `json:"maxC"`
	MinC            *float64 `json:"minC"`
	PrecipitationMm *float64 `json:"precipitationMm"`
	WeatherCode     *int     `json:"weatherCode"`
}

// Forecast is the normalized collaborator response. It is rebuilt on every lookup.
// Current is nil when the collaborator returned no current-conditions block.
type Forecast struct {
	Current  *Current       `json:"current"`
	Hourly   []HourlySample `json:"hourly"`
	Daily    []DailySample  `json:"daily"`
	Timezone string         `json:"timezone,omitempty"`
}

// HourlyTimes returns the timestamps of the hourly series.
func (f Forecast) HourlyTimes() []time.Time {
	out := make([]time.Time, len(f.Hourly))
	for i, h := range f.Hourly {
		out[i] = h.Time
	}
	return out
}

// HourlyHumidity returns the humidity series parallel to HourlyTimes.
func (f Forecast) HourlyHumidity() []*float64 {
	out := make([]*float64, len(f.Hourly))
	for i, h := range f.Hourly {
		out[i] = h.HumidityPct
	}
	return out
}

// HistoryEntry is a persisted record of a past successful lookup.
// Temperatures are always stored in Celsius.
type HistoryEntry struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	TempC       int       `json:"tempC"`
	WindKmh     *int      `json:"windKmh,omitempty"`
	HumidityPct *float64  `json:"humidityPct"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// SameKey reports whether two entries share the (city, country) identity.
// Comparison is exact and case-sensitive.
func (e HistoryEntry) SameKey(other HistoryEntry) bool {
	return e.City == other.City && e.Country == other.Country
}
