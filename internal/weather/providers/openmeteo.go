package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/skycast/internal/weather"
)

const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

const (
	hourlyFields = "temperature_2m,relative_humidity_2m,windspeed_10m"
	dailyFields  = "temperature_2m_max,temperature_2m_min,precipitation_sum,weathercode"
)

// OpenMeteoProvider implements weather.ForecastSource for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(httpCfg HTTPClientConfig, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newCircuit("openmeteo", httpCfg.CircuitBreaker),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type currentWeatherPayload struct {
	Temperature *float64        `json:"temperature"`
	WindSpeed   *float64        `json:"windspeed"`
	Time        string          `json:"time"`
	WeatherCode json.RawMessage `json:"weathercode"`
}

type hourlyPayload struct {
	Time               []string   `json:"time"`
	Temperature2m      []*float64 `json:"temperature_2m"`
	RelativeHumidity2m []*float64 `json:"relative_humidity_2m"`
	WindSpeed10m       []*float64 `json:"windspeed_10m"`
}

type dailyPayload struct {
	Time             []string   `json:"time"`
	Temperature2mMax []*float64 `json:"temperature_2m_max"`
	Temperature2mMin []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
	WeatherCode      []*float64 `json:"weathercode"`
}

type forecastPayload struct {
	Timezone         string                 `json:"timezone"`
	TimezoneAbbr     string                 `json:"timezone_abbreviation"`
	UTCOffsetSeconds int                    `json:"utc_offset_seconds"`
	CurrentWeather   *currentWeatherPayload `json:"current_weather"`
	Hourly           *hourlyPayload         `json:"hourly"`
	Daily            *dailyPayload          `json:"daily"`
}

// Forecast fetches current conditions plus hourly and daily series in Celsius and km/h.
func (p *OpenMeteoProvider) Forecast(ctx context.Context, lat, lon float64) (weather.Forecast, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("current_weather", "true")
	values.Set("temperature_unit", "celsius")
	values.Set("windspeed_unit", "kmh")
	values.Set("hourly", hourlyFields)
	values.Set("daily", dailyFields)
	values.Set("timezone", "auto")

	var payload forecastPayload
	if err := getJSON(ctx, p.httpCfg, p.circuit, "forecast", p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.Forecast{}, err
	}
	return normalizeForecast(payload)
}

// normalizeForecast validates the payload shape and converts it to the internal model.
// A missing current_weather block is not an error here; the fetcher maps it to ErrNoData.
func normalizeForecast(payload forecastPayload) (weather.Forecast, error) {
	loc := time.UTC
	if payload.UTCOffsetSeconds != 0 {
		loc = time.FixedZone(payload.TimezoneAbbr, payload.UTCOffsetSeconds)
	}

	fc := weather.Forecast{Timezone: payload.Timezone}

	if cw := payload.CurrentWeather; cw != nil {
		if cw.Temperature == nil || cw.WindSpeed == nil {
			return weather.Forecast{}, fmt.Errorf("%w: current_weather lacks temperature or windspeed", weather.ErrInvalidResponse)
		}
		observed, err := parseLocalTime(cw.Time, loc)
		if err != nil {
			return weather.Forecast{}, fmt.Errorf("%w: current_weather time: %v", weather.ErrInvalidResponse, err)
		}
		fc.Current = &weather.Current{
			TemperatureC: *cw.Temperature,
			WindKmh:      *cw.WindSpeed,
			ObservedAt:   observed,
			WeatherCode:  numericCode(cw.WeatherCode),
		}
	}

	if h := payload.Hourly; h != nil {
		fc.Hourly = make([]weather.HourlySample, 0, len(h.Time))
		for i, raw := range h.Time {
			ts, err := parseLocalTime(raw, loc)
			if err != nil {
				return weather.Forecast{}, fmt.Errorf("%w: hourly time %q: %v", weather.ErrInvalidResponse, raw, err)
			}
			fc.Hourly = append(fc.Hourly, weather.HourlySample{
				Time:         ts,
				TemperatureC: at(h.Temperature2m, i),
				HumidityPct:  at(h.RelativeHumidity2m, i),
				WindKmh:      at(h.WindSpeed10m, i),
			})
		}
	}

	if d := payload.Daily; d != nil {
		fc.Daily = make([]weather.DailySample, 0, len(d.Time))
		for i, date := range d.Time {
			fc.Daily = append(fc.Daily, weather.DailySample{
				Date:            date,
				MaxC:            at(d.Temperature2mMax, i),
				MinC:            at(d.Temperature2mMin, i),
				PrecipitationMm: at(d.PrecipitationSum, i),
				WeatherCode:     intAt(d.WeatherCode, i),
			})
		}
	}

	return fc, nil
}

// parseLocalTime accepts the provider's zone-less "2006-01-02T15:04" form and RFC 3339.
func parseLocalTime(raw string, loc *time.Location) (time.Time, error) {
	if ts, err := time.ParseInLocation("2006-01-02T15:04", raw, loc); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) || values[i] == nil {
		return nil
	}
	v := *values[i]
	return &v
}

func intAt(values []*float64, i int) *int {
	v := at(values, i)
	if v == nil {
		return nil
	}
	code := int(*v)
	return &code
}

// numericCode returns nil for absent or non-numeric weather codes.
func numericCode(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	code := int(v)
	return &code
}
