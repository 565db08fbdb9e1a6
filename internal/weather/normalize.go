package weather

import "time"

// CurrentView is the display-ready current observation (Celsius, rounded).
type CurrentView struct {
	TempC       int       `json:"tempC"`
	WindKmh     int       `json:"windKmh"`
	HumidityPct *float64  `json:"humidityPct"`
	ObservedAt  time.Time `json:"observedAt"`
}

// HourlyView is one rounded hourly sample.
type HourlyView struct {
	Time        time.Time `json:"time"`
	TempC       *int      `json:"tempC"`
	HumidityPct *int      `json:"humidityPct"`
	WindKmh     *int      `json:"windKmh"`
}

// DailyView is one rounded daily sample. Precipitation keeps provider precision.
type DailyView struct {
	Date            string   `json:"date"`
	MaxC            *int     `json:"maxC"`
	MinC            *int     `json:"minC"`
	PrecipitationMm *float64 `json:"precipitationMm"`
	WeatherCode     *int     `json:"weatherCode"`
}

// Report is the normalized result of one successful lookup.
type Report struct {
	Place     Place        `json:"place"`
	Current   CurrentView  `json:"current"`
	Hourly    []HourlyView `json:"hourly"`
	Daily     []DailyView  `json:"daily"`
	Condition Condition    `json:"condition"`
}

// Normalize derives the display report from a fetched forecast: humidity for the
// observation time, rounded values and the condition category. fc.Current must be set.
func Normalize(place Place, fc Forecast) Report {
	cur := fc.Current
	report := Report{
		Place: place,
		Current: CurrentView{
			TempC:       Round(cur.TemperatureC),
			WindKmh:     Round(cur.WindKmh),
			HumidityPct: cur.HumidityPct,
			ObservedAt:  cur.ObservedAt,
		},
		Hourly:    make([]HourlyView, 0, len(fc.Hourly)),
		Daily:     make([]DailyView, 0, len(fc.Daily)),
		Condition: ClassifyForecast(fc),
	}

	if report.Current.HumidityPct == nil {
		report.Current.HumidityPct = ResolveHumidity(fc.HourlyTimes(), fc.HourlyHumidity(), cur.ObservedAt)
	}

	for _, h := range fc.Hourly {
		report.Hourly = append(report.Hourly, HourlyView{
			Time:        h.Time,
			TempC:       RoundPtr(h.TemperatureC),
			HumidityPct: RoundPtr(h.HumidityPct),
			WindKmh:     RoundPtr(h.WindKmh),
		})
	}

	for _, d := range fc.Daily {
		report.Daily = append(report.Daily, DailyView{
			Date:            d.Date,
			MaxC:            RoundPtr(d.MaxC),
			MinC:            RoundPtr(d.MinC),
			PrecipitationMm: d.PrecipitationMm,
			WeatherCode:     d.WeatherCode,
		})
	}

	return report
}

// HistoryEntry builds the entry recorded for this report.
func (r Report) HistoryEntry(now time.Time) HistoryEntry {
	wind := r.Current.WindKmh
	return HistoryEntry{
		City:        r.Place.Name,
		Country:     r.Place.Country,
		TempC:       r.Current.TempC,
		WindKmh:     &wind,
		HumidityPct: r.Current.HumidityPct,
		RecordedAt:  now.UTC(),
	}
}
