package weather

import "fmt"

// hourlyDisplayLimit is how many hourly samples the hourly view shows.
const hourlyDisplayLimit = 16

// ForecastRow is one rendered row of the hourly or daily view.
type ForecastRow struct {
	Label         string `json:"label"`
	Temperature   string `json:"temperature,omitempty"`
	Max           string `json:"max,omitempty"`
	Min           string `json:"min,omitempty"`
	Humidity      string `json:"humidity,omitempty"`
	Precipitation string `json:"precipitation,omitempty"`
}

// Display is the render model for a report in the selected unit and view.
type Display struct {
	Title       string        `json:"title"`
	Temperature string        `json:"temperature"`
	Humidity    string        `json:"humidity"`
	Wind        string        `json:"wind"`
	Icon        string        `json:"icon"`
	View        View          `json:"view"`
	Rows        []ForecastRow `json:"rows"`
}

// Render formats a report for display. Values stay Celsius internally and are
// converted here only.
func Render(r Report, unit Unit, view View, icons bool) Display {
	temp := r.Current.TempC
	d := Display{
		Title:       placeTitle(r.Place.Name, r.Place.Country),
		Temperature: FormatTemperature(&temp, unit),
		Humidity:    formatPercent(r.Current.HumidityPct),
		Wind:        fmt.Sprintf("%d km/h", r.Current.WindKmh),
		Icon:        defaultIcon,
		View:        view,
	}
	if icons {
		d.Icon = r.Condition.Icon()
	}

	if view == ViewHourly {
		for i, h := range r.Hourly {
			if i == hourlyDisplayLimit {
				break
			}
			d.Rows = append(d.Rows, ForecastRow{
				Label:       h.Time.Format("15:04"),
				Temperature: FormatTemperature(h.TempC, unit),
				Humidity:    formatIntPercent(h.HumidityPct),
			})
		}
		return d
	}

	for _, day := range r.Daily {
		d.Rows = append(d.Rows, ForecastRow{
			Label:         day.Date,
			Max:           FormatTemperature(day.MaxC, unit),
			Min:           FormatTemperature(day.MinC, unit),
			Precipitation: formatMillimetres(day.PrecipitationMm),
		})
	}
	return d
}

// FormatHistoryEntry renders a saved location line, e.g. "Durban, ZA - 22°C".
func FormatHistoryEntry(e HistoryEntry, unit Unit) string {
	temp := e.TempC
	return placeTitle(e.City, e.Country) + " - " + FormatTemperature(&temp, unit)
}

func placeTitle(name, country string) string {
	if country == "" {
		return name
	}
	return name + ", " + country
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", Round(*v))
}

func formatIntPercent(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *v)
}

func formatMillimetres(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
