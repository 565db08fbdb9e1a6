package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Current(t *testing.T) {
	r := Normalize(durban, durbanForecast())

	d := Render(r, Celsius, ViewDaily, true)
	assert.Equal(t, "Durban, ZA", d.Title)
	assert.Equal(t, "22°C", d.Temperature)
	assert.Equal(t, "55%", d.Humidity)
	assert.Equal(t, "14 km/h", d.Wind)
	assert.Equal(t, defaultIcon, d.Icon)

	d = Render(r, Fahrenheit, ViewDaily, true)
	assert.Equal(t, "72°F", d.Temperature)
}

func TestRender_Daily(t *testing.T) {
	r := Normalize(durban, durbanForecast())

	d := Render(r, Fahrenheit, ViewDaily, false)

	require.Len(t, d.Rows, 1)
	assert.Equal(t, ForecastRow{Label: "2024-05-01", Max: "77°F", Min: "59°F", Precipitation: "0.4"}, d.Rows[0])
}

func TestRender_HourlyIsCapped(t *testing.T) {
	fc := durbanForecast()
	fc.Hourly = nil
	for i := 0; i < 24; i++ {
		fc.Hourly = append(fc.Hourly, HourlySample{Time: testObserved.Add(time.Duration(i) * time.Hour), TemperatureC: ptr(20.0)})
	}
	r := Normalize(durban, fc)

	d := Render(r, Celsius, ViewHourly, false)

	require.Len(t, d.Rows, hourlyDisplayLimit)
	assert.Equal(t, "12:00", d.Rows[0].Label)
	assert.Equal(t, "20°C", d.Rows[0].Temperature)
	assert.Equal(t, "-", d.Rows[0].Humidity)
}

func TestRender_Icons(t *testing.T) {
	fc := durbanForecast()
	fc.Current.WeatherCode = ptr(95)
	r := Normalize(durban, fc)

	assert.Equal(t, "⛈️", Render(r, Celsius, ViewDaily, true).Icon)
	assert.Equal(t, defaultIcon, Render(r, Celsius, ViewDaily, false).Icon)
}

func TestRender_UnknownCountryAndHumidity(t *testing.T) {
	fc := durbanForecast()
	fc.Hourly = nil
	r := Normalize(Place{Name: "Your location"}, fc)

	d := Render(r, Celsius, ViewDaily, false)
	assert.Equal(t, "Your location", d.Title)
	assert.Equal(t, "-", d.Humidity)
}

func TestFormatHistoryEntry(t *testing.T) {
	e := HistoryEntry{City: "Durban", Country: "ZA", TempC: 22}
	assert.Equal(t, "Durban, ZA - 22°C", FormatHistoryEntry(e, Celsius))
	assert.Equal(t, "Durban, ZA - 72°F", FormatHistoryEntry(e, Fahrenheit))
}
