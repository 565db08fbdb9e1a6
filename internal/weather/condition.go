package weather

// Classify maps an Open-Meteo weather code to a condition category.
// Codes outside the table yield ConditionNone.
func Classify(code int) Condition {
	switch code {
	case 0:
		return ConditionClear
	case 1, 2, 3:
		return ConditionMostlyClear
	case 45, 48:
		return ConditionFog
	case 51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82:
		return ConditionRain
	case 95, 96, 99:
		return ConditionThunderstorm
	default:
		return ConditionNone
	}
}

// ClassifyForecast classifies the current weather code, falling back to the
// first daily entry when the current block carries none.
func ClassifyForecast(f Forecast) Condition {
	if f.Current != nil && f.Current.WeatherCode != nil {
		return Classify(*f.Current.WeatherCode)
	}
	if len(f.Daily) > 0 && f.Daily[0].WeatherCode != nil {
		return Classify(*f.Daily[0].WeatherCode)
	}
	return ConditionNone
}

// Phrase is the notification fragment for the condition, empty for ConditionNone.
func (c Condition) Phrase() string {
	switch c {
	case ConditionClear:
		return "Clear skies"
	case ConditionMostlyClear:
		return "Mostly clear"
	case ConditionFog:
		return "Foggy conditions, drive carefully"
	case ConditionRain:
		return "Rain expected, take an umbrella"
	case ConditionThunderstorm:
		return "Thunderstorm warning, stay indoors"
	default:
		return ""
	}
}

const defaultIcon = "☀️"

// Icon returns the display icon for the condition.
func (c Condition) Icon() string {
	switch c {
	case ConditionMostlyClear:
		return "🌤️"
	case ConditionFog:
		return "🌫️"
	case ConditionRain:
		return "🌧️"
	case ConditionThunderstorm:
		return "⛈️"
	default:
		return defaultIcon
	}
}
