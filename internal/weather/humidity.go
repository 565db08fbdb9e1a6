package weather

import "time"

// ResolveHumidity picks the humidity sample matching target from an hourly series.
// An exact timestamp match wins; otherwise the sample closest in time is used, with
// the lowest index winning ties. It returns nil when either series is empty, and
// never extrapolates beyond the series values.
func ResolveHumidity(times []time.Time, humidity []*float64, target time.Time) *float64 {
	if len(times) == 0 || len(humidity) == 0 {
		return nil
	}

	for i, t := range times {
		if t.Equal(target) {
			return sampleAt(humidity, i)
		}
	}

	best := 0
	var bestDiff time.Duration = -1
	for i, t := range times {
		diff := t.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return sampleAt(humidity, best)
}

func sampleAt(values []*float64, i int) *float64 {
	if i >= len(values) || values[i] == nil {
		return nil
	}
	v := *values[i]
	return &v
}
