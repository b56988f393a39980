package domain

import (
	"math"
	"time"
)

// Window sizes in hourly samples.
const (
	hoursPerDay          = 24
	pastWindowHours      = 7 * hoursPerDay
	shortForecastHours   = hoursPerDay
	mediumForecastHours  = 3 * hoursPerDay
	weeklyForecastHours  = 7 * hoursPerDay
	probabilityWindowLen = mediumForecastHours
)

// Signals are the measurements the score is composed from, all derived from
// one pivot in the hourly series plus the river reading for today.
type Signals struct {
	RecentPrecipTotal  float64
	Forecast24h        float64
	Forecast72h        float64
	Forecast7d         float64
	MaxHourlyIntensity float64 // mm, next 72h
	MaxPrecipProb72h   float64
	SoilSaturation     float64
	River              RiverReading
}

// findPivot returns the index of the first sample at or after now. When every
// sample is in the past it returns the last index; an empty series yields 0.
func findPivot(times []time.Time, now time.Time) int {
	for i, t := range times {
		if !t.IsZero() && !t.Before(now) {
			return i
		}
	}
	if len(times) > 0 {
		return len(times) - 1
	}
	return 0
}

// extractWeatherSignals computes precipitation totals, peaks, and soil
// saturation around pivot. River fields are left zero.
func extractWeatherSignals(w WeatherSeries, pivot int) Signals {
	next72h := window(w.Precipitation, pivot, pivot+mediumForecastHours)

	return Signals{
		RecentPrecipTotal:  sum(window(w.Precipitation, pivot-pastWindowHours, pivot)),
		Forecast24h:        sum(window(w.Precipitation, pivot, pivot+shortForecastHours)),
		Forecast72h:        sum(next72h),
		Forecast7d:         sum(window(w.Precipitation, pivot, pivot+weeklyForecastHours)),
		MaxHourlyIntensity: maxOf(next72h),
		MaxPrecipProb72h:   maxOf(window(w.PrecipitationProbability, pivot, pivot+probabilityWindowLen)),
		SoilSaturation:     soilSaturationAt(w, pivot),
	}
}

// soilSaturationAt averages the two soil layers at pivot, clamped to the
// last sample of the top layer. A series without a top layer reads as dry.
func soilSaturationAt(w WeatherSeries, pivot int) float64 {
	idx := min(pivot, len(w.SoilMoistureTop)-1)
	if idx < 0 {
		return 0
	}
	return finite(valueAt(w.SoilMoistureTop, idx)/2 + valueAt(w.SoilMoistureShallow, idx)/2)
}

// window returns xs[from:to] clamped to the slice bounds.
func window(xs []float64, from, to int) []float64 {
	from = max(from, 0)
	to = min(to, len(xs))
	if from >= to {
		return nil
	}
	return xs[from:to]
}

func valueAt(xs []float64, i int) float64 {
	if i < 0 || i >= len(xs) {
		return 0
	}
	return xs[i]
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return finite(total)
}

// finite maps overflowed sums to the largest float of the same sign and NaN
// to 0, keeping every signal JSON-encodable.
func finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

// maxOf returns the largest element, or 0 for an empty slice.
func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
