package domain

import (
	"strings"
	"time"
)

// River anomaly tiers, by ratio of current discharge to the historical median.
const (
	ratioCritical     = 4.0
	ratioElevated     = 2.0
	ratioSlightlyHigh = 1.3

	anomalyCritical     = 30
	anomalyElevated     = 20
	anomalySlightlyHigh = 10
)

// RiverReading is today's discharge relative to its historical median.
// Current and Median stay nil when unknown; zero discharge is a real reading.
type RiverReading struct {
	Current      *float64
	Median       *float64
	Ratio        float64
	AnomalyScore int
}

// analyzeRiver locates today's row in the flood series and scores its
// anomaly. Without a date match it falls back to the first row unless strict
// is set, in which case the reading is empty.
func analyzeRiver(f *FloodSeries, now time.Time, strict bool) RiverReading {
	if f == nil || f.Discharge == nil {
		return RiverReading{}
	}

	idx := todayIndex(f.Dates, now)
	if idx < 0 {
		if strict {
			return RiverReading{}
		}
		idx = 0
	}

	current := pointerAt(f.Discharge, idx)
	if current == nil {
		return RiverReading{}
	}

	reading := RiverReading{Current: copyFloat(current)}
	median := pointerAt(f.DischargeMedian, idx)
	if median == nil || *median <= 0 {
		return reading
	}

	reading.Median = copyFloat(median)
	reading.Ratio = *current / *median
	reading.AnomalyScore = anomalyScore(reading.Ratio)
	return reading
}

// anomalyScore maps a discharge ratio to its score tier.
func anomalyScore(ratio float64) int {
	switch {
	case ratio > ratioCritical:
		return anomalyCritical
	case ratio > ratioElevated:
		return anomalyElevated
	case ratio > ratioSlightlyHigh:
		return anomalySlightlyHigh
	default:
		return 0
	}
}

// todayIndex returns the first date with now's UTC calendar date as prefix, or -1.
func todayIndex(dates []string, now time.Time) int {
	today := now.UTC().Format(time.DateOnly)
	for i, d := range dates {
		if strings.HasPrefix(d, today) {
			return i
		}
	}
	return -1
}

func pointerAt(xs []*float64, i int) *float64 {
	if i < 0 || i >= len(xs) {
		return nil
	}
	return xs[i]
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
