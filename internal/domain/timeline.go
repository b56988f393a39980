package domain

import "time"

const (
	timelinePastHours   = 48
	timelineFutureHours = weeklyForecastHours
)

// TimelinePoint is one hour of the precipitation chart.
type TimelinePoint struct {
	Time          time.Time `json:"time"`
	Precipitation float64   `json:"precipitation"`
	IsForecast    bool      `json:"is_forecast"`
}

// BuildTimeline returns hourly precipitation from two days before the current
// hour to seven days after it, flagging forecast hours. The current hour is
// located the same way as for scoring.
func BuildTimeline(w WeatherSeries, now time.Time) []TimelinePoint {
	if len(w.Times) == 0 {
		return []TimelinePoint{}
	}

	pivot := findPivot(w.Times, now)
	start := max(0, pivot-timelinePastHours)
	end := min(len(w.Times), pivot+timelineFutureHours)

	points := make([]TimelinePoint, 0, end-start)
	for i := start; i < end; i++ {
		points = append(points, TimelinePoint{
			Time:          w.Times[i],
			Precipitation: valueAt(w.Precipitation, i),
			IsForecast:    i >= pivot,
		})
	}
	return points
}
