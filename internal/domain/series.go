package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WeatherSeries is an hourly weather time series in columnar form. Columns
// may have different lengths; every consumer slices each column on its own
// and treats an out-of-range sample as 0.
type WeatherSeries struct {
	Times                    []time.Time
	Precipitation            []float64 // mm per hour
	PrecipitationProbability []float64 // percent, 0–100
	SoilMoistureTop          []float64 // m³/m³, 0–1 cm layer
	SoilMoistureShallow      []float64 // m³/m³, 1–3 cm layer
}

// Len returns the number of timestamps in the series.
func (w WeatherSeries) Len() int { return len(w.Times) }

// FloodSeries is a daily river discharge series for the nearest gauge.
// A nil *FloodSeries means no gauge covers the location.
type FloodSeries struct {
	Dates           []string   // "YYYY-MM-DD", matched by prefix
	Discharge       []*float64 // m³/s, nil when the gauge reported nothing
	DischargeMedian []*float64 // m³/s, historical median for the calendar day
}

// RawWeather mirrors the Open-Meteo forecast response fields the scorer uses.
type RawWeather struct {
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Timezone         string    `json:"timezone,omitempty"`
	UTCOffsetSeconds int       `json:"utc_offset_seconds"`
	Hourly           RawHourly `json:"hourly"`
}

// RawHourly holds the hourly columns. Open-Meteo reports missing hours as null.
type RawHourly struct {
	Time                     []string   `json:"time"`
	Precipitation            []*float64 `json:"precipitation"`
	PrecipitationProbability []*float64 `json:"precipitation_probability"`
	SoilMoisture0To1cm       []*float64 `json:"soil_moisture_0_to_1cm"`
	SoilMoisture1To3cm       []*float64 `json:"soil_moisture_1_to_3cm"`
}

// RawFlood mirrors the Open-Meteo flood API response.
type RawFlood struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Daily     RawDaily `json:"daily"`
}

// RawDaily holds the daily discharge columns.
type RawDaily struct {
	Time                 []string   `json:"time"`
	RiverDischarge       []*float64 `json:"river_discharge"`
	RiverDischargeMedian []*float64 `json:"river_discharge_median"`
}

// timestampLayouts are tried in order. Open-Meteo with timezone=auto emits
// local wall-clock times without an offset, e.g. "2024-05-01T13:00".
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseWeather decodes an Open-Meteo forecast payload into a WeatherSeries.
func ParseWeather(data []byte) (WeatherSeries, error) {
	var raw RawWeather
	if err := json.Unmarshal(data, &raw); err != nil {
		return WeatherSeries{}, fmt.Errorf("parse weather: %w", err)
	}
	return NewWeatherSeries(raw), nil
}

// NewWeatherSeries converts the wire format into a WeatherSeries. Null
// samples become 0 and timestamps are interpreted in the response's UTC
// offset. An unparseable timestamp becomes the zero time, which never
// qualifies as the current hour.
func NewWeatherSeries(raw RawWeather) WeatherSeries {
	loc := time.UTC
	if raw.UTCOffsetSeconds != 0 {
		loc = time.FixedZone(raw.Timezone, raw.UTCOffsetSeconds)
	}

	times := make([]time.Time, len(raw.Hourly.Time))
	for i, s := range raw.Hourly.Time {
		times[i] = parseTimestamp(s, loc)
	}

	return WeatherSeries{
		Times:                    times,
		Precipitation:            valuesOrZero(raw.Hourly.Precipitation),
		PrecipitationProbability: valuesOrZero(raw.Hourly.PrecipitationProbability),
		SoilMoistureTop:          valuesOrZero(raw.Hourly.SoilMoisture0To1cm),
		SoilMoistureShallow:      valuesOrZero(raw.Hourly.SoilMoisture1To3cm),
	}
}

// ParseFlood decodes an Open-Meteo flood payload. A null payload or one
// without a discharge column yields nil: no gauge.
func ParseFlood(data []byte) (*FloodSeries, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var raw RawFlood
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse flood: %w", err)
	}
	return NewFloodSeries(raw), nil
}

// NewFloodSeries converts the wire format into a FloodSeries, or nil when the
// response carries no discharge column.
func NewFloodSeries(raw RawFlood) *FloodSeries {
	if raw.Daily.RiverDischarge == nil {
		return nil
	}
	return &FloodSeries{
		Dates:           raw.Daily.Time,
		Discharge:       raw.Daily.RiverDischarge,
		DischargeMedian: raw.Daily.RiverDischargeMedian,
	}
}

func parseTimestamp(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// valuesOrZero flattens a nullable column. Missing precipitation and zero
// precipitation are the same signal to the scorer.
func valuesOrZero(in []*float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	for i, v := range in {
		if v != nil {
			out[i] = *v
		}
	}
	return out
}
