// Package scenario builds synthetic Open-Meteo responses for well-known
// weather situations. The payloads have the same shape as the live APIs, so
// they flow through the same parsing path as real data.
package scenario

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/couchcryptid/floodwatch/internal/domain"
)

// Scenario names.
const (
	Stable          = "stable"
	Storm           = "storm"
	Saturated       = "saturated"
	DryWeatherFlood = "dry-weather-flood"
	LowConfidence   = "low-confidence"
)

const (
	pastHours   = 7 * 24
	futureHours = 7 * 24
	pastDays    = 3
	futureDays  = 7
)

// hourly describes one hour of synthetic weather at offset h from now
// (negative is history).
type hourly func(h int) (precip, prob, soil float64)

type definition struct {
	weather hourly
	// discharge and median for every day; a zero median means no gauge.
	discharge, median float64
}

var definitions = map[string]definition{
	Stable: {
		weather:   func(int) (float64, float64, float64) { return 0, 10, 0.2 },
		discharge: 100, median: 100,
	},
	Storm: {
		weather: func(h int) (float64, float64, float64) {
			switch {
			case h < 0:
				return 1, 90, 0.45
			case h == 0:
				return 15.2, 90, 0.45
			case h < 24:
				return 2.5, 90, 0.45
			default:
				return 1, 90, 0.45
			}
		},
	},
	Saturated: {
		weather: func(h int) (float64, float64, float64) {
			switch {
			case h < -120:
				return 0, 60, 0.48
			case h < 24:
				return 0.5, 60, 0.48
			default:
				return 0, 60, 0.48
			}
		},
	},
	DryWeatherFlood: {
		weather:   func(int) (float64, float64, float64) { return 0, 5, 0.25 },
		discharge: 500, median: 100,
	},
	LowConfidence: {
		weather: func(h int) (float64, float64, float64) {
			if h >= 0 && h < 8 {
				return 0.5, 20, 0.2
			}
			return 0, 20, 0.2
		},
	},
}

// Names lists the available scenarios in a stable order.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Raw returns the forecast and flood payloads for name, centred on now's
// hour. The flood payload is nil for scenarios without a river gauge.
func Raw(name string, now time.Time) (domain.RawWeather, *domain.RawFlood, error) {
	def, ok := definitions[name]
	if !ok {
		return domain.RawWeather{}, nil, fmt.Errorf("unknown scenario %q", name)
	}

	pivot := now.UTC().Truncate(time.Hour)
	if pivot.Before(now) {
		pivot = pivot.Add(time.Hour)
	}

	n := pastHours + futureHours
	raw := domain.RawWeather{
		Timezone: "GMT",
		Hourly: domain.RawHourly{
			Time:                     make([]string, n),
			Precipitation:            make([]*float64, n),
			PrecipitationProbability: make([]*float64, n),
			SoilMoisture0To1cm:       make([]*float64, n),
			SoilMoisture1To3cm:       make([]*float64, n),
		},
	}
	for i := range n {
		h := i - pastHours
		precip, prob, soil := def.weather(h)
		raw.Hourly.Time[i] = pivot.Add(time.Duration(h) * time.Hour).Format("2006-01-02T15:04")
		raw.Hourly.Precipitation[i] = &precip
		raw.Hourly.PrecipitationProbability[i] = &prob
		raw.Hourly.SoilMoisture0To1cm[i] = &soil
		raw.Hourly.SoilMoisture1To3cm[i] = &soil
	}

	if def.median == 0 {
		return raw, nil, nil
	}

	days := pastDays + futureDays
	flood := &domain.RawFlood{
		Daily: domain.RawDaily{
			Time:                 make([]string, days),
			RiverDischarge:       make([]*float64, days),
			RiverDischargeMedian: make([]*float64, days),
		},
	}
	today := now.UTC()
	for i := range days {
		discharge, median := def.discharge, def.median
		flood.Daily.Time[i] = today.AddDate(0, 0, i-pastDays).Format(time.DateOnly)
		flood.Daily.RiverDischarge[i] = &discharge
		flood.Daily.RiverDischargeMedian[i] = &median
	}
	return raw, flood, nil
}

// Build returns the parsed series for name at now.
func Build(name string, now time.Time) (domain.WeatherSeries, *domain.FloodSeries, error) {
	raw, flood, err := Raw(name, now)
	if err != nil {
		return domain.WeatherSeries{}, nil, err
	}
	var series *domain.FloodSeries
	if flood != nil {
		series = domain.NewFloodSeries(*flood)
	}
	return domain.NewWeatherSeries(raw), series, nil
}

// Provider serves one scenario as both weather and flood data, whatever the
// coordinates. It stands in for the Open-Meteo client in offline runs.
type Provider struct {
	Name string
	Now  func() time.Time
}

// FetchWeather implements domain.WeatherProvider.
func (p Provider) FetchWeather(_ context.Context, _, _ float64) (domain.WeatherSeries, error) {
	w, _, err := Build(p.Name, p.now())
	return w, err
}

// FetchFlood implements domain.FloodProvider.
func (p Provider) FetchFlood(_ context.Context, _, _ float64) (*domain.FloodSeries, error) {
	_, f, err := Build(p.Name, p.now())
	return f, err
}

func (p Provider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return domain.Now()
}
