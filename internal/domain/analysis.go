package domain

import (
	"time"

	"github.com/couchcryptid/floodwatch/internal/locale"
)

// RiskAnalysis is the result of scoring one location. Numeric fields do not
// depend on the language; only Factors and Recommendations do.
type RiskAnalysis struct {
	Score                 int             `json:"score"`
	Level                 Level           `json:"level"`
	RecentPrecipTotal     float64         `json:"recent_precip_total"`
	ForecastPrecip24h     float64         `json:"forecast_precip_24h"`
	ForecastPrecip72h     float64         `json:"forecast_precip_72h"`
	ForecastPrecip7d      float64         `json:"forecast_precip_7d"`
	MaxPrecipProb         float64         `json:"max_precip_prob"`
	CurrentSoilSaturation float64         `json:"current_soil_saturation"`
	RiverDischargeCurrent *float64        `json:"river_discharge_current"`
	RiverDischargeMedian  *float64        `json:"river_discharge_median"`
	Factors               []string        `json:"factors"`
	Recommendations       []string        `json:"recommendations"`
	Language              locale.Language `json:"language"`
	Breakdown             Breakdown       `json:"breakdown"`
}

// Options tunes Analyze. The zero value is the default scoring behavior.
type Options struct {
	// StrictRiverDate drops the river reading when no flood row matches
	// today's date instead of falling back to the first row.
	StrictRiverDate bool
}

// Analyze scores flood risk at instant now. flood may be nil when no gauge
// covers the location. It is a pure function: no I/O, no shared state, and
// identical inputs always produce identical output.
func Analyze(weather WeatherSeries, flood *FloodSeries, lang locale.Language, now time.Time) RiskAnalysis {
	return Options{}.Analyze(weather, flood, lang, now)
}

// AnalyzeNow is Analyze evaluated at the package clock's current instant.
func AnalyzeNow(weather WeatherSeries, flood *FloodSeries, lang locale.Language) RiskAnalysis {
	return Options{}.Analyze(weather, flood, lang, clock.Now())
}

// Analyze scores flood risk at instant now using o.
func (o Options) Analyze(weather WeatherSeries, flood *FloodSeries, lang locale.Language, now time.Time) RiskAnalysis {
	lang = locale.Parse(string(lang))

	pivot := findPivot(weather.Times, now)
	signals := extractWeatherSignals(weather, pivot)
	signals.River = analyzeRiver(flood, now, o.StrictRiverDate)

	breakdown := composeScore(signals)
	score := finalScore(breakdown.Raw)
	level := LevelForScore(score)

	return RiskAnalysis{
		Score:                 score,
		Level:                 level,
		RecentPrecipTotal:     signals.RecentPrecipTotal,
		ForecastPrecip24h:     signals.Forecast24h,
		ForecastPrecip72h:     signals.Forecast72h,
		ForecastPrecip7d:      signals.Forecast7d,
		MaxPrecipProb:         signals.MaxPrecipProb72h,
		CurrentSoilSaturation: signals.SoilSaturation,
		RiverDischargeCurrent: signals.River.Current,
		RiverDischargeMedian:  signals.River.Median,
		Factors:               locale.RenderFactors(lang, collectFactors(signals)),
		Recommendations:       level.Recommendations(lang),
		Language:              lang,
		Breakdown:             breakdown,
	}
}
