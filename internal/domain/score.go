package domain

import (
	"math"

	"github.com/couchcryptid/floodwatch/internal/locale"
)

// Scoring weights. Soil saturation is measured against 0.45 m³/m³, roughly
// the saturation point of common soils; precipitation inputs are capped at
// 100 mm before weighting.
const (
	saturationReference = 0.45
	soilWeight          = 25.0
	precipCap           = 100.0
	rainHistoryWeight   = 0.1
	immediateWeight     = 0.45
	extendedWeight      = 0.2

	weeklyThreshold    = 100.0
	weeklyBonus        = 5.0
	intensityThreshold = 10.0
	intensityPenalty   = 10.0

	dryWeatherRainCeiling = 5.0
	dryWeatherAnomalyMin  = anomalyElevated
	dryWeatherFloor       = 60.0

	lowConfidenceProb   = 30.0
	lowConfidenceFactor = 0.6

	// Factor-only thresholds; they add text, not points.
	saturatedSoilLevel = 0.4
	heavyPastRainMM    = 50.0
	heavyNext24hMM     = 20.0
)

// Contribution names, in the order they are summed.
const (
	ContributionSoil           = "soil_saturation"
	ContributionRainHistory    = "rain_history"
	ContributionImmediate      = "immediate_threat"
	ContributionExtended       = "extended_threat"
	ContributionWeekly         = "weekly_accumulation"
	ContributionRiverAnomaly   = "river_anomaly"
	ContributionIntensityBurst = "intensity"
)

// Contribution is one named additive term of the score.
type Contribution struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// Breakdown explains how a score was reached: the additive terms, their sum,
// and which of the two order-dependent adjustments fired.
type Breakdown struct {
	Contributions   []Contribution `json:"contributions"`
	Subtotal        float64        `json:"subtotal"`
	FloorApplied    bool           `json:"floor_applied"`
	DampenerApplied bool           `json:"dampener_applied"`
	Raw             float64        `json:"raw"`
}

// contributions returns the additive terms for s in summation order.
func contributions(s Signals) []Contribution {
	var weekly, intensity float64
	if s.Forecast7d > weeklyThreshold {
		weekly = weeklyBonus
	}
	if s.MaxHourlyIntensity > intensityThreshold {
		intensity = intensityPenalty
	}

	return []Contribution{
		{Name: ContributionSoil, Points: s.SoilSaturation / saturationReference * soilWeight},
		{Name: ContributionRainHistory, Points: math.Min(s.RecentPrecipTotal, precipCap) * rainHistoryWeight},
		{Name: ContributionImmediate, Points: math.Min(s.Forecast24h*2, precipCap) * immediateWeight},
		{Name: ContributionExtended, Points: math.Min(s.Forecast72h, precipCap) * extendedWeight},
		{Name: ContributionWeekly, Points: weekly},
		{Name: ContributionRiverAnomaly, Points: float64(s.River.AnomalyScore)},
		{Name: ContributionIntensityBurst, Points: intensity},
	}
}

// composeScore sums the contributions, then applies the dry-weather flood
// floor and, after it, the low-confidence dampener. The dampener scales the
// whole running total, so the order of the two steps changes the result.
func composeScore(s Signals) Breakdown {
	b := Breakdown{Contributions: contributions(s)}
	for i := range b.Contributions {
		b.Contributions[i].Points = finite(b.Contributions[i].Points)
		b.Subtotal = finite(b.Subtotal + b.Contributions[i].Points)
	}

	raw := b.Subtotal
	if dryWeatherFlood(s) {
		b.FloorApplied = raw < dryWeatherFloor
		raw = math.Max(raw, dryWeatherFloor)
	}
	if lowConfidence(s) {
		b.DampenerApplied = true
		raw *= lowConfidenceFactor
	}
	b.Raw = raw
	return b
}

// dryWeatherFlood reports an upstream river surge under a mostly dry local
// forecast.
func dryWeatherFlood(s Signals) bool {
	return s.Forecast24h < dryWeatherRainCeiling && s.River.AnomalyScore >= dryWeatherAnomalyMin
}

// lowConfidence reports rain in the forecast that is unlikely to fall and is
// not corroborated by the river.
func lowConfidence(s Signals) bool {
	return s.MaxPrecipProb72h < lowConfidenceProb && s.Forecast24h > 0 && s.River.AnomalyScore == 0
}

// finalScore clamps to [0, 100] and rounds half away from zero. The clamp
// runs on the float so huge totals cannot overflow the int conversion.
func finalScore(raw float64) int {
	if math.IsNaN(raw) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, raw))))
}

// collectFactors lists the triggered rules in presentation order. It never
// returns an empty slice.
func collectFactors(s Signals) []locale.Factor {
	var factors []locale.Factor

	switch {
	case s.SoilSaturation > saturatedSoilLevel:
		factors = append(factors, locale.Factor{Kind: locale.FactorSaturatedSoil, Value: s.SoilSaturation})
	case s.RecentPrecipTotal > heavyPastRainMM:
		factors = append(factors, locale.Factor{Kind: locale.FactorHeavyRecentRain, Value: s.RecentPrecipTotal})
	}
	if s.Forecast24h > heavyNext24hMM {
		factors = append(factors, locale.Factor{Kind: locale.FactorHeavyRainNext24h, Value: s.Forecast24h})
	}
	if s.Forecast7d > weeklyThreshold {
		factors = append(factors, locale.Factor{Kind: locale.FactorWeeklyRain, Value: s.Forecast7d})
	}
	if s.River.AnomalyScore > 0 && s.River.Current != nil {
		factors = append(factors, locale.Factor{Kind: locale.FactorRiverAboveMedian, Value: *s.River.Current})
	}
	if s.MaxHourlyIntensity > intensityThreshold {
		factors = append(factors, locale.Factor{Kind: locale.FactorIntenseDownpour})
	}
	if dryWeatherFlood(s) {
		factors = append(factors, locale.Factor{Kind: locale.FactorDryWeatherFlood})
	}
	if lowConfidence(s) {
		factors = append(factors, locale.Factor{Kind: locale.FactorLowConfidence})
	}

	if len(factors) == 0 {
		factors = append(factors, locale.Factor{Kind: locale.FactorStable})
	}
	return factors
}
