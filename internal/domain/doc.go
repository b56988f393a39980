// Package domain models flood risk scoring over Open-Meteo weather and river
// discharge data.
//
// # Data Sources
//
// Hourly weather comes from the Open-Meteo forecast API, requested with
// past_days=7 and forecast_days=7 so one response covers the week behind and
// the week ahead of the current hour. Daily river discharge comes from the
// Open-Meteo flood API (GloFAS), which returns data only where a modelled
// river reach is near the location. Many locations have no gauge; that is a
// normal outcome, represented by a nil *FloodSeries.
//
// # Open-Meteo Conventions
//
// Timestamps:
//
//	With timezone=auto, hourly times are local wall-clock strings without an
//	offset, e.g. "2024-05-01T13:00". The offset is carried separately in
//	utc_offset_seconds and applied when parsing. Daily flood dates are
//	"YYYY-MM-DD".
//
// Missing values:
//
//	Any sample may be null. Missing precipitation, probability, and soil
//	moisture read as 0. Missing river discharge stays nil, because zero
//	discharge is a different state from an unreported one.
//
// Units:
//
//	precipitation                 mm per hour
//	precipitation_probability     percent, 0–100
//	soil_moisture_0_to_1cm        m³/m³ (volumetric fraction, ~0.0–0.5)
//	soil_moisture_1_to_3cm        m³/m³
//	river_discharge(_median)      m³/s
//
// # Scoring
//
// The score is a sum of named contributions followed by two ordered
// adjustments:
//
//	soil saturation      (saturation / 0.45) × 25, uncapped
//	rain history         min(past 7d, 100) × 0.1
//	immediate threat     min(next 24h × 2, 100) × 0.45
//	extended threat      min(next 72h, 100) × 0.2
//	weekly accumulation  +5 when next 7d > 100 mm
//	river anomaly        +10 / +20 / +30 for discharge > 1.3× / 2× / 4× median
//	intensity            +10 when any hour in the next 72h exceeds 10 mm
//
//	dry-weather floor    next 24h < 5 mm and anomaly ≥ 20 → at least 60
//	low-confidence       max probability (72h) < 30, next 24h > 0, anomaly 0 → × 0.6
//
// The floor is applied before the dampener. The result is rounded and
// clamped to 0–100, then banded: ≤25 Low, ≤50 Moderate, ≤75 High, else
// Critical.
//
// # River Date Matching
//
// Today's discharge row is found by UTC date prefix. When no row matches, the
// first row is used unless Options.StrictRiverDate is set. The fallback can
// pick a stale day when the series does not start near today; see
// [Options].
package domain
