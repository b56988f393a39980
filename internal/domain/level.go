package domain

import "github.com/couchcryptid/floodwatch/internal/locale"

// Level is the categorical risk band derived from a score.
type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
	LevelCritical Level = "Critical"
)

// Upper score bound (inclusive) of each band below CRITICAL.
const (
	lowMax      = 25
	moderateMax = 50
	highMax     = 75
)

// LevelForScore bands a 0–100 score: ≤25 LOW, ≤50 MODERATE, ≤75 HIGH,
// otherwise CRITICAL.
func LevelForScore(score int) Level {
	switch {
	case score <= lowMax:
		return LevelLow
	case score <= moderateMax:
		return LevelModerate
	case score <= highMax:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// Levels lists the bands in ascending order of severity.
func Levels() []Level {
	return []Level{LevelLow, LevelModerate, LevelHigh, LevelCritical}
}

// band returns the recommendation table key for l.
func (l Level) band() string {
	switch l {
	case LevelModerate:
		return locale.BandModerate
	case LevelHigh:
		return locale.BandHigh
	case LevelCritical:
		return locale.BandCritical
	default:
		return locale.BandLow
	}
}

// Recommendations returns the preparedness steps for l in lang.
func (l Level) Recommendations(lang locale.Language) []string {
	return locale.Recommendations(lang, l.band())
}
