package domain

import (
	"context"
	"errors"
)

var (
	// ErrLocationNotFound is returned when geocoding yields no candidates.
	ErrLocationNotFound = errors.New("location not found")

	// ErrInvalidRequest is returned for requests naming neither a city nor
	// a coordinate pair, or carrying out-of-range coordinates.
	ErrInvalidRequest = errors.New("invalid assessment request")
)

// Geocoder resolves a city, optionally qualified by country, to a location.
type Geocoder interface {
	Geocode(ctx context.Context, city, country, lang string) (Location, error)
}

// LocationSearcher lists candidate locations for a free-text query.
type LocationSearcher interface {
	Search(ctx context.Context, query, lang string) ([]Location, error)
}

// WeatherProvider supplies the hourly series around the current instant,
// nominally seven days back and seven days ahead.
type WeatherProvider interface {
	FetchWeather(ctx context.Context, lat, lon float64) (WeatherSeries, error)
}

// FloodProvider supplies the daily discharge series of the nearest gauge.
// A nil series with a nil error means no gauge covers the location.
type FloodProvider interface {
	FetchFlood(ctx context.Context, lat, lon float64) (*FloodSeries, error)
}
