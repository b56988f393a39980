package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ResolveLocation turns a request into a location. Coordinates are used
// as-is; otherwise the city is forward geocoded.
func ResolveLocation(ctx context.Context, req AssessmentRequest, geocoder Geocoder, logger *slog.Logger) (Location, error) {
	if err := ValidateRequest(req); err != nil {
		return Location{}, err
	}

	if req.HasCoordinates() {
		return Location{
			Name:      strings.TrimSpace(req.City),
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
			Country:   strings.TrimSpace(req.Country),
		}, nil
	}

	if geocoder == nil {
		return Location{}, fmt.Errorf("%w: no geocoder for city %q", ErrInvalidRequest, req.City)
	}

	loc, err := geocoder.Geocode(ctx, req.City, req.Country, req.Language)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"request_id", req.ID,
			"city", req.City,
			"country", req.Country,
			"error", err,
		)
		return Location{}, fmt.Errorf("geocode %q: %w", req.City, err)
	}
	return loc, nil
}

// ValidateRequest checks that req names a place with in-range coordinates
// or a non-blank city.
func ValidateRequest(req AssessmentRequest) error {
	if req.Latitude != nil || req.Longitude != nil {
		if !req.HasCoordinates() {
			return fmt.Errorf("%w: latitude and longitude must be set together", ErrInvalidRequest)
		}
		if !inRange(*req.Latitude, 90) || !inRange(*req.Longitude, 180) {
			return fmt.Errorf("%w: coordinates out of range", ErrInvalidRequest)
		}
		return nil
	}
	if strings.TrimSpace(req.City) == "" {
		return fmt.Errorf("%w: city or coordinates required", ErrInvalidRequest)
	}
	return nil
}

// inRange reports whether v is a number within [-limit, limit]. NaN is not.
func inRange(v, limit float64) bool {
	return v >= -limit && v <= limit
}
