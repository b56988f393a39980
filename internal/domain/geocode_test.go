package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	loc   Location
	err   error
	calls int
}

func (s *stubGeocoder) Geocode(_ context.Context, _, _, _ string) (Location, error) {
	s.calls++
	return s.loc, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func isInvalid(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

func TestResolveLocation_Coordinates(t *testing.T) {
	geo := &stubGeocoder{}
	req := AssessmentRequest{City: " Recife ", Latitude: ptr(-8.05), Longitude: ptr(-34.9)}

	loc, err := ResolveLocation(context.Background(), req, geo, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, Location{Name: "Recife", Latitude: -8.05, Longitude: -34.9}, loc)
	assert.Zero(t, geo.calls, "coordinates skip geocoding")
}

func TestResolveLocation_Geocodes(t *testing.T) {
	want := Location{ID: 3451190, Name: "Rio de Janeiro", Latitude: -22.9, Longitude: -43.2, Country: "Brazil"}
	geo := &stubGeocoder{loc: want}

	loc, err := ResolveLocation(context.Background(), AssessmentRequest{City: "Rio de Janeiro"}, geo, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, want, loc)
	assert.Equal(t, 1, geo.calls)
}

func TestResolveLocation_GeocodeError(t *testing.T) {
	geo := &stubGeocoder{err: ErrLocationNotFound}

	_, err := ResolveLocation(context.Background(), AssessmentRequest{City: "Atlantis"}, geo, discardLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestResolveLocation_NoGeocoder(t *testing.T) {
	_, err := ResolveLocation(context.Background(), AssessmentRequest{City: "Lisbon"}, nil, discardLogger())
	assert.True(t, isInvalid(err))
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name  string
		req   AssessmentRequest
		valid bool
	}{
		{"city", AssessmentRequest{City: "Lima"}, true},
		{"coordinates", AssessmentRequest{Latitude: ptr(0), Longitude: ptr(0)}, true},
		{"boundary coordinates", AssessmentRequest{Latitude: ptr(-90), Longitude: ptr(180)}, true},
		{"nothing", AssessmentRequest{}, false},
		{"longitude only", AssessmentRequest{City: "Lima", Longitude: ptr(1)}, false},
		{"latitude too high", AssessmentRequest{Latitude: ptr(90.5), Longitude: ptr(0)}, false},
		{"latitude NaN", AssessmentRequest{Latitude: ptr(math.NaN()), Longitude: ptr(0)}, false},
		{"longitude NaN", AssessmentRequest{Latitude: ptr(0), Longitude: ptr(math.NaN())}, false},
		{"latitude infinite", AssessmentRequest{Latitude: ptr(math.Inf(1)), Longitude: ptr(0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, isInvalid(err), "got %v", err)
		})
	}
}
