package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/floodwatch/internal/locale"
	"github.com/google/uuid"
)

// ParseAssessmentRequest deserializes a RawEvent's value into a request.
// A request without an ID takes the message key, or a fresh UUID when the
// message is unkeyed.
func ParseAssessmentRequest(raw RawEvent) (AssessmentRequest, error) {
	var req AssessmentRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return AssessmentRequest{}, fmt.Errorf("parse assessment request: %w", err)
	}

	req.City = strings.TrimSpace(req.City)
	req.Country = strings.TrimSpace(req.Country)
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	if err := ValidateRequest(req); err != nil {
		return AssessmentRequest{}, err
	}
	return req, nil
}

// AssessmentInput is everything needed to build an Assessment.
type AssessmentInput struct {
	ID       string
	Location Location
	Weather  WeatherSeries
	Flood    *FloodSeries
	Language string
	Options  Options
	Now      time.Time
}

// NewAssessment scores in and attaches the precipitation timeline. A zero
// Now is replaced by the package clock; an empty ID by a fresh UUID.
func NewAssessment(in AssessmentInput) Assessment {
	now := in.Now
	if now.IsZero() {
		now = clock.Now()
	}
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	return Assessment{
		ID:            id,
		Location:      in.Location,
		Analysis:      in.Options.Analyze(in.Weather, in.Flood, locale.Parse(in.Language), now),
		Timeline:      BuildTimeline(in.Weather, now),
		HasRiverGauge: in.Flood != nil,
		AssessedAt:    now.UTC(),
	}
}

// SerializeAssessment marshals an assessment into an OutputEvent keyed by
// its ID.
func SerializeAssessment(a Assessment) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return OutputEvent{
		Key:   []byte(a.ID),
		Value: data,
		Headers: map[string]string{
			"risk_level":  string(a.Analysis.Level),
			"assessed_at": a.AssessedAt.Format(time.RFC3339),
		},
	}, nil
}
