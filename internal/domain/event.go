package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// AssessmentRequest asks for the flood risk of one place. Either a city or a
// latitude/longitude pair must be set; coordinates win when both are present.
type AssessmentRequest struct {
	ID        string   `json:"id,omitempty"`
	City      string   `json:"city,omitempty"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Language  string   `json:"lang,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (r AssessmentRequest) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Location is a geocoded place.
type Location struct {
	ID        int64   `json:"id,omitempty"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country,omitempty"`
	Admin1    string  `json:"admin1,omitempty"` // region or state
	Timezone  string  `json:"timezone,omitempty"`
}

// Assessment is a scored location, the unit published to the sink topic.
type Assessment struct {
	ID            string          `json:"id"`
	Location      Location        `json:"location"`
	Analysis      RiskAnalysis    `json:"analysis"`
	Timeline      []TimelinePoint `json:"timeline"`
	HasRiverGauge bool            `json:"has_river_gauge"`
	AssessedAt    time.Time       `json:"assessed_at"`
}
