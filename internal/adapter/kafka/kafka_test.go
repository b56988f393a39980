package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/floodwatch/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"city":"Recife"}`),
		Topic:     "flood-assessment-requests",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("mobile")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"city":"Recife"}`, string(raw.Value))
	assert.Equal(t, "flood-assessment-requests", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "mobile", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestToMessage(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out, err := domain.SerializeAssessment(domain.Assessment{
		ID:         "req-1",
		Location:   domain.Location{Name: "Recife", Latitude: -8.05, Longitude: -34.9},
		Analysis:   domain.RiskAnalysis{Score: 63, Level: domain.LevelHigh},
		AssessedAt: now,
	})
	require.NoError(t, err)

	msg := toMessage(out)

	assert.Equal(t, []byte("req-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"level":"High"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "assessed_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[0].Value)
	assert.Equal(t, "risk_level", msg.Headers[1].Key)
	assert.Equal(t, []byte("High"), msg.Headers[1].Value)
}

func TestToMessage_NoHeaders(t *testing.T) {
	msg := toMessage(domain.OutputEvent{Key: []byte("k"), Value: []byte("{}")})

	assert.Empty(t, msg.Headers)
	assert.Equal(t, []byte("{}"), msg.Value)
}
