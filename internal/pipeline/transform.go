package pipeline

import (
	"context"

	"github.com/couchcryptid/floodwatch/internal/assess"
	"github.com/couchcryptid/floodwatch/internal/domain"
)

// Assessor scores one request.
type Assessor interface {
	Assess(ctx context.Context, req domain.AssessmentRequest, source string) (domain.Assessment, error)
}

// RiskTransformer implements Transformer: it parses an assessment request,
// scores it, and serializes the result for the sink topic.
type RiskTransformer struct {
	assessor Assessor
}

// NewTransformer creates a RiskTransformer.
func NewTransformer(assessor Assessor) *RiskTransformer {
	return &RiskTransformer{assessor: assessor}
}

func (t *RiskTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseAssessmentRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	a, err := t.assessor.Assess(ctx, req, assess.SourceKafka)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	return domain.SerializeAssessment(a)
}
