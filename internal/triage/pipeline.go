// Package triage runs the classify-then-mutate sequence for a single lead.
package triage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/spam-triage/internal/model"
	"github.com/sells-group/spam-triage/internal/mutate"
)

// Classifier produces a verdict for a raw phone value.
type Classifier interface {
	Classify(ctx context.Context, raw any) (model.Verdict, error)
}

// Mutator applies a verdict to a lead.
type Mutator interface {
	Apply(ctx context.Context, leadID int64, v model.Verdict) (mutate.Outcome, error)
}

// Result is the outcome of one pipeline run.
type Result struct {
	LeadID   int64          `json:"lead_id"`
	Verdict  model.Verdict  `json:"verdict"`
	Outcome  mutate.Outcome `json:"outcome"`
	Duration time.Duration  `json:"duration"`
}

// Pipeline classifies a lead's phone number and mutates the lead.
type Pipeline struct {
	classifier Classifier
	mutator    Mutator
}

// New creates a Pipeline.
func New(c Classifier, m Mutator) *Pipeline {
	return &Pipeline{classifier: c, mutator: m}
}

// Process classifies phone and applies the verdict to leadID. A
// classification failure leaves the lead untouched. On a mutation failure
// the verdict is still returned with the partial outcome.
func (p *Pipeline) Process(ctx context.Context, leadID int64, phone any) (Result, error) {
	start := time.Now()
	res := Result{LeadID: leadID}

	v, err := p.classifier.Classify(ctx, phone)
	if err != nil {
		res.Duration = time.Since(start)
		return res, err
	}
	res.Verdict = v

	out, err := p.mutator.Apply(ctx, leadID, v)
	res.Outcome = out
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	zap.L().Info("triage: lead processed",
		zap.Int64("lead_id", leadID),
		zap.String("phone", v.Phone),
		zap.String("status", v.Status()),
		zap.Bool("renamed", out.Renamed),
		zap.Bool("tagged", out.Tagged),
		zap.Bool("moved", out.Moved),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}
