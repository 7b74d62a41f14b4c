// Package mutate applies classification verdicts to CRM leads.
package mutate

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/spam-triage/internal/model"
	"github.com/sells-group/spam-triage/pkg/amocrm"
)

// Config selects which mutations are applied to spam leads.
type Config struct {
	Tag        string
	StatusID   int64
	PipelineID int64
	Action     model.MutationAction
}

// Outcome records which mutations were performed for one lead.
type Outcome struct {
	Renamed       bool `json:"renamed"`
	AlreadyMarked bool `json:"alreadyMarked"`
	Tagged        bool `json:"tagged"`
	Moved         bool `json:"moved"`
	Noted         bool `json:"noted"`
}

// Orchestrator performs the ordered lead mutations for a verdict.
type Orchestrator struct {
	crm amocrm.Client
	cfg Config
	now func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the time source used for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an Orchestrator.
func New(crm amocrm.Client, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{crm: crm, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Apply mutates the lead according to v. Spam leads are renamed, tagged
// and/or moved, then noted; rename failures are logged and skipped, any
// other failure stops the sequence. Clean leads only receive a note.
func (o *Orchestrator) Apply(ctx context.Context, leadID int64, v model.Verdict) (Outcome, error) {
	log := zap.L().With(zap.Int64("lead_id", leadID), zap.String("phone", v.Phone))

	if !v.IsSpam {
		if err := o.crm.AddNote(ctx, leadID, FormatCleanNote(v, o.now())); err != nil {
			return Outcome{}, eris.Wrapf(err, "mutate: clean note for lead %d", leadID)
		}
		log.Info("mutate: clean note added")
		return Outcome{Noted: true}, nil
	}

	log.Info("mutate: handling spam lead", zap.String("action", string(o.cfg.Action)))
	var out Outcome

	renamed, marked, err := o.rename(ctx, leadID, v.Phone)
	if err != nil {
		log.Warn("mutate: rename failed, continuing", zap.Error(err))
	}
	out.Renamed, out.AlreadyMarked = renamed, marked

	if o.cfg.Action.Tags() {
		patch := amocrm.LeadPatch{Embedded: &amocrm.PatchEmbedded{Tags: []amocrm.Tag{{Name: o.cfg.Tag}}}}
		if err := o.crm.UpdateLead(ctx, leadID, patch); err != nil {
			return out, eris.Wrapf(err, "mutate: tag lead %d", leadID)
		}
		out.Tagged = true
		log.Info("mutate: tag added", zap.String("tag", o.cfg.Tag))
	}

	if o.cfg.Action.MovesStatus() {
		if o.cfg.StatusID == 0 || o.cfg.PipelineID == 0 {
			log.Info("mutate: spam status not configured, skipping move")
		} else {
			patch := amocrm.LeadPatch{StatusID: o.cfg.StatusID, PipelineID: o.cfg.PipelineID}
			if err := o.crm.UpdateLead(ctx, leadID, patch); err != nil {
				return out, eris.Wrapf(err, "mutate: move lead %d", leadID)
			}
			out.Moved = true
			log.Info("mutate: lead moved",
				zap.Int64("status_id", o.cfg.StatusID),
				zap.Int64("pipeline_id", o.cfg.PipelineID),
			)
		}
	}

	if err := o.crm.AddNote(ctx, leadID, FormatSpamNote(v, o.now())); err != nil {
		return out, eris.Wrapf(err, "mutate: spam note for lead %d", leadID)
	}
	out.Noted = true
	log.Info("mutate: spam note added")
	return out, nil
}

// rename prefixes the lead name with the spam marker unless it already has
// one. It reports (renamed, alreadyMarked, err).
func (o *Orchestrator) rename(ctx context.Context, leadID int64, digits string) (bool, bool, error) {
	lead, err := o.crm.GetLead(ctx, leadID, false)
	if err != nil {
		return false, false, eris.Wrapf(err, "mutate: read lead %d", leadID)
	}
	name, ok := SpamName(lead.Name, digits)
	if !ok {
		return false, true, nil
	}
	if err := o.crm.UpdateLead(ctx, leadID, amocrm.LeadPatch{Name: name}); err != nil {
		return false, false, eris.Wrapf(err, "mutate: rename lead %d", leadID)
	}
	return true, false, nil
}
