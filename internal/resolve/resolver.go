package resolve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/spam-triage/internal/model"
	"github.com/sells-group/spam-triage/pkg/amocrm"
)

// Resolver turns raw lead entries into lead events, consulting the CRM when
// the payload has no phone number.
type Resolver struct {
	crm amocrm.Client
}

// New creates a Resolver. crm may be nil, in which case only the payload is
// searched.
func New(crm amocrm.Client) *Resolver {
	return &Resolver{crm: crm}
}

// Local resolves the lead id and searches the payload for a phone number.
// It performs no I/O.
func (r *Resolver) Local(raw model.RawLead) (model.LeadEvent, error) {
	id, err := LeadID(raw)
	if err != nil {
		return model.LeadEvent{}, err
	}
	p, src := ExtractLocal(raw)
	return model.LeadEvent{LeadID: id, Phone: p, Source: src}, nil
}

// Resolve runs Local and, when no phone was found, Fill.
func (r *Resolver) Resolve(ctx context.Context, raw model.RawLead) (model.LeadEvent, error) {
	ev, err := r.Local(raw)
	if err != nil {
		return ev, err
	}
	return r.Fill(ctx, ev), nil
}

// Fill looks up the phone of ev's first linked contact when ev has none.
// Lookup failures are logged and leave the phone empty.
func (r *Resolver) Fill(ctx context.Context, ev model.LeadEvent) model.LeadEvent {
	if ev.HasPhone() || r.crm == nil {
		return ev
	}
	log := zap.L().With(zap.Int64("lead_id", ev.LeadID))
	log.Info("resolve: phone not in payload, querying crm")

	p, err := r.Remote(ctx, ev.LeadID)
	if err != nil {
		log.Error("resolve: remote phone lookup failed", zap.Error(err))
		return ev
	}
	if p == "" {
		log.Info("resolve: lead has no contact phone")
		return ev
	}
	ev.Phone = p
	ev.Source = model.SourceRemote
	return ev
}

// Remote reads the lead with its contacts and returns the phone field of
// the first contact, or "" if there is none.
func (r *Resolver) Remote(ctx context.Context, leadID int64) (string, error) {
	lead, err := r.crm.GetLead(ctx, leadID, true)
	if err != nil {
		return "", eris.Wrapf(err, "resolve: get lead %d", leadID)
	}
	contactID := lead.FirstContactID()
	if contactID == 0 {
		return "", nil
	}
	contact, err := r.crm.GetContact(ctx, contactID)
	if err != nil {
		return "", eris.Wrapf(err, "resolve: get contact %d", contactID)
	}
	return ContactPhone(contact), nil
}

// ContactPhone returns the first value of the contact's phone field.
func ContactPhone(c *amocrm.Contact) string {
	if c == nil {
		return ""
	}
	for _, f := range c.CustomFieldsValues {
		if f.FieldCode != PhoneFieldCode && f.FieldName != PhoneFieldName {
			continue
		}
		if len(f.Values) == 0 {
			return ""
		}
		p, _ := nonEmpty(f.Values[0].Value)
		return p
	}
	return ""
}
