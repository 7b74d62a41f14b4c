package triage

import (
	"context"

	"github.com/sells-group/spam-triage/internal/resilience"
	"github.com/sells-group/spam-triage/pkg/amocrm"
	"github.com/sells-group/spam-triage/pkg/spravportal"
)

// Service names used for circuit breakers and logs.
const (
	ServiceReputation = "spravportal"
	ServiceCRM        = "amocrm"
)

type guardedReputation struct {
	next spravportal.Client
	cb   *resilience.CircuitBreaker
}

// GuardReputation routes every check through cb.
func GuardReputation(c spravportal.Client, cb *resilience.CircuitBreaker) spravportal.Client {
	return &guardedReputation{next: c, cb: cb}
}

func (g *guardedReputation) Check(ctx context.Context, phone string) (*spravportal.CheckResponse, error) {
	return resilience.ExecuteVal(ctx, g.cb, func(ctx context.Context) (*spravportal.CheckResponse, error) {
		return g.next.Check(ctx, phone)
	})
}

type guardedCRM struct {
	next amocrm.Client
	cb   *resilience.CircuitBreaker
}

// GuardCRM routes every CRM call through cb.
func GuardCRM(c amocrm.Client, cb *resilience.CircuitBreaker) amocrm.Client {
	return &guardedCRM{next: c, cb: cb}
}

func (g *guardedCRM) GetLead(ctx context.Context, id int64, withContacts bool) (*amocrm.Lead, error) {
	return resilience.ExecuteVal(ctx, g.cb, func(ctx context.Context) (*amocrm.Lead, error) {
		return g.next.GetLead(ctx, id, withContacts)
	})
}

func (g *guardedCRM) UpdateLead(ctx context.Context, id int64, patch amocrm.LeadPatch) error {
	return g.cb.Execute(ctx, func(ctx context.Context) error {
		return g.next.UpdateLead(ctx, id, patch)
	})
}

func (g *guardedCRM) AddNote(ctx context.Context, leadID int64, text string) error {
	return g.cb.Execute(ctx, func(ctx context.Context) error {
		return g.next.AddNote(ctx, leadID, text)
	})
}

func (g *guardedCRM) GetContact(ctx context.Context, id int64) (*amocrm.Contact, error) {
	return resilience.ExecuteVal(ctx, g.cb, func(ctx context.Context) (*amocrm.Contact, error) {
		return g.next.GetContact(ctx, id)
	})
}

func (g *guardedCRM) ListPipelines(ctx context.Context) ([]amocrm.Pipeline, error) {
	return resilience.ExecuteVal(ctx, g.cb, func(ctx context.Context) ([]amocrm.Pipeline, error) {
		return g.next.ListPipelines(ctx)
	})
}
