package triage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/spam-triage/internal/resilience"
	"github.com/sells-group/spam-triage/pkg/amocrm"
	"github.com/sells-group/spam-triage/pkg/amocrm/mocks"
	"github.com/sells-group/spam-triage/pkg/spravportal"
)

type stubReputation struct {
	calls int
	err   error
}

func (s *stubReputation) Check(_ context.Context, _ string) (*spravportal.CheckResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &spravportal.CheckResponse{Phones: []json.RawMessage{json.RawMessage(`{"action":"Allow"}`)}}, nil
}

func breaker(threshold int) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: threshold,
		ResetTimeout:     time.Minute,
	})
}

func TestGuardReputation_OpensOnTransientFailures(t *testing.T) {
	ctx := context.Background()
	stub := &stubReputation{err: &spravportal.StatusError{StatusCode: 503}}
	g := GuardReputation(stub, breaker(2))

	for i := 0; i < 2; i++ {
		_, err := g.Check(ctx, "79001234567")
		require.Error(t, err)
	}

	_, err := g.Check(ctx, "79001234567")
	assert.True(t, errors.Is(err, resilience.ErrCircuitOpen))
	assert.Equal(t, 2, stub.calls)
}

func TestGuardReputation_PermanentFailuresDoNotTrip(t *testing.T) {
	ctx := context.Background()
	stub := &stubReputation{err: &spravportal.StatusError{StatusCode: 401}}
	g := GuardReputation(stub, breaker(1))

	for i := 0; i < 3; i++ {
		_, err := g.Check(ctx, "79001234567")
		var se *spravportal.StatusError
		assert.True(t, errors.As(err, &se))
	}
	assert.Equal(t, 3, stub.calls)
}

func TestGuardReputation_PassesThrough(t *testing.T) {
	resp, err := GuardReputation(&stubReputation{}, breaker(1)).Check(context.Background(), "7")
	require.NoError(t, err)
	assert.Len(t, resp.Phones, 1)
}

func TestGuardCRM_Delegates(t *testing.T) {
	ctx := context.Background()
	crm := mocks.NewMockClient(t)
	crm.On("GetLead", ctx, int64(1), true).Return(&amocrm.Lead{ID: 1}, nil).Once()
	crm.On("UpdateLead", ctx, int64(1), amocrm.LeadPatch{Name: "x"}).Return(nil).Once()
	crm.On("AddNote", ctx, int64(1), "note").Return(nil).Once()
	crm.On("GetContact", ctx, int64(2)).Return(&amocrm.Contact{ID: 2}, nil).Once()
	crm.On("ListPipelines", ctx).Return([]amocrm.Pipeline{{ID: 3}}, nil).Once()

	g := GuardCRM(crm, breaker(5))

	lead, err := g.GetLead(ctx, 1, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), lead.ID)
	require.NoError(t, g.UpdateLead(ctx, 1, amocrm.LeadPatch{Name: "x"}))
	require.NoError(t, g.AddNote(ctx, 1, "note"))
	contact, err := g.GetContact(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), contact.ID)
	pipelines, err := g.ListPipelines(ctx)
	require.NoError(t, err)
	assert.Len(t, pipelines, 1)
}

func TestGuardCRM_OpenRejectsWithoutCalling(t *testing.T) {
	ctx := context.Background()
	crm := mocks.NewMockClient(t)
	crm.On("AddNote", ctx, int64(1), "note").Return(&amocrm.StatusError{StatusCode: 502}).Once()

	g := GuardCRM(crm, breaker(1))

	require.Error(t, g.AddNote(ctx, 1, "note"))
	err := g.AddNote(ctx, 1, "note")
	assert.True(t, errors.Is(err, resilience.ErrCircuitOpen))
}
