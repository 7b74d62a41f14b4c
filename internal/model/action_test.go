package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMutationAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in         string
		want       MutationAction
		tags, move bool
	}{
		{"tag", ActionTag, true, false},
		{"STATUS", ActionStatus, false, true},
		{" both ", ActionBoth, true, true},
	}
	for _, tt := range tests {
		got, err := ParseMutationAction(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.tags, got.Tags())
		assert.Equal(t, tt.move, got.MovesStatus())
	}
}

func TestParseMutationAction_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseMutationAction("delete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete")
}

func TestVerdictStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SPAM", Verdict{IsSpam: true}.Status())
	assert.Equal(t, "CLEAN", Verdict{}.Status())
}

func TestLeadEventHasPhone(t *testing.T) {
	t.Parallel()

	assert.False(t, LeadEvent{LeadID: 1}.HasPhone())
	assert.True(t, LeadEvent{LeadID: 1, Phone: "79991234567"}.HasPhone())
}
