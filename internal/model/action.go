package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// MutationAction selects which mutations are applied to spam leads.
type MutationAction string

const (
	ActionTag    MutationAction = "tag"
	ActionStatus MutationAction = "status"
	ActionBoth   MutationAction = "both"
)

// ParseMutationAction parses a configured action mode.
func ParseMutationAction(s string) (MutationAction, error) {
	switch a := MutationAction(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionTag, ActionStatus, ActionBoth:
		return a, nil
	default:
		return "", eris.Errorf("model: unknown mutation action %q (want tag, status or both)", s)
	}
}

// Tags reports whether spam leads should receive the spam tag.
func (a MutationAction) Tags() bool {
	return a == ActionTag || a == ActionBoth
}

// MovesStatus reports whether spam leads should be moved to the spam status.
func (a MutationAction) MovesStatus() bool {
	return a == ActionStatus || a == ActionBoth
}
