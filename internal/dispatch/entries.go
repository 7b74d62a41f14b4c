// Package dispatch turns webhook batches into asynchronous triage tasks.
package dispatch

import (
	"bytes"
	"encoding/json"

	"github.com/sells-group/spam-triage/internal/model"
)

// Entries normalizes a batch notification into a list of raw leads. The
// first present collection of add, update and status wins, even when empty.
// A single object is treated as a one-element list.
func Entries(p model.WebhookPayload) []model.RawLead {
	if p.Leads == nil {
		return nil
	}
	for _, raw := range []json.RawMessage{p.Leads.Add, p.Leads.Update, p.Leads.Status} {
		if present(raw) {
			return decodeLeads(raw)
		}
	}
	return nil
}

func present(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && !bytes.Equal(t, []byte("null")) && !bytes.Equal(t, []byte("false"))
}

func decodeLeads(raw json.RawMessage) []model.RawLead {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]model.RawLead, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, model.RawLead(m))
			}
		}
		return out
	case map[string]any:
		return []model.RawLead{model.RawLead(t)}
	default:
		return nil
	}
}
