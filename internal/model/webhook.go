package model

import "encoding/json"

// WebhookPayload is the amoCRM batch notification body. Each collection may
// hold an array of leads or a single lead object.
type WebhookPayload struct {
	Leads *LeadBatch `json:"leads"`
}

// LeadBatch holds the per-event-type lead collections.
type LeadBatch struct {
	Add    json.RawMessage `json:"add,omitempty"`
	Update json.RawMessage `json:"update,omitempty"`
	Status json.RawMessage `json:"status,omitempty"`
}
