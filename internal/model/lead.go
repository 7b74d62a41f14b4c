package model

// RawLead is one inbound lead entry as decoded from a webhook body. Its shape
// depends on the notification source.
type RawLead map[string]any

// PhoneSource records where a lead's phone number was found.
type PhoneSource string

const (
	SourceNone               PhoneSource = ""
	SourceCustomFields       PhoneSource = "custom_fields"
	SourceCustomFieldsValues PhoneSource = "custom_fields_values"
	SourceTopLevel           PhoneSource = "phone"
	SourceContacts           PhoneSource = "contacts"
	SourceRemote             PhoneSource = "remote"
)

// LeadEvent is a resolved inbound notification.
type LeadEvent struct {
	LeadID int64       `json:"lead_id"`
	Phone  string      `json:"phone,omitempty"` // raw, not yet normalized
	Source PhoneSource `json:"source,omitempty"`
}

// HasPhone reports whether a phone number was resolved.
func (e LeadEvent) HasPhone() bool {
	return e.Phone != ""
}
