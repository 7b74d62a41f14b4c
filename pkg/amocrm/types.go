package amocrm

// Lead is an amoCRM lead (deal).
type Lead struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	StatusID   int64         `json:"status_id"`
	PipelineID int64         `json:"pipeline_id"`
	Embedded   *LeadEmbedded `json:"_embedded,omitempty"`
}

// LeadEmbedded holds entities embedded in a lead response.
type LeadEmbedded struct {
	Tags     []Tag       `json:"tags,omitempty"`
	Contacts []EntityRef `json:"contacts,omitempty"`
}

// FirstContactID returns the first linked contact, or 0.
func (l *Lead) FirstContactID() int64 {
	if l == nil || l.Embedded == nil || len(l.Embedded.Contacts) == 0 {
		return 0
	}
	return l.Embedded.Contacts[0].ID
}

// EntityRef references another entity by id.
type EntityRef struct {
	ID     int64 `json:"id"`
	IsMain bool  `json:"is_main,omitempty"`
}

// Tag is a lead tag. Tags are matched by name when ID is zero.
type Tag struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// LeadPatch is a partial lead update. Zero fields are omitted.
type LeadPatch struct {
	Name       string         `json:"name,omitempty"`
	StatusID   int64          `json:"status_id,omitempty"`
	PipelineID int64          `json:"pipeline_id,omitempty"`
	Embedded   *PatchEmbedded `json:"_embedded,omitempty"`
}

// PatchEmbedded carries embedded entities in a lead update.
type PatchEmbedded struct {
	Tags []Tag `json:"tags,omitempty"`
}

// Contact is an amoCRM contact.
type Contact struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"name"`
	CustomFieldsValues []CustomFieldValue `json:"custom_fields_values"`
}

// CustomFieldValue is one custom field of an entity.
type CustomFieldValue struct {
	FieldID   int64             `json:"field_id"`
	FieldName string            `json:"field_name"`
	FieldCode string            `json:"field_code"`
	Values    []CustomFieldItem `json:"values"`
}

// CustomFieldItem is a single value of a custom field.
type CustomFieldItem struct {
	Value    any    `json:"value"`
	EnumCode string `json:"enum_code,omitempty"`
}

// Note is a lead note in the form accepted by the notes endpoint.
type Note struct {
	NoteType string     `json:"note_type"`
	Params   NoteParams `json:"params"`
}

// NoteParams holds the note body.
type NoteParams struct {
	Text string `json:"text"`
}

// Pipeline is a lead pipeline with its statuses.
type Pipeline struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	IsMain   bool             `json:"is_main"`
	Embedded PipelineEmbedded `json:"_embedded"`
}

// PipelineEmbedded holds the statuses of a pipeline.
type PipelineEmbedded struct {
	Statuses []Status `json:"statuses"`
}

// Status is one pipeline stage.
type Status struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PipelineID int64  `json:"pipeline_id"`
}
