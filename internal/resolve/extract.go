// Package resolve extracts the lead id and phone number from inbound lead
// notifications.
package resolve

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/spam-triage/internal/model"
)

// PhoneFieldName is the display name of the phone custom field.
const PhoneFieldName = "Телефон"

// PhoneFieldCode is the system code of the phone custom field.
const PhoneFieldCode = "PHONE"

// ErrNoLeadID is returned when an entry carries no usable lead id.
var ErrNoLeadID = eris.New("resolve: lead id not found")

// Extractor finds a phone number in one place of a raw lead.
type Extractor struct {
	Source  model.PhoneSource
	Extract func(model.RawLead) (string, bool)
}

// LocalChain is the ordered set of in-payload extractors. The first
// non-empty result wins.
var LocalChain = []Extractor{
	{Source: model.SourceCustomFields, Extract: fromCustomFields},
	{Source: model.SourceCustomFieldsValues, Extract: fromCustomFieldsValues},
	{Source: model.SourceTopLevel, Extract: fromTopLevel},
	{Source: model.SourceContacts, Extract: fromContacts},
}

// LeadID reads "id", falling back to "lead_id". Numbers and numeric strings
// are accepted; zero counts as missing.
func LeadID(raw model.RawLead) (int64, error) {
	for _, key := range []string{"id", "lead_id"} {
		if id, ok := toInt64(raw[key]); ok && id != 0 {
			return id, nil
		}
	}
	return 0, ErrNoLeadID
}

// ExtractLocal runs LocalChain against raw.
func ExtractLocal(raw model.RawLead) (string, model.PhoneSource) {
	for _, ex := range LocalChain {
		if p, ok := ex.Extract(raw); ok {
			return p, ex.Source
		}
	}
	return "", model.SourceNone
}

// fromCustomFields reads the legacy webhook layout. Only the first matching
// field is inspected.
func fromCustomFields(raw model.RawLead) (string, bool) {
	f := findField(raw["custom_fields"], func(m map[string]any) bool {
		return asString(m["name"]) == PhoneFieldName ||
			asString(m["code"]) == PhoneFieldCode ||
			m["id"] == "phone"
	})
	return firstValue(f)
}

func fromCustomFieldsValues(raw model.RawLead) (string, bool) {
	f := findField(raw["custom_fields_values"], func(m map[string]any) bool {
		return asString(m["field_name"]) == PhoneFieldName ||
			asString(m["field_code"]) == PhoneFieldCode
	})
	return firstValue(f)
}

func fromTopLevel(raw model.RawLead) (string, bool) {
	return nonEmpty(raw["phone"])
}

func fromContacts(raw model.RawLead) (string, bool) {
	contacts, ok := raw["contacts"].([]any)
	if !ok || len(contacts) == 0 {
		return "", false
	}
	c, ok := contacts[0].(map[string]any)
	if !ok {
		return "", false
	}
	return nonEmpty(c["phone"])
}

func findField(list any, match func(map[string]any) bool) map[string]any {
	fields, ok := list.([]any)
	if !ok {
		return nil
	}
	for _, f := range fields {
		m, ok := f.(map[string]any)
		if ok && match(m) {
			return m
		}
	}
	return nil
}

func firstValue(field map[string]any) (string, bool) {
	if field == nil {
		return "", false
	}
	values, ok := field["values"].([]any)
	if !ok || len(values) == 0 {
		return "", false
	}
	v, ok := values[0].(map[string]any)
	if !ok {
		return "", false
	}
	return nonEmpty(v["value"])
}

func nonEmpty(v any) (string, bool) {
	s := strings.TrimSpace(asString(v))
	return s, s != "" && s != "0"
}

// asString renders scalar JSON values. Other types yield "".
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
