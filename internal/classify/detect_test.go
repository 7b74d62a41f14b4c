package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/spam-triage/internal/model"
)

func TestDetect_LabelSchema(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		action string
		spam   bool
	}{
		{"block", `{"action":"Block"}`, "Block", true},
		{"spam", `{"action":"Spam"}`, "Spam", true},
		{"lowercase block", `{"action":"block"}`, "block", true},
		{"uppercase spam", `{"action":"SPAM"}`, "SPAM", true},
		{"allow", `{"action":"Allow"}`, "Allow", false},
		{"unknown", `{"action":"Unknown"}`, "Unknown", false},
		{"missing action", `{}`, model.UnknownAction, false},
		{"empty action", `{"action":""}`, model.UnknownAction, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Detect(json.RawMessage(tt.raw))
			assert.Equal(t, model.SchemaLabel, r.Schema)
			assert.Equal(t, tt.action, r.Action)
			assert.Equal(t, tt.spam, r.IsSpam(50))
		})
	}
}

func TestDetect_ScoreSchema(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		score int
		spam  bool
	}{
		{"above threshold", `{"spamScore":80}`, 80, true},
		{"below threshold", `{"spamScore":10}`, 10, false},
		{"at threshold", `{"spamScore":50}`, 50, true},
		{"fractional", `{"spamScore":49.6}`, 50, true},
		{"clamped high", `{"spamScore":250}`, 100, true},
		{"clamped low", `{"spamScore":-3}`, 0, false},
		{"score beats allow label", `{"action":"Allow","spamScore":90}`, 90, true},
		{"score beats block label", `{"action":"Block","spamScore":5}`, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Detect(json.RawMessage(tt.raw))
			assert.Equal(t, model.SchemaScore, r.Schema)
			assert.Equal(t, tt.score, r.Score)
			assert.Equal(t, tt.spam, r.IsSpam(50))
		})
	}
}

func TestDetect_NonNumericScoreUsesLabel(t *testing.T) {
	r := Detect(json.RawMessage(`{"action":"Block","spamScore":"high"}`))
	assert.Equal(t, model.SchemaLabel, r.Schema)
	assert.True(t, r.IsSpam(50))

	r = Detect(json.RawMessage(`{"action":"Allow","spamScore":null}`))
	assert.Equal(t, model.SchemaLabel, r.Schema)
	assert.False(t, r.IsSpam(50))
}

func TestDetect_NullScoreKeepsBlockLabel(t *testing.T) {
	r := Detect(json.RawMessage(`{"action":"Block","spamScore":null}`))
	assert.Equal(t, model.SchemaLabel, r.Schema)
	assert.True(t, r.IsSpam(50))

	v := r.Verdict("79001234567", 50)
	assert.True(t, v.IsSpam)
	assert.Equal(t, 100, v.Score)
}

func TestDetect_MalformedFieldKeepsLaterFields(t *testing.T) {
	raw := `{
		"action": "Block",
		"reviewsCount": "n/a",
		"categories": ["Мошенники"],
		"organization": "ООО Ромашка",
		"phoneInfo": {"region": "Москва"}
	}`
	r := Detect(json.RawMessage(raw))

	assert.Equal(t, "Block", r.Action)
	assert.Equal(t, 0, r.ReviewsCount)
	assert.Equal(t, []string{"Мошенники"}, r.Categories)
	require.NotNil(t, r.Organization)
	assert.Equal(t, "ООО Ромашка", *r.Organization)
	require.NotNil(t, r.Region)
	assert.Equal(t, "Москва", *r.Region)
}

func TestDetect_ReviewsCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`{"reviewsCount":7}`, 7},
		{`{"reviewsCount":"15"}`, 15},
		{`{"reviewsCount":null}`, 0},
		{`{"reviewsCount":-2}`, 0},
		{`{"reviewsCount":{"total":3}}`, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(json.RawMessage(tt.raw)).ReviewsCount, tt.raw)
	}
}

func TestDetect_WrongTypedActionKeepsCategories(t *testing.T) {
	r := Detect(json.RawMessage(`{"action":42,"categories":["Реклама"]}`))
	assert.Equal(t, model.UnknownAction, r.Action)
	assert.Equal(t, []string{"Реклама"}, r.Categories)
}

func TestDetect_Malformed(t *testing.T) {
	for _, raw := range []string{``, `null`, `not json`, `[]`} {
		r := Detect(json.RawMessage(raw))
		assert.Equal(t, model.SchemaLabel, r.Schema, raw)
		assert.False(t, r.IsSpam(50), raw)
	}
}

func TestDetect_Details(t *testing.T) {
	raw := `{
		"action": "Block",
		"categories": ["Мошенники", "Реклама"],
		"reviewsCount": 12,
		"organization": "ООО Ромашка",
		"phoneInfo": {
			"region": "Ставропольский край",
			"regionTranslit": "Stavropolskiy kray",
			"operator": "МТС"
		}
	}`
	r := Detect(json.RawMessage(raw))

	assert.Equal(t, []string{"Мошенники", "Реклама"}, r.Categories)
	assert.Equal(t, 12, r.ReviewsCount)
	require.NotNil(t, r.Organization)
	assert.Equal(t, "ООО Ромашка", *r.Organization)
	require.NotNil(t, r.Region)
	assert.Equal(t, "Stavropolskiy kray", *r.Region)
	require.NotNil(t, r.Operator)
	assert.Equal(t, "МТС", *r.Operator)
}

func TestDetect_OrganizationObject(t *testing.T) {
	r := Detect(json.RawMessage(`{"organization":{"name":"Acme"}}`))
	require.NotNil(t, r.Organization)
	assert.Equal(t, "Acme", *r.Organization)

	r = Detect(json.RawMessage(`{"organization":""}`))
	assert.Nil(t, r.Organization)

	r = Detect(json.RawMessage(`{"organization":42}`))
	assert.Nil(t, r.Organization)
}

func TestResult_Verdict_Label(t *testing.T) {
	v := Detect(json.RawMessage(`{"action":"Block","categories":["Мошенники","Реклама"]}`)).Verdict("79001234567", 50)

	assert.Equal(t, "79001234567", v.Phone)
	assert.True(t, v.IsSpam)
	assert.Equal(t, 100, v.Score)
	assert.Equal(t, "Мошенники", v.Category)
	assert.Equal(t, "Мошенники, Реклама", v.CategoryName)
	assert.Equal(t, model.SchemaLabel, v.Schema)
	assert.Equal(t, "SPAM", v.Status())

	v = Detect(json.RawMessage(`{"action":"Allow"}`)).Verdict("79001234567", 50)
	assert.False(t, v.IsSpam)
	assert.Equal(t, 0, v.Score)
	assert.Equal(t, model.UnknownCategory, v.Category)
	assert.Equal(t, model.UnknownCategoryName, v.CategoryName)
	assert.Equal(t, 0, v.ReviewsCount)
	assert.Nil(t, v.Organization)
	assert.Equal(t, "CLEAN", v.Status())
}

func TestResult_Verdict_ScoreThreshold(t *testing.T) {
	r := Detect(json.RawMessage(`{"spamScore":60}`))

	assert.True(t, r.Verdict("7", 50).IsSpam)
	assert.False(t, r.Verdict("7", 70).IsSpam)
	assert.Equal(t, 60, r.Verdict("7", 70).Score)
}
