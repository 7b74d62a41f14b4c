// Package classify turns SpravPortal reputation responses into spam verdicts.
package classify

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/sells-group/spam-triage/internal/model"
)

// spamLabels are the action labels that mark a number as spam. Matching is
// case-insensitive.
var spamLabels = map[string]bool{
	"block": true,
	"spam":  true,
}

// Result is one reputation entry after schema detection. Exactly one of the
// label or score fields is meaningful, as selected by Schema.
type Result struct {
	Schema model.Schema

	// Label schema.
	Action string
	// Score schema, clamped to 0..100.
	Score int

	Categories   []string
	ReviewsCount int
	Organization *string
	Region       *string
	Operator     *string
}

// entry keeps every field raw so one malformed value cannot abort the decode
// of the fields after it.
type entry struct {
	Action       json.RawMessage `json:"action"`
	SpamScore    json.RawMessage `json:"spamScore"`
	Categories   json.RawMessage `json:"categories"`
	ReviewsCount json.RawMessage `json:"reviewsCount"`
	Organization json.RawMessage `json:"organization"`
	PhoneInfo    json.RawMessage `json:"phoneInfo"`
}

type phoneInfo struct {
	Region           string `json:"region"`
	RegionTranslit   string `json:"regionTranslit"`
	Operator         string `json:"operator"`
	OperatorTranslit string `json:"operatorTranslit"`
}

// Detect parses a raw phone entry. A numeric spamScore selects the score
// schema, anything else falls back to the action label. Malformed entries
// detect as an unlabeled label-schema result.
func Detect(raw json.RawMessage) Result {
	var e entry
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &e)
	}

	r := Result{
		Schema:       model.SchemaLabel,
		Action:       model.UnknownAction,
		Categories:   categories(e.Categories),
		ReviewsCount: reviewsCount(e.ReviewsCount),
		Organization: organization(e.Organization),
	}
	var info phoneInfo
	if len(e.PhoneInfo) > 0 && json.Unmarshal(e.PhoneInfo, &info) == nil {
		r.Region = firstNonEmpty(info.RegionTranslit, info.Region)
		r.Operator = firstNonEmpty(info.OperatorTranslit, info.Operator)
	}
	var action string
	if len(e.Action) > 0 && json.Unmarshal(e.Action, &action) == nil && action != "" {
		r.Action = action
	}

	// null and non-numeric scores leave the label in charge.
	var score *float64
	if len(e.SpamScore) > 0 && json.Unmarshal(e.SpamScore, &score) == nil && score != nil {
		r.Schema = model.SchemaScore
		r.Score = int(math.Round(math.Max(0, math.Min(100, *score))))
	}
	return r
}

// IsSpam applies the decision rule of the detected schema.
func (r Result) IsSpam(threshold int) bool {
	if r.Schema == model.SchemaScore {
		return r.Score >= threshold
	}
	return spamLabels[strings.ToLower(r.Action)]
}

// Verdict builds the verdict for phone. Label verdicts report a score of 100
// for spam and 0 otherwise.
func (r Result) Verdict(phone string, threshold int) model.Verdict {
	v := model.Verdict{
		Phone:        phone,
		IsSpam:       r.IsSpam(threshold),
		Action:       r.Action,
		Category:     model.UnknownCategory,
		CategoryName: model.UnknownCategoryName,
		ReviewsCount: r.ReviewsCount,
		Organization: r.Organization,
		Region:       r.Region,
		Operator:     r.Operator,
		Schema:       r.Schema,
	}
	switch {
	case r.Schema == model.SchemaScore:
		v.Score = r.Score
	case v.IsSpam:
		v.Score = 100
	}
	if len(r.Categories) > 0 {
		v.Category = r.Categories[0]
		v.CategoryName = strings.Join(r.Categories, ", ")
	}
	return v
}

func categories(raw json.RawMessage) []string {
	var items []any
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	var out []string
	for _, c := range items {
		if s, ok := c.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// reviewsCount accepts a number or a numeric string. Anything else counts as
// zero reviews.
func reviewsCount(raw json.RawMessage) int {
	var n json.Number
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0
		}
		n = json.Number(strings.TrimSpace(s))
	}
	f, err := n.Float64()
	if err != nil || f <= 0 {
		return 0
	}
	return int(f)
}

// organization accepts either a plain name or an object carrying one.
func organization(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var name string
	if json.Unmarshal(raw, &name) == nil {
		return firstNonEmpty(name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return firstNonEmpty(obj.Name)
	}
	return nil
}

func firstNonEmpty(vals ...string) *string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}
