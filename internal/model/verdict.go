// Package model defines the data passed between the triage components.
package model

// Schema identifies which reputation response layout decided a verdict.
type Schema string

const (
	// SchemaLabel decides spam membership from a discrete action label.
	SchemaLabel Schema = "label"
	// SchemaScore decides spam membership by comparing spamScore to a threshold.
	SchemaScore Schema = "score"
)

// Sentinel values used when the reputation service omits a field.
const (
	UnknownAction       = "Unknown"
	UnknownCategory     = "unknown"
	UnknownCategoryName = "Неизвестно"
)

// Verdict is the classification outcome for one phone number.
type Verdict struct {
	Phone        string  `json:"phone"`
	IsSpam       bool    `json:"isSpam"`
	Action       string  `json:"action"`
	Score        int     `json:"spamScore"`
	Category     string  `json:"category"`
	CategoryName string  `json:"categoryName"`
	ReviewsCount int     `json:"reviewsCount"`
	Organization *string `json:"organization"`
	Region       *string `json:"region"`
	Operator     *string `json:"operator"`
	Schema       Schema  `json:"schema"`
}

// Status returns the verdict label reported to webhook callers.
func (v Verdict) Status() string {
	if v.IsSpam {
		return "SPAM"
	}
	return "CLEAN"
}
