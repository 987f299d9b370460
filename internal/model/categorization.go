package model

import "encoding/json"

// ConfidenceLevel is a coarse bucketing of a confidence score for display.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Categorization is the outcome of categorizing one email. Every email gets
// exactly one bucket, possibly Uncategorized. Summary is nil when the
// categorization failed outright.
type Categorization struct {
	Email      *Email
	Bucket     BucketRef
	Summary    *string
	Confidence float64
}

// BucketID returns the assigned bucket id.
func (c Categorization) BucketID() string {
	return c.Bucket.ID()
}

// BucketTitle returns the assigned bucket title.
func (c Categorization) BucketTitle() string {
	return c.Bucket.Title()
}

// SummaryText returns the summary, or "" when absent.
func (c Categorization) SummaryText() string {
	if c.Summary == nil {
		return ""
	}
	return *c.Summary
}

// Level maps the confidence score onto high (> 0.7), medium (> 0.4) or low.
func (c Categorization) Level() ConfidenceLevel {
	switch {
	case c.Confidence > 0.7:
		return ConfidenceHigh
	case c.Confidence > 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// MarshalJSON encodes the categorization with flattened bucket fields.
func (c Categorization) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Email       *Email  `json:"email"`
		BucketID    string  `json:"bucket_id"`
		BucketTitle string  `json:"bucket_title"`
		Summary     *string `json:"summary"`
		Confidence  float64 `json:"confidence"`
	}{
		Email:       c.Email,
		BucketID:    c.BucketID(),
		BucketTitle: c.BucketTitle(),
		Summary:     c.Summary,
		Confidence:  c.Confidence,
	})
}
