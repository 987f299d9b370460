package categorize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// defaultConfidence is used when the model omits a confidence value.
const defaultConfidence = 0.5

// decision is the structured answer extracted from a model response.
type decision struct {
	// slot is the 1-based bucket number the model chose. Zero means the
	// value was not an integer and maps to uncategorized.
	slot       int
	summary    string
	confidence float64
}

// parseDecision extracts the JSON decision from a free-text model response.
//
// Models often wrap the object in prose, so decoding starts at the first
// '{' and stops after the first complete JSON value. Anything before or
// after it is ignored, including stray braces in trailing commentary.
func parseDecision(response string) (decision, error) {
	start := strings.IndexByte(response, '{')
	if start < 0 {
		return decision{}, &ParseError{Message: "no JSON object found in response"}
	}

	var fields map[string]json.RawMessage
	dec := json.NewDecoder(strings.NewReader(response[start:]))
	if err := dec.Decode(&fields); err != nil {
		return decision{}, &ParseError{Message: "decoding JSON object", Err: err}
	}

	rawSlot, ok := present(fields, "bucket_number")
	if !ok {
		return decision{}, &ParseError{Message: "missing 'bucket_number' in response"}
	}

	rawSummary, ok := present(fields, "summary")
	if !ok {
		return decision{}, &ParseError{Message: "missing 'summary' in response"}
	}

	var summary string
	if err := json.Unmarshal(rawSummary, &summary); err != nil {
		return decision{}, &ParseError{Message: "'summary' is not a string", Err: err}
	}

	confidence := defaultConfidence
	if rawConf, ok := fields["confidence"]; ok {
		v, err := parseConfidence(rawConf)
		if err != nil {
			return decision{}, err
		}
		confidence = v
	}

	return decision{
		slot:       parseSlot(rawSlot),
		summary:    summary,
		confidence: clamp(confidence),
	}, nil
}

// present returns the raw value for key unless it is absent or null.
func present(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok || strings.TrimSpace(string(raw)) == "null" {
		return nil, false
	}
	return raw, true
}

// parseSlot returns the bucket number if raw is an integral JSON number,
// and 0 otherwise.
func parseSlot(raw json.RawMessage) int {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// parseConfidence accepts a JSON number or a numeric string.
func parseConfidence(raw json.RawMessage) (float64, error) {
	if strings.TrimSpace(string(raw)) == "null" {
		return 0, &ParseError{Message: "'confidence' is null"}
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, &ParseError{Message: "'confidence' is not numeric", Err: err}
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ParseError{Message: "'confidence' is not numeric", Err: err}
	}
	if math.IsNaN(f) {
		return 0, &ParseError{Message: "'confidence' is NaN"}
	}
	return f, nil
}

// clamp bounds v to [0, 1].
func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
