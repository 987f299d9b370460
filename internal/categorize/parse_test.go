package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecisionWrappedInProse(t *testing.T) {
	d, err := parseDecision(`Sure! {"bucket_number": 2, "summary": "Meeting notes", "confidence": 0.85} Let me know`)
	require.NoError(t, err)

	assert.Equal(t, 2, d.slot)
	assert.Equal(t, "Meeting notes", d.summary)
	assert.InDelta(t, 0.85, d.confidence, 1e-9)
}

func TestParseDecisionTrailingBraces(t *testing.T) {
	d, err := parseDecision(`{"bucket_number": 1, "summary": "uses {braces}", "confidence": 0.6} and {more}`)
	require.NoError(t, err)

	assert.Equal(t, 1, d.slot)
	assert.Equal(t, "uses {braces}", d.summary)
}

func TestParseDecisionConfidence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"above one is clamped", `{"bucket_number": 1, "summary": "s", "confidence": 1.7}`, 1.0},
		{"negative is clamped", `{"bucket_number": 1, "summary": "s", "confidence": -0.3}`, 0.0},
		{"absent defaults", `{"bucket_number": 1, "summary": "s"}`, 0.5},
		{"numeric string", `{"bucket_number": 1, "summary": "s", "confidence": "0.9"}`, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := parseDecision(tt.body)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, d.confidence, 1e-9)
		})
	}
}

func TestParseDecisionSlot(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`3`, 3},
		{`0`, 0},
		{`-1`, -1},
		{`2.0`, 2},
		{`2.5`, 0},
		{`"2"`, 0},
		{`true`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, err := parseDecision(`{"bucket_number": ` + tt.raw + `, "summary": "s"}`)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.slot)
		})
	}
}

func TestParseDecisionFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no braces", "I think it is about meetings."},
		{"empty", ""},
		{"truncated object", `{"bucket_number": 1, "summary": "s"`},
		{"missing bucket_number", `{"summary": "s", "confidence": 0.9}`},
		{"missing summary", `{"bucket_number": 1, "confidence": 0.9}`},
		{"null summary", `{"bucket_number": 1, "summary": null}`},
		{"null bucket_number", `{"bucket_number": null, "summary": "s"}`},
		{"non-string summary", `{"bucket_number": 1, "summary": 42}`},
		{"null confidence", `{"bucket_number": 1, "summary": "s", "confidence": null}`},
		{"word confidence", `{"bucket_number": 1, "summary": "s", "confidence": "high"}`},
		{"NaN confidence", `{"bucket_number": 1, "summary": "s", "confidence": "NaN"}`},
		{"array", `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDecision(tt.body)
			require.Error(t, err)
			assert.True(t, IsParseError(err))
		})
	}
}
