package categorize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/mailbuckets/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	email := model.NewEmail("7", "Quarterly sync", "boss@example.com", testDate, "Agenda attached.", "")
	buckets := []model.Bucket{
		{ID: "a", Title: "Work", Prompt: "Anything from colleagues"},
		{ID: "b", Title: "Bills", Prompt: "Invoices and receipts"},
	}

	p := buildPrompt(email, buckets)

	assert.Contains(t, p, "Subject: Quarterly sync\n")
	assert.Contains(t, p, "From: boss@example.com\n")
	assert.Contains(t, p, "Content: Agenda attached.\n")
	assert.Contains(t, p, "1. Work: Anything from colleagues\n")
	assert.Contains(t, p, "2. Bills: Invoices and receipts\n")
	assert.Contains(t, p, "3. uncategorized: Emails that don't fit any specific category\n")
	assert.Contains(t, p, `"bucket_number"`)
	assert.True(t, strings.HasSuffix(p, "Response:"))

	assert.Less(t, strings.Index(p, "1. Work"), strings.Index(p, "2. Bills"))
}

func TestBuildPromptUsesSnippetNotBody(t *testing.T) {
	body := strings.Repeat("x", model.SnippetLength) + "§BODYTAIL§"
	email := model.NewEmail("1", "s", "f", testDate, body, "")

	p := buildPrompt(email, []model.Bucket{{ID: "a", Title: "A", Prompt: "a"}})

	assert.NotContains(t, p, "§BODYTAIL§")
	assert.NotContains(t, p, email.Body)
	assert.Contains(t, p, "Content: "+email.Snippet+"\n")
}

func TestBuildPromptDerivesMissingSnippet(t *testing.T) {
	email := &model.Email{
		UID:     "2",
		Subject: "Invoice",
		Sender:  "billing@example.com",
		Date:    testDate,
		Body:    strings.Repeat("y", model.SnippetLength) + "§BODYTAIL§",
	}

	p := buildPrompt(email, []model.Bucket{{ID: "a", Title: "A", Prompt: "a"}})

	assert.Contains(t, p, "Content: "+model.DeriveSnippet(email.Body)+"\n")
	assert.NotContains(t, p, "§BODYTAIL§")
	assert.Empty(t, email.Snippet)
}
