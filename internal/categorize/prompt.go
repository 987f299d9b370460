package categorize

import (
	"fmt"
	"strings"

	"github.com/nhle/mailbuckets/internal/model"
)

// uncategorizedDescription describes the implicit last slot in the prompt.
const uncategorizedDescription = "Emails that don't fit any specific category"

// buildPrompt constructs the classification prompt. Buckets are numbered
// from 1 in slice order, followed by the uncategorized slot at N+1. The
// response is interpreted by number alone, so this order must match the
// order used when mapping the answer back.
func buildPrompt(email *model.Email, buckets []model.Bucket) string {
	var sb strings.Builder

	sb.WriteString("You are an email categorization and summarization assistant. ")
	sb.WriteString("Analyze the following email and categorize it into the most ")
	sb.WriteString("appropriate bucket.\n\n")

	sb.WriteString("EMAIL DETAILS:\n")
	sb.WriteString(fmt.Sprintf("Subject: %s\n", email.Subject))
	sb.WriteString(fmt.Sprintf("From: %s\n", email.Sender))
	sb.WriteString(fmt.Sprintf("Content: %s\n\n", snippet(email)))

	sb.WriteString("AVAILABLE BUCKETS:\n")
	for i, b := range buckets {
		sb.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, b.Title, b.Prompt))
	}
	sb.WriteString(fmt.Sprintf(
		"%d. %s: %s\n\n",
		len(buckets)+1, model.UncategorizedID, uncategorizedDescription,
	))

	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("- Analyze the email content carefully\n")
	sb.WriteString("- Summarize the email in a sentence or two\n")
	sb.WriteString("- Select the MOST appropriate bucket (only one)\n")
	sb.WriteString("- Return ONLY a JSON object with this exact format:\n")
	sb.WriteString(`{"bucket_number": <integer>, "summary": <string>, "confidence": <0.0-1.0>}`)
	sb.WriteString("\n\nResponse:")

	return sb.String()
}

// snippet returns the email's snippet, deriving it from the body when the
// record was built without one.
func snippet(email *model.Email) string {
	if email.Snippet == "" {
		return model.DeriveSnippet(email.Body)
	}
	return email.Snippet
}
