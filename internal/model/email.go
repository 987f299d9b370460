package model

import (
	"strings"
	"time"
)

// SnippetLength is the number of body characters kept in a derived snippet.
const SnippetLength = 200

// Email is a single message produced by the mail transport. It is treated
// as read-only once constructed; categorization results point at it rather
// than copying it.
type Email struct {
	UID     string    `json:"uid"`
	Subject string    `json:"subject"`
	Sender  string    `json:"sender"`
	Date    time.Time `json:"date"`
	Body    string    `json:"body"`
	Snippet string    `json:"snippet"`
}

// NewEmail builds an Email, deriving the snippet from the body when none
// is supplied.
func NewEmail(
	uid, subject, sender string,
	date time.Time,
	body, snippet string,
) *Email {
	if snippet == "" && body != "" {
		snippet = DeriveSnippet(body)
	}

	return &Email{
		UID:     uid,
		Subject: subject,
		Sender:  sender,
		Date:    date,
		Body:    body,
		Snippet: snippet,
	}
}

// DeriveSnippet returns the first SnippetLength characters of body,
// trimmed, with "..." appended when the body was truncated.
func DeriveSnippet(body string) string {
	runes := []rune(body)
	if len(runes) <= SnippetLength {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(string(runes[:SnippetLength])) + "..."
}
