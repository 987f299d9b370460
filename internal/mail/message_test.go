package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plainMessage = "From: Alice <alice@example.com>\r\n" +
	"Subject: Lunch\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Are you free at noon?\r\n"

const alternativeMessage = "From: news@example.com\r\n" +
	"Subject: Digest\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=XYZ\r\n" +
	"\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Plain digest\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>HTML digest</p>\r\n" +
	"--XYZ--\r\n"

const htmlOnlyMessage = "From: shop@example.com\r\n" +
	"Subject: Receipt\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><body><h1>Thanks</h1>\r\n<p>Your   order\r\nshipped.</p></body></html>\r\n"

func TestBodyTextPlain(t *testing.T) {
	assert.Equal(t, "Are you free at noon?", strings.TrimSpace(bodyText([]byte(plainMessage))))
}

func TestBodyTextPrefersPlainPart(t *testing.T) {
	assert.Equal(t, "Plain digest", strings.TrimSpace(bodyText([]byte(alternativeMessage))))
}

func TestBodyTextConvertsHTML(t *testing.T) {
	got := bodyText([]byte(htmlOnlyMessage))

	assert.NotContains(t, got, "<")
	assert.Contains(t, got, "Thanks")
	assert.Contains(t, got, "Your order shipped.")
}

func TestBodyTextEmpty(t *testing.T) {
	assert.Equal(t, "", bodyText(nil))
}

func TestToEmail(t *testing.T) {
	date := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	env := &imap.Envelope{
		Subject: "Lunch",
		Date:    date,
		From:    []imap.Address{{Name: "Alice", Mailbox: "alice", Host: "example.com"}},
	}

	e := toEmail(42, env, []byte(plainMessage))

	assert.Equal(t, "42", e.UID)
	assert.Equal(t, "Lunch", e.Subject)
	assert.Equal(t, "alice@example.com", e.Sender)
	assert.True(t, date.Equal(e.Date))
	assert.Equal(t, "Are you free at noon?", e.Snippet)
}

func TestToEmailDefaults(t *testing.T) {
	before := time.Now()
	e := toEmail(7, &imap.Envelope{}, nil)

	assert.Equal(t, "(No Subject)", e.Subject)
	assert.Equal(t, "Unknown", e.Sender)
	assert.False(t, e.Date.Before(before))
	assert.Empty(t, e.Body)
	assert.Empty(t, e.Snippet)

	e = toEmail(8, nil, nil)
	assert.Equal(t, "(No Subject)", e.Subject)
}

func TestNewestOrdersAndLimits(t *testing.T) {
	uids := []imap.UID{3, 10, 7, 1}

	assert.Equal(t, []imap.UID{10, 7}, newest(uids, 2))
	assert.Equal(t, []imap.UID{10, 7, 3, 1}, newest(uids, 0))
	assert.Equal(t, []imap.UID{3, 10, 7, 1}, uids)
	assert.Empty(t, newest(nil, 5))
}

func TestFetchUnreadCancelledContext(t *testing.T) {
	c := NewClient(testMailConfig(), nil)
	ctx, cancel := contextCancelled()
	defer cancel()

	_, err := c.FetchUnread(ctx, 10)
	require.Error(t, err)
	assert.False(t, IsAuthError(err))
}
