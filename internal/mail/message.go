package mail

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/k3a/html2text"

	"github.com/nhle/mailbuckets/internal/model"
)

// Fallbacks for missing envelope fields.
const (
	noSubject     = "(No Subject)"
	unknownSender = "Unknown"
)

// toEmail converts fetched envelope and body data into an Email.
func toEmail(uid imap.UID, env *imap.Envelope, raw []byte) *model.Email {
	subject := noSubject
	sender := unknownSender
	date := time.Now()

	if env != nil {
		if s := strings.TrimSpace(env.Subject); s != "" {
			subject = s
		}
		if len(env.From) > 0 {
			if addr := env.From[0].Addr(); addr != "" {
				sender = addr
			} else if env.From[0].Name != "" {
				sender = env.From[0].Name
			}
		}
		if !env.Date.IsZero() {
			date = env.Date
		}
	}

	return model.NewEmail(
		strconv.FormatUint(uint64(uid), 10),
		subject,
		sender,
		date,
		bodyText(raw),
		"",
	)
}

// bodyText extracts the readable body of a raw RFC 5322 message. The
// text/plain part wins; otherwise the HTML part is converted to text.
func bodyText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	textBody, htmlBody, ok := parseMIMEBody(raw)
	if !ok {
		return string(raw)
	}
	if strings.TrimSpace(textBody) != "" {
		return textBody
	}
	if htmlBody != "" {
		return cleanHTML(htmlBody)
	}
	return ""
}

// parseMIMEBody walks the message parts and returns the first text/plain
// and text/html bodies. ok is false when the message is not parseable MIME.
func parseMIMEBody(raw []byte) (textBody, htmlBody string, ok bool) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return "", "", false
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}

		h, inline := part.Header.(*mail.InlineHeader)
		if !inline {
			continue
		}

		contentType, _, _ := h.ContentType()
		if contentType == "" {
			contentType = "text/plain"
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain") && textBody == "":
			textBody = string(body)
		case strings.HasPrefix(contentType, "text/html") && htmlBody == "":
			htmlBody = string(body)
		}
	}

	return textBody, htmlBody, true
}

// cleanHTML converts HTML to plain text and collapses whitespace.
func cleanHTML(html string) string {
	text := html2text.HTML2Text(html)
	return strings.Join(strings.Fields(text), " ")
}
