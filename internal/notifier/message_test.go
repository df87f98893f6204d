package notifier

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	msg, err := NewMessage("Accounts <no-reply@example.org>", "dude@example.com", "Your verification code", "This is your verification code: 42", date)
	require.NoError(t, err)

	assert.Equal(t, "dude@example.com", msg.To)
	assert.Regexp(t, `^[0-9a-f-]{36}@example\.org$`, msg.ID)

	raw := render(t, msg)
	headers, body, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)

	assert.Contains(t, headers, "<no-reply@example.org>")
	assert.Contains(t, headers, "<dude@example.com>")
	assert.Contains(t, headers, "Subject: Your verification code\r\n")
	assert.Contains(t, headers, "Date: Fri, 01 Mar 2024 12:00:00 +0000\r\n")
	assert.Contains(t, headers, "Message-ID: <"+msg.ID+">\r\n")
	assert.Contains(t, strings.ToLower(headers), "content-type: text/plain; charset=utf-8")
	assert.Contains(t, body, "This is your verification code: 42")
}

func render(t *testing.T, msg *Message) string {
	t.Helper()
	var buf bytes.Buffer
	n, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.String()
}

func TestNewMessage_InvalidAddress(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{name: "bad recipient", from: "no-reply@example.org", to: "not an address"},
		{name: "empty recipient", from: "no-reply@example.org", to: ""},
		{name: "bad sender", from: "nobody", to: "dude@example.com"},
		{name: "header injection", from: "no-reply@example.org", to: "a@example.com\r\nBcc: b@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMessage(tt.from, tt.to, "s", "b", time.Now())
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestMessage_SubjectStaysOnOneLine(t *testing.T) {
	msg, err := NewMessage("a@example.org", "b@example.org", "multi\r\nBcc: c@example.org", "body", time.Now())
	require.NoError(t, err)

	headers, _, found := strings.Cut(render(t, msg), "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, headers, "Subject: multi  Bcc: c@example.org\r\n")
	assert.NotContains(t, headers, "\r\nBcc:")
}

func TestMessage_EncodesNonASCIISubject(t *testing.T) {
	msg, err := NewMessage("a@example.org", "b@example.org", "Код подтверждения", "x", time.Now())
	require.NoError(t, err)

	assert.Contains(t, strings.ToLower(render(t, msg)), "subject: =?utf-8?q?")
}
