// Package notifier delivers verification mail.
package notifier

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// ErrInvalidAddress is returned for a sender or recipient that is not a
// single RFC 5322 address.
var ErrInvalidAddress = errors.New("invalid mail address")

// Message is a plain-text mail ready for delivery or storage.
type Message struct {
	// ID is the Message-ID without angle brackets.
	ID string
	// To is the bare recipient address.
	To  string
	msg *mail.Msg
}

// NewMessage validates the addresses and assigns a Message-ID in the
// sender's domain.
func NewMessage(from, to, subject, body string, date time.Time) (*Message, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("%w: from %q: %w", ErrInvalidAddress, from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: to %q: %w", ErrInvalidAddress, to, err)
	}

	sender, err := msg.GetSender(false)
	if err != nil {
		return nil, fmt.Errorf("%w: from %q: %w", ErrInvalidAddress, from, err)
	}
	recipients, err := msg.GetRecipients()
	if err != nil || len(recipients) != 1 {
		return nil, fmt.Errorf("%w: to %q", ErrInvalidAddress, to)
	}

	domain := "localhost"
	if at := strings.LastIndexByte(sender, '@'); at >= 0 {
		domain = sender[at+1:]
	}
	id := uuid.NewString() + "@" + domain

	msg.Subject(stripNewlines(subject))
	msg.SetDateWithValue(date)
	msg.SetMessageIDWithValue(id)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return &Message{
		ID:  id,
		To:  recipients[0],
		msg: msg,
	}, nil
}

// WriteTo renders the message in RFC 5322 wire format.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	return m.msg.WriteTo(w)
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
