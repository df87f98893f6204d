package notifier

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

// MailboxContentType is the content type of stored messages.
const MailboxContentType = "message/rfc822"

var _ model.Notifier = (*Mailbox)(nil)

// Mailbox drops each message as an object in a bucket instead of sending
// it, keyed by recipient.
type Mailbox struct {
	storage model.Storage
	from    string
	now     func() time.Time
	logger  *logger.Logger
}

func NewMailbox(storage model.Storage, from string, logger *logger.Logger) *Mailbox {
	return &Mailbox{
		storage: storage,
		from:    from,
		now:     time.Now,
		logger:  logger,
	}
}

func (m *Mailbox) Send(ctx context.Context, address, subject, body string) error {
	now := m.now().UTC()
	msg, err := NewMessage(m.from, address, subject, body, now)
	if err != nil {
		return err
	}

	var raw bytes.Buffer
	if _, err := msg.WriteTo(&raw); err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}
	key := MailboxKey(msg.To, now, msg.ID)

	if err := m.storage.Upload(ctx, key, &raw, int64(raw.Len()), MailboxContentType); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}

	m.logger.Debug("Mailbox notifier: message stored",
		"key", key)

	return nil
}

// MailboxKey returns the object key of a message: the lower-cased recipient
// as a prefix, then a sortable timestamp and the Message-ID local part.
func MailboxKey(recipient string, at time.Time, messageID string) string {
	id := strings.Trim(messageID, "<>")
	if i := strings.IndexByte(id, '@'); i >= 0 {
		id = id[:i]
	}
	return fmt.Sprintf("%s/%s-%s.eml", strings.ToLower(recipient), at.UTC().Format("20060102T150405Z"), id)
}
