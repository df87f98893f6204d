package notifier

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/account-server/internal/mocks"
	"github.com/dtroode/account-server/internal/testutil"
)

func TestMailbox_Send(t *testing.T) {
	storage := mocks.NewStorage(t)
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	var (
		key  string
		body []byte
		size int64
	)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("int64"), MailboxContentType).
		Run(func(args mock.Arguments) {
			key = args.String(1)
			var err error
			body, err = io.ReadAll(args.Get(2).(io.Reader))
			require.NoError(t, err)
			size = args.Get(3).(int64)
		}).
		Return(nil).Once()

	m := NewMailbox(storage, "no-reply@example.org", testutil.MakeNoopLogger())
	m.now = func() time.Time { return now }

	err := m.Send(context.Background(), "Dude@Example.com", "Your verification code", "This is your verification code: 7")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "dude@example.com/20240301T123000Z-"), key)
	assert.True(t, strings.HasSuffix(key, ".eml"), key)
	assert.Equal(t, int64(len(body)), size)
	assert.Contains(t, string(body), "This is your verification code: 7")
}

func TestMailbox_Send_StorageFails(t *testing.T) {
	storage := mocks.NewStorage(t)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("bucket unreachable")).Once()

	m := NewMailbox(storage, "no-reply@example.org", testutil.MakeNoopLogger())

	err := m.Send(context.Background(), "dude@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store message")
}

func TestMailbox_Send_InvalidRecipient(t *testing.T) {
	m := NewMailbox(mocks.NewStorage(t), "no-reply@example.org", testutil.MakeNoopLogger())

	err := m.Send(context.Background(), "nope", "s", "b")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestMailboxKey(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	got := MailboxKey("A@B.org", at, "<abc-123@example.org>")

	assert.Equal(t, "a@b.org/20240102T020405Z-abc-123.eml", got)
}
