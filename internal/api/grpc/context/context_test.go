package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestManager_SetAndGetAccountID(t *testing.T) {
	m := NewManager()
	id := uuid.New()
	ctx := m.SetAccountIDToContext(stdctx.Background(), id)

	got, ok := m.GetAccountIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestManager_GetAccountID_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetAccountIDFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_GetAccountID_NilUUID(t *testing.T) {
	m := NewManager()
	ctx := m.SetAccountIDToContext(stdctx.Background(), uuid.Nil)
	_, ok := m.GetAccountIDFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_MetadataIsNotTrusted(t *testing.T) {
	m := NewManager()
	spoofed := uuid.New()
	md := metadata.New(map[string]string{
		AccountIDMetadataKey: spoofed.String(),
		"x-trace-id":         "t",
	})
	ctx := metadata.NewIncomingContext(stdctx.Background(), md)

	_, ok := m.GetAccountIDFromContext(ctx)
	assert.False(t, ok)

	id := uuid.New()
	ctx = m.SetAccountIDToContext(ctx, id)
	got, ok := m.GetAccountIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	out, _ := metadata.FromIncomingContext(ctx)
	assert.Empty(t, out.Get(AccountIDMetadataKey))
	assert.Equal(t, []string{"t"}, out.Get("x-trace-id"))
	assert.Equal(t, []string{spoofed.String()}, md.Get(AccountIDMetadataKey))
}
