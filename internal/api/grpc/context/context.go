package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// AccountIDMetadataKey is stripped from incoming metadata so clients cannot
// claim an identity without a token.
const AccountIDMetadataKey = "account_id"

type accountIDKey struct{}

// Manager stores the authenticated account ID in request contexts.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetAccountIDToContext returns a context carrying accountID. Any
// client-supplied account_id metadata is removed.
func (m *Manager) SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context {
	if md, ok := metadata.FromIncomingContext(ctx); ok && len(md.Get(AccountIDMetadataKey)) > 0 {
		md = md.Copy()
		md.Delete(AccountIDMetadataKey)
		ctx = metadata.NewIncomingContext(ctx, md)
	}

	return context.WithValue(ctx, accountIDKey{}, accountID)
}

// GetAccountIDFromContext returns the account ID set by the authentication
// interceptor.
func (m *Manager) GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountIDKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}

	return id, true
}
