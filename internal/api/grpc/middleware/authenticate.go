package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

var (
	errMissingToken = errors.New("authorization token is required")
	errInvalidToken = errors.New("authorization token is invalid or expired")
)

// TokenService resolves account ID from bearer tokens.
type TokenService interface {
	GetAccountID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects account ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the token and returns
// a context with the account ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	return m.resolve(ctx, bearerToken(ctx))
}

// OptionalAuthFunc is AuthFunc for methods open to anonymous callers: a
// request without a token passes through unchanged, a request with an
// invalid token is still rejected.
func (m *Authenticate) OptionalAuthFunc(ctx context.Context) (context.Context, error) {
	token := bearerToken(ctx)
	if token == "" {
		return ctx, nil
	}
	return m.resolve(ctx, token)
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(values[0], "Bearer "))
}

func (m *Authenticate) resolve(ctx context.Context, token string) (context.Context, error) {
	accountID, err := m.authenticate(ctx, token)
	if err != nil {
		m.logger.Debug("Authenticate middleware: request rejected",
			"error", err.Error())
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetAccountIDToContext(ctx, accountID), nil
}

func (m *Authenticate) authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, errMissingToken
	}

	accountID, err := m.tokenService.GetAccountID(ctx, token)
	if err != nil || accountID == uuid.Nil {
		return uuid.Nil, errInvalidToken
	}

	return accountID, nil
}
