package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

// Auth exchanges credentials for access tokens.
type Auth struct {
	accounts model.AccountStore
	hasher   model.PasswordHasher
	tokens   model.TokenManager
	logger   *logger.Logger
}

func NewAuth(
	accounts model.AccountStore,
	hasher model.PasswordHasher,
	tokens model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login returns an access token for a verified account whose password
// matches. Unknown users, unverified accounts, accounts without a password
// and wrong passwords all yield ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	a.logger.Debug("Auth service: starting login",
		"username", username)

	account, err := a.accounts.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to get account by username: %w", err)
	}

	if !account.Enabled || account.PasswordHash == "" {
		a.logger.Info("Auth service: login refused for unverified account",
			"username", username)
		return "", model.ErrInvalidCredentials
	}

	if err := a.hasher.Compare(account.PasswordHash, password); err != nil {
		a.logger.Info("Auth service: password mismatch",
			"username", username)
		return "", model.ErrInvalidCredentials
	}

	token, err := a.tokens.GenerateAccessToken(account.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}

	a.logger.Info("Auth service: login completed",
		"username", username,
		"account_id", account.ID)

	return token, nil
}

// GetAccountID resolves the account ID carried by an access token.
func (a *Auth) GetAccountID(_ context.Context, token string) (uuid.UUID, error) {
	return a.tokens.ParseAccessToken(token)
}
