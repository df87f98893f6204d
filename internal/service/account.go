package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
	"github.com/dtroode/account-server/internal/username"
)

// Verification mail content.
const (
	VerificationSubject    = "Your verification code"
	verificationBodyPrefix = "This is your verification code: "
)

// VerificationCodeBound is the exclusive upper bound of verification codes.
const VerificationCodeBound int64 = 1_000_000_000

// Account orchestrates registration, verification and credential changes.
type Account struct {
	accounts  model.AccountStore
	roles     model.RoleStore
	notifier  model.Notifier
	hasher    model.PasswordHasher
	rand      model.RandomSource
	usernames *username.Generator
	logger    *logger.Logger
}

func NewAccount(
	accounts model.AccountStore,
	roles model.RoleStore,
	notifier model.Notifier,
	hasher model.PasswordHasher,
	rand model.RandomSource,
	logger *logger.Logger,
) *Account {
	return &Account{
		accounts:  accounts,
		roles:     roles,
		notifier:  notifier,
		hasher:    hasher,
		rand:      rand,
		usernames: username.NewGenerator(rand),
		logger:    logger,
	}
}

// Register creates an enabled=false account with a generated unique username
// and the default role.
func (s *Account) Register(ctx context.Context, params model.RegistrationParams) (model.Account, error) {
	s.logger.Debug("Account service: starting registration",
		"email", params.Email)

	account := model.Account{
		ID:          uuid.New(),
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		DateOfBirth: params.DateOfBirth,
		Roles:       model.NewRoleSet(),
	}

	name, err := s.uniqueUsername(ctx, username.Seed(params.FirstName, params.LastName))
	if err != nil {
		s.logger.Error("Account service: failed to generate username",
			"email", params.Email,
			"error", err.Error())
		return model.Account{}, err
	}
	account.Username = name

	role, err := s.roles.GetByAuthority(ctx, model.DefaultRole)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Error("Account service: default role is missing, check role reference data",
			"role", model.DefaultRole)
		return model.Account{}, fmt.Errorf("%w: %s", model.ErrRoleNotFound, model.DefaultRole)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get role %s: %w", model.DefaultRole, err)
	}
	account.Roles.Add(role)

	saved, err := s.accounts.Upsert(ctx, account)
	if err != nil {
		s.logger.Info("Account service: failed to save new account",
			"username", account.Username,
			"email", account.Email,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("%w: %w", model.ErrDuplicateAccount, err)
	}

	s.logger.Info("Account service: account registered",
		"username", saved.Username,
		"account_id", saved.ID)

	return saved, nil
}

// uniqueUsername draws candidates until the store confirms one is free.
// Collisions never end the loop; any lookup error other than a miss does.
func (s *Account) uniqueUsername(ctx context.Context, seed string) (string, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := s.usernames.Candidate(seed)
		_, err := s.accounts.GetByUsername(ctx, candidate)
		if errors.Is(err, model.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check username availability: %w", err)
		}

		s.logger.Debug("Account service: username taken, retrying",
			"candidate", candidate,
			"attempt", attempt)
	}
}

// GetByUsername returns the account or ErrAccountNotFound.
func (s *Account) GetByUsername(ctx context.Context, name string) (model.Account, error) {
	return s.find(ctx, name)
}

// UpdateProfile persists the account as given. Field validation is the
// caller's job.
func (s *Account) UpdateProfile(ctx context.Context, account model.Account) (model.Account, error) {
	saved, err := s.accounts.Upsert(ctx, account)
	if err != nil {
		s.logger.Info("Account service: failed to update account",
			"username", account.Username,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("%w: %w", model.ErrDuplicateAccount, err)
	}

	return saved, nil
}

// IssueVerification mails a fresh code to the account's address and stores
// it as pending only after the notifier reports success.
func (s *Account) IssueVerification(ctx context.Context, name string) error {
	account, err := s.find(ctx, name)
	if err != nil {
		return err
	}

	code := s.rand.Int64N(VerificationCodeBound)
	account.VerificationCode = &code

	err = s.notifier.Send(ctx, account.Email, VerificationSubject, VerificationBody(code))
	if err != nil {
		s.logger.Warn("Account service: failed to send verification code",
			"username", name,
			"error", err.Error())
		return fmt.Errorf("%w: %w", model.ErrNotificationFailed, err)
	}

	if _, err := s.accounts.Upsert(ctx, account); err != nil {
		s.logger.Error("Account service: failed to save verification code",
			"username", name,
			"error", err.Error())
		return fmt.Errorf("failed to save verification code: %w", err)
	}

	s.logger.Info("Account service: verification code issued",
		"username", name)

	return nil
}

// VerifyEmail enables the account when code equals the pending code.
// A wrong code leaves the pending code in place.
func (s *Account) VerifyEmail(ctx context.Context, name string, code int64) (model.Account, error) {
	account, err := s.find(ctx, name)
	if err != nil {
		return model.Account{}, err
	}

	if account.VerificationCode == nil || *account.VerificationCode != code {
		s.logger.Info("Account service: verification code mismatch",
			"username", name)
		return model.Account{}, model.ErrInvalidVerificationCode
	}

	account.Enabled = true
	account.VerificationCode = nil

	saved, err := s.accounts.Upsert(ctx, account)
	if err != nil {
		s.logger.Error("Account service: failed to save verified account",
			"username", name,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to save verified account: %w", err)
	}

	s.logger.Info("Account service: email verified",
		"username", name)

	return saved, nil
}

// SetPassword stores a hash of plaintext as the account password.
func (s *Account) SetPassword(ctx context.Context, name, plaintext string) (model.Account, error) {
	account, err := s.find(ctx, name)
	if err != nil {
		return model.Account{}, err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return model.Account{}, err
	}
	account.PasswordHash = hash

	saved, err := s.accounts.Upsert(ctx, account)
	if err != nil {
		s.logger.Error("Account service: failed to save password",
			"username", name,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to save password: %w", err)
	}

	s.logger.Info("Account service: password updated",
		"username", name)

	return saved, nil
}

func (s *Account) find(ctx context.Context, name string) (model.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, name)
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		s.logger.Error("Account service: failed to get account",
			"username", name,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to get account by username: %w", err)
	}

	return account, nil
}

// VerificationBody renders the verification mail body for code.
func VerificationBody(code int64) string {
	return verificationBodyPrefix + strconv.FormatInt(code, 10)
}
