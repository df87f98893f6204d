package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/account-server/internal/api/grpc/accountpb"
	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

// VerificationSentMessage is returned after a code was mailed.
const VerificationSentMessage = "Verification code has been sent to your email"

// AccountService defines the account lifecycle operations.
type AccountService interface {
	Register(ctx context.Context, params model.RegistrationParams) (model.Account, error)
	GetByUsername(ctx context.Context, username string) (model.Account, error)
	UpdateProfile(ctx context.Context, account model.Account) (model.Account, error)
	IssueVerification(ctx context.Context, username string) error
	VerifyEmail(ctx context.Context, username string, code int64) (model.Account, error)
	SetPassword(ctx context.Context, username, password string) (model.Account, error)
}

// AuthService exchanges credentials for an access token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

var _ accountpb.AccountsServer = (*Account)(nil)

// Account handles gRPC endpoints of the Accounts service.
type Account struct {
	accountService AccountService
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAccount creates a new Account handler.
func NewAccount(accountService AccountService, authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Account {
	return &Account{
		accountService: accountService,
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates an account from name, email and date of birth.
func (h *Account) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var params model.RegistrationParams
	var err error

	if params.FirstName, err = requiredString(req, fieldFirstName); err != nil {
		return nil, err
	}
	if params.LastName, err = requiredString(req, fieldLastName); err != nil {
		return nil, err
	}
	if params.Email, err = requiredString(req, fieldEmail); err != nil {
		return nil, err
	}
	if params.DateOfBirth, err = dateField(req, fieldDateOfBirth); err != nil {
		return nil, err
	}

	h.logger.Debug("Account handler: processing registration request",
		"email", params.Email)

	account, err := h.accountService.Register(ctx, params)
	if err != nil {
		h.logger.Error("Account handler: registration failed",
			"email", params.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	return encodeAccount(account)
}

// GetAccount returns the public view of an account.
func (h *Account) GetAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, fieldUsername)
	if err != nil {
		return nil, err
	}

	account, err := h.accountService.GetByUsername(ctx, username)
	if err != nil {
		return nil, handleError(err)
	}

	return encodeAccount(account)
}

// UpdatePhoneNumber sets the phone number of the caller's own account.
func (h *Account) UpdatePhoneNumber(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, fieldUsername)
	if err != nil {
		return nil, err
	}
	phone, err := requiredString(req, fieldPhoneNumber)
	if err != nil {
		return nil, err
	}

	callerID, ok := h.contextManager.GetAccountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authorization token is required")
	}

	account, err := h.accountService.GetByUsername(ctx, username)
	if err != nil {
		return nil, handleError(err)
	}

	if account.ID != callerID {
		h.logger.Warn("Account handler: phone number update for foreign account refused",
			"username", username,
			"caller_id", callerID)
		return nil, status.Error(codes.PermissionDenied, "cannot modify another account")
	}

	account.PhoneNumber = phone

	updated, err := h.accountService.UpdateProfile(ctx, account)
	if err != nil {
		h.logger.Error("Account handler: phone number update failed",
			"username", username,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Account handler: phone number updated",
		"username", username)

	return encodeAccount(updated)
}

// IssueVerification mails a fresh verification code.
func (h *Account) IssueVerification(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, fieldUsername)
	if err != nil {
		return nil, err
	}

	if err := h.accountService.IssueVerification(ctx, username); err != nil {
		h.logger.Error("Account handler: verification issue failed",
			"username", username,
			"error", err.Error())
		return nil, handleError(err)
	}

	return structpb.NewStruct(map[string]any{fieldMessage: VerificationSentMessage})
}

// VerifyEmail checks the submitted code and enables the account.
func (h *Account) VerifyEmail(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, fieldUsername)
	if err != nil {
		return nil, err
	}
	code, err := codeField(req, fieldVerificationCode)
	if err != nil {
		return nil, err
	}

	account, err := h.accountService.VerifyEmail(ctx, username, code)
	if err != nil {
		return nil, handleError(err)
	}

	return encodeAccount(account)
}

// SetPassword stores a new password for the account. The first password
// may be set anonymously; replacing an existing one requires the owner's
// token.
func (h *Account) SetPassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, fieldUsername)
	if err != nil {
		return nil, err
	}
	password, err := secretField(req, fieldPassword)
	if err != nil {
		return nil, err
	}

	current, err := h.accountService.GetByUsername(ctx, username)
	if err != nil {
		return nil, handleError(err)
	}

	if current.PasswordHash != "" {
		callerID, ok := h.contextManager.GetAccountIDFromContext(ctx)
		if !ok {
			h.logger.Warn("Account handler: anonymous password change refused",
				"username", username)
			return nil, status.Error(codes.Unauthenticated, "authorization token is required to change the password")
		}
		if callerID != current.ID {
			h.logger.Warn("Account handler: password change for foreign account refused",
				"username", username,
				"caller_id", callerID)
			return nil, status.Error(codes.PermissionDenied, "cannot modify another account")
		}
	}

	account, err := h.accountService.SetPassword(ctx, username, password)
	if err != nil {
		return nil, handleError(err)
	}

	return encodeAccount(account)
}

// Login returns an access token for valid credentials.
func (h *Account) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, fieldUsername)
	if err != nil {
		return nil, err
	}
	password, err := secretField(req, fieldPassword)
	if err != nil {
		return nil, err
	}

	token, err := h.authService.Login(ctx, username, password)
	if err != nil {
		return nil, handleError(err)
	}

	return structpb.NewStruct(map[string]any{fieldAccessToken: token})
}
