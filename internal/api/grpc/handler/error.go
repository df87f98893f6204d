package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/account-server/internal/model"
)

var errorStatuses = []struct {
	err  error
	code codes.Code
	msg  string
}{
	{model.ErrAccountNotFound, codes.NotFound, "the account doesn't exist"},
	{model.ErrDuplicateAccount, codes.AlreadyExists, "the provided email or username already exists"},
	{model.ErrNotificationFailed, codes.Unavailable, "failed to send email, try again later"},
	{model.ErrInvalidVerificationCode, codes.FailedPrecondition, "incorrect verification code"},
	{model.ErrInvalidCredentials, codes.Unauthenticated, "invalid username or password"},
	{model.ErrPasswordTooLong, codes.InvalidArgument, "password must not exceed 72 bytes"},
}

// handleError converts service errors to gRPC status errors. Unknown errors,
// including a missing default role, become Internal without details.
func handleError(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return status.Error(s.code, s.msg)
		}
	}

	return status.Error(codes.Internal, "internal server error")
}
