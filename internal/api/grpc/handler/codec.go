package handler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/account-server/internal/model"
)

// DateLayout is the wire format of dates of birth.
const DateLayout = "2006-01-02"

// Request and response field names.
const (
	fieldUserID           = "userId"
	fieldUsername         = "username"
	fieldFirstName        = "firstName"
	fieldLastName         = "lastName"
	fieldEmail            = "email"
	fieldPhoneNumber      = "phoneNumber"
	fieldDateOfBirth      = "dateOfBirth"
	fieldEnabled          = "enabled"
	fieldAuthorities      = "authorities"
	fieldVerificationCode = "verificationCode"
	fieldPassword         = "password"
	fieldAccessToken      = "accessToken"
	fieldMessage          = "message"
	fieldCreatedAt        = "createdAt"
	fieldUpdatedAt        = "updatedAt"
)

// stringField returns the trimmed string value of name, or "" when the field
// is absent or not a string.
func stringField(req *structpb.Struct, name string) string {
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s.StringValue)
}

func requiredString(req *structpb.Struct, name string) (string, error) {
	s := stringField(req, name)
	if s == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return s, nil
}

// secretField returns the raw value of name without trimming.
func secretField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name].GetKind().(*structpb.Value_StringValue)
	if !ok || v.StringValue == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return v.StringValue, nil
}

// dateField parses an optional date. An absent field yields the zero time.
func dateField(req *structpb.Struct, name string) (time.Time, error) {
	s := stringField(req, name)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s must be formatted as %s", name, DateLayout)
	}
	return t, nil
}

// codeField accepts a verification code sent either as a JSON number or as
// a decimal string.
func codeField(req *structpb.Struct, name string) (int64, error) {
	invalid := status.Errorf(codes.InvalidArgument, "%s must be a non-negative integer", name)

	v, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}

	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
			return 0, invalid
		}
		return int64(f), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(k.StringValue), 10, 64)
		if err != nil || n < 0 {
			return 0, invalid
		}
		return n, nil
	default:
		return 0, invalid
	}
}

// encodeAccount renders the public view of an account. The password hash and
// the pending code are never included.
func encodeAccount(a model.Account) (*structpb.Struct, error) {
	authorities := make([]any, 0, len(a.Roles))
	for _, name := range a.Roles.Authorities() {
		authorities = append(authorities, name)
	}

	dob := ""
	if !a.DateOfBirth.IsZero() {
		dob = a.DateOfBirth.Format(DateLayout)
	}

	fields := map[string]any{
		fieldUserID:      a.ID.String(),
		fieldUsername:    a.Username,
		fieldFirstName:   a.FirstName,
		fieldLastName:    a.LastName,
		fieldEmail:       a.Email,
		fieldPhoneNumber: a.PhoneNumber,
		fieldDateOfBirth: dob,
		fieldEnabled:     a.Enabled,
		fieldAuthorities: authorities,
	}
	if !a.CreatedAt.IsZero() {
		fields[fieldCreatedAt] = a.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !a.UpdatedAt.IsZero() {
		fields[fieldUpdatedAt] = a.UpdatedAt.UTC().Format(time.RFC3339)
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode account: %w", err)
	}
	return s, nil
}
