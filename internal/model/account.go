package model

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultRole is the authority every registered account receives.
const DefaultRole = "USER"

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	// GetByUsername returns ErrNotFound when no account has the username.
	GetByUsername(ctx context.Context, username string) (Account, error)
	// Upsert inserts or replaces the account. A write that violates
	// username or email uniqueness returns ErrConflict.
	Upsert(ctx context.Context, account Account) (Account, error)
}

// RoleStore defines lookup operations for role reference data.
type RoleStore interface {
	GetByAuthority(ctx context.Context, authority string) (Role, error)
}

// Account represents a registered user account.
type Account struct {
	ID          uuid.UUID
	Username    string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	DateOfBirth time.Time
	// PasswordHash is empty until a password is set.
	PasswordHash string
	Enabled      bool
	// VerificationCode is nil unless a verification is pending.
	VerificationCode *int64
	Roles            RoleSet
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPendingVerification reports whether a verification code was issued
// and not yet confirmed.
func (a Account) HasPendingVerification() bool {
	return a.VerificationCode != nil
}

// RegistrationParams carries the caller-supplied registration fields.
type RegistrationParams struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
}

// Role is a named authority.
type Role struct {
	ID        uuid.UUID
	Authority string
}

// RoleSet is a set of roles keyed by authority.
type RoleSet map[string]Role

// NewRoleSet builds a set from the given roles, first occurrence wins.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s.Add(r)
	}
	return s
}

// Add inserts the role unless a role with the same authority is present.
// It reports whether the set changed.
func (s RoleSet) Add(r Role) bool {
	if _, ok := s[r.Authority]; ok {
		return false
	}
	s[r.Authority] = r
	return true
}

// Has reports whether the set contains the authority.
func (s RoleSet) Has(authority string) bool {
	_, ok := s[authority]
	return ok
}

// Len returns the number of roles.
func (s RoleSet) Len() int {
	return len(s)
}

// Authorities returns the sorted role names.
func (s RoleSet) Authorities() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Roles returns the roles ordered by authority.
func (s RoleSet) Roles() []Role {
	roles := make([]Role, 0, len(s))
	for _, name := range s.Authorities() {
		roles = append(roles, s[name])
	}
	return roles
}

// Clone returns an independent copy of the set.
func (s RoleSet) Clone() RoleSet {
	c := make(RoleSet, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}
