package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/account-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	query := `SELECT id, username, first_name, last_name, email, phone_number, date_of_birth,
			  password_hash, enabled, verification_code, created_at, updated_at
			  FROM accounts WHERE username = $1`

	var (
		account model.Account
		dob     sql.NullTime
		hash    sql.NullString
		code    sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&account.ID, &account.Username, &account.FirstName, &account.LastName, &account.Email,
		&account.PhoneNumber, &dob, &hash, &account.Enabled, &code,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by username: %w", err)
	}

	if dob.Valid {
		account.DateOfBirth = dob.Time
	}
	account.PasswordHash = hash.String
	if code.Valid {
		v := code.Int64
		account.VerificationCode = &v
	}

	account.Roles, err = accountRoles(ctx, r.db, account.ID)
	if err != nil {
		return model.Account{}, err
	}

	return account, nil
}

// Upsert writes the account row and replaces its role links in one
// transaction.
func (r *AccountRepository) Upsert(ctx context.Context, account model.Account) (model.Account, error) {
	query := `INSERT INTO accounts (id, username, first_name, last_name, email, phone_number,
			  date_of_birth, password_hash, enabled, verification_code)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  ON CONFLICT (id) DO UPDATE SET
			  username = EXCLUDED.username,
			  first_name = EXCLUDED.first_name,
			  last_name = EXCLUDED.last_name,
			  email = EXCLUDED.email,
			  phone_number = EXCLUDED.phone_number,
			  date_of_birth = EXCLUDED.date_of_birth,
			  password_hash = EXCLUDED.password_hash,
			  enabled = EXCLUDED.enabled,
			  verification_code = EXCLUDED.verification_code,
			  updated_at = now()
			  RETURNING created_at, updated_at`

	saved := account
	saved.Roles = account.Roles.Clone()
	if account.VerificationCode != nil {
		v := *account.VerificationCode
		saved.VerificationCode = &v
	}

	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		err := tx.QueryRowContext(ctx, query,
			account.ID, account.Username, account.FirstName, account.LastName, account.Email,
			account.PhoneNumber, nullDate(account.DateOfBirth), nullString(account.PasswordHash),
			account.Enabled, nullInt64(account.VerificationCode),
		).Scan(&saved.CreatedAt, &saved.UpdatedAt)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM account_roles WHERE account_id = $1`, account.ID); err != nil {
			return err
		}

		for _, role := range account.Roles.Roles() {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2)`,
				account.ID, role.ID)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.Account{}, model.ErrConflict
		}
		return model.Account{}, fmt.Errorf("failed to upsert account: %w", err)
	}

	return saved, nil
}

func accountRoles(ctx context.Context, db DBTX, accountID uuid.UUID) (model.RoleSet, error) {
	query := `SELECT r.id, r.authority FROM roles r
			  JOIN account_roles ar ON ar.role_id = r.id
			  WHERE ar.account_id = $1`

	rows, err := db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account roles: %w", err)
	}
	defer rows.Close()

	roles := model.NewRoleSet()
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Authority); err != nil {
			return nil, fmt.Errorf("failed to scan account role: %w", err)
		}
		roles.Add(role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account roles: %w", err)
	}

	return roles, nil
}

func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
