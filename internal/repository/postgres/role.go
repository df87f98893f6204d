package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/account-server/internal/model"
)

var _ model.RoleStore = (*RoleRepository)(nil)

type RoleRepository struct {
	db DBTX
}

func NewRoleRepository(db DBTX) *RoleRepository {
	return &RoleRepository{
		db: db,
	}
}

func (r *RoleRepository) GetByAuthority(ctx context.Context, authority string) (model.Role, error) {
	var role model.Role
	query := `SELECT id, authority FROM roles WHERE authority = $1`

	err := r.db.QueryRowContext(ctx, query, authority).Scan(&role.ID, &role.Authority)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Role{}, model.ErrNotFound
		}
		return model.Role{}, fmt.Errorf("failed to get role by authority: %w", err)
	}

	return role, nil
}
