package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/account-server/internal/model"
)

var _ model.RoleStore = (*RoleRepository)(nil)

// RoleRepository holds role reference data.
type RoleRepository struct {
	mu    sync.RWMutex
	roles map[string]model.Role
}

// NewRoleRepository creates a repository holding the given authorities,
// each with a fresh ID.
func NewRoleRepository(authorities ...string) *RoleRepository {
	r := &RoleRepository{roles: make(map[string]model.Role, len(authorities))}
	for _, a := range authorities {
		r.roles[a] = model.Role{ID: uuid.New(), Authority: a}
	}
	return r
}

func (r *RoleRepository) GetByAuthority(_ context.Context, authority string) (model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[authority]
	if !ok {
		return model.Role{}, model.ErrNotFound
	}
	return role, nil
}

// Put adds or replaces a role.
func (r *RoleRepository) Put(role model.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[role.Authority] = role
}
