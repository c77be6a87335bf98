package service

import (
	"context"
	"fmt"

	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
)

// RoleRegistry maps role names to ids. It is built once after seeding and
// never changes afterwards.
type RoleRegistry struct {
	byName map[model.RoleName]uint
	byID   map[uint]model.RoleName
}

// NewRoleRegistry fails when any of the known roles is missing from roles.
func NewRoleRegistry(roles []model.Role) (*RoleRegistry, error) {
	r := &RoleRegistry{
		byName: make(map[model.RoleName]uint, len(roles)),
		byID:   make(map[uint]model.RoleName, len(roles)),
	}
	for _, role := range roles {
		if !role.Name.Valid() {
			continue
		}
		r.byName[role.Name] = role.ID
		r.byID[role.ID] = role.Name
	}
	for _, name := range model.AllRoleNames {
		if _, ok := r.byName[name]; !ok {
			return nil, fmt.Errorf("role %q is not seeded", name)
		}
	}
	return r, nil
}

// LoadRoleRegistry reads every role from storage.
func LoadRoleRegistry(ctx context.Context, roles repository.RoleRepository) (*RoleRegistry, error) {
	all, err := roles.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	return NewRoleRegistry(all)
}

func (r *RoleRegistry) ID(name model.RoleName) uint {
	return r.byName[name]
}

// Name returns the role name for id, or "" when the id is unknown.
func (r *RoleRegistry) Name(id uint) model.RoleName {
	return r.byID[id]
}

func (r *RoleRegistry) Is(id uint, name model.RoleName) bool {
	return r.byName[name] == id
}

func (r *RoleRegistry) Known(id uint) bool {
	_, ok := r.byID[id]
	return ok
}
