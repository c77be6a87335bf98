package service

import (
	"context"

	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RoleService interface {
	ListActive(ctx context.Context) ([]model.Role, error)
	Get(ctx context.Context, id uint) (*model.Role, error)
	SyncPermissions(ctx context.Context, id uint, req *SyncPermissionsRequest) (*model.Role, error)
	ListPermissions(ctx context.Context) ([]model.Permission, error)
}

// SyncPermissionsRequest replaces the role's permissions wholesale. An empty
// list clears them.
type SyncPermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids" validate:"required"`
}

type roleService struct {
	db          *gorm.DB
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	log         *logrus.Logger
}

func NewRoleService(db *gorm.DB, roles repository.RoleRepository, permissions repository.PermissionRepository, log *logrus.Logger) RoleService {
	return &roleService{db: db, roles: roles, permissions: permissions, log: log}
}

func (s *roleService) ListActive(ctx context.Context) ([]model.Role, error) {
	roles, err := s.roles.FindActive(ctx)
	if err != nil {
		return nil, unexpected(s.log, "list roles", err)
	}
	return roles, nil
}

func (s *roleService) Get(ctx context.Context, id uint) (*model.Role, error) {
	role, err := s.roles.FindByIDWithUsers(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, unexpected(s.log, "find role", err)
	}
	return role, nil
}

func (s *roleService) SyncPermissions(ctx context.Context, id uint, req *SyncPermissionsRequest) (*model.Role, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	ids := uniqueIDs(req.PermissionIDs)

	var role *model.Role
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := s.roles.WithTx(tx)

		var err error
		role, err = roles.FindByID(ctx, id)
		if repository.IsNotFound(err) {
			return ErrRoleNotFound
		}
		if err != nil {
			return err
		}

		perms, err := s.permissions.WithTx(tx).FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(perms) != len(ids) {
			return ErrUnknownPermission
		}
		if err := roles.ReplacePermissions(ctx, role, perms); err != nil {
			return err
		}

		role, err = roles.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, unexpected(s.log, "sync role permissions", err)
	}

	s.log.WithFields(logrus.Fields{"role": role.Name, "permissions": len(ids)}).Info("role permissions replaced")
	return role, nil
}

func (s *roleService) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	perms, err := s.permissions.FindAll(ctx)
	if err != nil {
		return nil, unexpected(s.log, "list permissions", err)
	}
	return perms, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
