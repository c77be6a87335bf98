package repository

import (
	"context"

	"go-societe-admin/internal/model"

	"gorm.io/gorm"
)

// RoleUserCount is one row of the users-per-role statistic.
type RoleUserCount struct {
	Name        model.RoleName `json:"name"`
	DisplayName string         `json:"display_name"`
	UsersCount  int64          `json:"users_count"`
}

type RoleRepository interface {
	WithTx(tx *gorm.DB) RoleRepository
	FindAll(ctx context.Context) ([]model.Role, error)
	FindActive(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByIDWithUsers(ctx context.Context, id uint) (*model.Role, error)
	FindByName(ctx context.Context, name model.RoleName) (*model.Role, error)
	ReplacePermissions(ctx context.Context, role *model.Role, permissions []model.Permission) error
	CountUsers(ctx context.Context) ([]RoleUserCount, error)
	SeedDefaults(ctx context.Context) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) WithTx(tx *gorm.DB) RoleRepository {
	return &roleRepo{db: tx}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Order("id").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindActive(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("is_active = ?", true).Order("id").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByIDWithUsers(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Preload("Users").First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByName(ctx context.Context, name model.RoleName) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) ReplacePermissions(ctx context.Context, role *model.Role, permissions []model.Permission) error {
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(permissions)
}

func (r *roleRepo) CountUsers(ctx context.Context) ([]RoleUserCount, error) {
	var rows []RoleUserCount
	err := r.db.WithContext(ctx).
		Table("roles").
		Select("roles.name AS name, roles.display_name AS display_name, COUNT(users.id) AS users_count").
		Joins("LEFT JOIN users ON users.role_id = roles.id").
		Group("roles.id, roles.name, roles.display_name").
		Order("roles.id").
		Scan(&rows).Error
	return rows, err
}

// SeedDefaults upserts the default roles by name
func (r *roleRepo) SeedDefaults(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	for _, defaultRole := range model.DefaultRoles {
		var existing model.Role
		err := db.Where("name = ?", defaultRole.Name).First(&existing).Error
		if IsNotFound(err) {
			role := defaultRole
			if err := db.Create(&role).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"display_name": defaultRole.DisplayName,
			"description":  defaultRole.Description,
			"is_active":    defaultRole.IsActive,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
