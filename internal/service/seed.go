package service

import (
	"context"
	"fmt"

	"go-societe-admin/internal/config"
	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Seed creates the reference data the platform cannot run without: the four
// roles, the default permissions (all granted to super_admin when it has
// none) and the configured super admin account.
func Seed(ctx context.Context, db *gorm.DB, superAdmin config.SuperAdminConfig, log *logrus.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := repository.NewRoleRepo(tx)
		permissions := repository.NewPermissionRepo(tx)
		users := repository.NewUserRepo(tx)

		if err := permissions.SeedDefaults(ctx); err != nil {
			return fmt.Errorf("seed permissions: %w", err)
		}
		if err := roles.SeedDefaults(ctx); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}

		superRole, err := roles.FindByName(ctx, model.RoleSuperAdmin)
		if err != nil {
			return fmt.Errorf("load super_admin role: %w", err)
		}
		if len(superRole.Permissions) == 0 {
			all, err := permissions.FindAll(ctx)
			if err != nil {
				return err
			}
			if err := roles.ReplacePermissions(ctx, superRole, all); err != nil {
				return fmt.Errorf("grant super_admin permissions: %w", err)
			}
			log.WithField("permissions", len(all)).Info("super_admin role granted all permissions")
		}

		_, err = users.FindByEmail(ctx, superAdmin.Email)
		if err == nil {
			return nil
		}
		if !repository.IsNotFound(err) {
			return err
		}

		admin := &model.User{
			Name:     superAdmin.Name,
			Email:    superAdmin.Email,
			RoleID:   superRole.ID,
			IsActive: true,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"
		if err := admin.SetPassword(superAdmin.Password); err != nil {
			return fmt.Errorf("hash super admin password: %w", err)
		}
		if err := users.Create(ctx, admin); err != nil {
			return fmt.Errorf("create super admin: %w", err)
		}
		log.WithField("email", admin.Email).Info("super admin account created")
		return nil
	})
}
