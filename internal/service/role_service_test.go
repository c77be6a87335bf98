package service

import (
	"testing"

	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoleService(f *fixture) RoleService {
	return NewRoleService(f.db, repository.NewRoleRepo(f.db), repository.NewPermissionRepo(f.db), logger.Discard())
}

func TestListActiveRolesAndPermissions(t *testing.T) {
	f := newFixture(t)
	svc := newRoleService(f)

	roles, err := svc.ListActive(f.ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(model.AllRoleNames))

	perms, err := svc.ListPermissions(f.ctx)
	require.NoError(t, err)
	require.Len(t, perms, len(model.DefaultPermissions))
	for i := 1; i < len(perms); i++ {
		assert.LessOrEqual(t, perms[i-1].Name, perms[i].Name)
	}
}

func TestGetRoleWithUsers(t *testing.T) {
	f := newFixture(t)
	svc := newRoleService(f)
	f.user(t, "A", model.RoleAdmin, nil)

	role, err := svc.Get(f.ctx, f.roles.ID(model.RoleAdmin))
	require.NoError(t, err)
	assert.Len(t, role.Users, 1)

	_, err = svc.Get(f.ctx, 999)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestSyncPermissions(t *testing.T) {
	f := newFixture(t)
	svc := newRoleService(f)
	perms, err := svc.ListPermissions(f.ctx)
	require.NoError(t, err)

	adminID := f.roles.ID(model.RoleAdmin)
	role, err := svc.SyncPermissions(f.ctx, adminID, &SyncPermissionsRequest{
		PermissionIDs: []uint{perms[0].ID, perms[1].ID, perms[0].ID},
	})
	require.NoError(t, err)
	assert.Len(t, role.Permissions, 2)

	_, err = svc.SyncPermissions(f.ctx, adminID, &SyncPermissionsRequest{PermissionIDs: []uint{perms[0].ID, 9999}})
	require.ErrorIs(t, err, ErrUnknownPermission)

	role, err = svc.SyncPermissions(f.ctx, adminID, &SyncPermissionsRequest{PermissionIDs: []uint{}})
	require.NoError(t, err)
	assert.Empty(t, role.Permissions)

	_, err = svc.SyncPermissions(f.ctx, adminID, &SyncPermissionsRequest{})
	require.Error(t, err)
}
