package service

import (
	"testing"

	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	f.user(t, "A", model.RoleAdmin, &c.ID)
	f.user(t, "K", model.RoleCommercial, &c.ID)
	f.user(t, "K2", model.RoleCommercial, nil)

	svc := NewDashboardService(f.userRepo, f.socRepo, repository.NewRoleRepo(f.db), logger.Discard())
	stats, err := svc.GetDashboardStats(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalSocietes)

	counts := map[model.RoleName]int64{}
	for _, r := range stats.Roles {
		counts[r.Name] = r.UsersCount
	}
	assert.Equal(t, map[model.RoleName]int64{
		model.RoleSuperAdmin: 1,
		model.RoleAdmin:      1,
		model.RoleCommercial: 2,
		model.RoleClient:     0,
	}, counts)
}
