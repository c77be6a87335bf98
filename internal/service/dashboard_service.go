package service

import (
	"context"

	"go-societe-admin/internal/repository"

	"github.com/sirupsen/logrus"
)

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type DashboardStats struct {
	TotalUsers    int64                      `json:"total_users"`
	TotalSocietes int64                      `json:"total_societes"`
	Roles         []repository.RoleUserCount `json:"roles"`
}

type dashboardService struct {
	users    repository.UserRepository
	societes repository.SocieteRepository
	roles    repository.RoleRepository
	log      *logrus.Logger
}

func NewDashboardService(users repository.UserRepository, societes repository.SocieteRepository, roles repository.RoleRepository, log *logrus.Logger) DashboardService {
	return &dashboardService{users: users, societes: societes, roles: roles, log: log}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, unexpected(s.log, "count users", err)
	}
	if stats.TotalSocietes, err = s.societes.Count(ctx); err != nil {
		return nil, unexpected(s.log, "count societes", err)
	}
	if stats.Roles, err = s.roles.CountUsers(ctx); err != nil {
		return nil, unexpected(s.log, "count users per role", err)
	}
	return &stats, nil
}
