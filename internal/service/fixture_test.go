package service

import (
	"context"
	"sync"
	"testing"

	"go-societe-admin/internal/config"
	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/internal/testutil"
	"go-societe-admin/pkg/logger"
	"go-societe-admin/pkg/tokenstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const superAdminEmail = "root@platform.tn"

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(eventType string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	roles    *RoleRegistry
	userRepo repository.UserRepository
	socRepo  repository.SocieteRepository
	tokens   tokenstore.Store
	events   *recorder

	societes SocieteService
	users    UserService
	admins   AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewDB(t)
	log := logger.Discard()

	require.NoError(t, Seed(ctx, db, config.SuperAdminConfig{
		Email:    superAdminEmail,
		Password: "SuperAdmin@2024",
		Name:     "Root",
	}, log))

	roles, err := LoadRoleRegistry(ctx, repository.NewRoleRepo(db))
	require.NoError(t, err)

	userRepo := repository.NewUserRepo(db)
	socRepo := repository.NewSocieteRepo(db)
	require.NoError(t, userRepo.EnsureAdminSocieteIndex(ctx, roles.ID(model.RoleAdmin)))

	assignment := NewAdminAssignment(roles, log)
	tokens := tokenstore.NewMemoryStore()
	events := &recorder{}

	return &fixture{
		ctx:      ctx,
		db:       db,
		roles:    roles,
		userRepo: userRepo,
		socRepo:  socRepo,
		tokens:   tokens,
		events:   events,
		societes: NewSocieteService(db, socRepo, userRepo, roles, assignment, events, log),
		users:    NewUserService(db, userRepo, socRepo, roles, assignment, tokens, events, log),
		admins:   NewAdminService(db, userRepo, socRepo, roles, assignment, tokens, events, log),
	}
}

// societe inserts a bare company row.
func (f *fixture) societe(t *testing.T, nom string) *model.Societe {
	t.Helper()
	s := &model.Societe{
		Nom:      nom,
		Email:    uuid.NewString() + "@societe.tn",
		Pays:     model.DefaultPays,
		IsActive: true,
	}
	require.NoError(t, f.socRepo.Create(f.ctx, s))
	return s
}

// user inserts an account directly, skipping every assignment check.
func (f *fixture) user(t *testing.T, name string, role model.RoleName, societeID *uuid.UUID) *model.User {
	t.Helper()
	u := &model.User{
		Name:      name,
		Email:     uuid.NewString() + "@user.tn",
		Password:  "$2a$10$unused",
		RoleID:    f.roles.ID(role),
		SocieteID: societeID,
		IsActive:  true,
	}
	require.NoError(t, f.userRepo.Create(f.ctx, u))
	return u
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *model.User {
	t.Helper()
	u, err := f.userRepo.FindByID(f.ctx, id)
	require.NoError(t, err)
	return u
}

func (f *fixture) superAdmin(t *testing.T) *model.User {
	t.Helper()
	u, err := f.userRepo.FindByEmail(f.ctx, superAdminEmail)
	require.NoError(t, err)
	return u
}

// adminsOf counts admin rows pointing at societeID.
func (f *fixture) adminsOf(t *testing.T, societeID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.User{}).
		Where("role_id = ? AND societe_id = ?", f.roles.ID(model.RoleAdmin), societeID).
		Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }
