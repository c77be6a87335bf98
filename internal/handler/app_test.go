package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-societe-admin/internal/config"
	"go-societe-admin/internal/middleware"
	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/internal/service"
	"go-societe-admin/internal/testutil"
	"go-societe-admin/pkg/jwt"
	"go-societe-admin/pkg/logger"
	"go-societe-admin/pkg/tokenstore"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	rootEmail    = "root@platform.tn"
	rootPassword = "SuperAdmin@2024"
)

type testApp struct {
	app   *fiber.App
	db    *gorm.DB
	roles *service.RoleRegistry
	users repository.UserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewDB(t)
	log := logger.Discard()

	require.NoError(t, service.Seed(ctx, db, config.SuperAdminConfig{
		Email:    rootEmail,
		Password: rootPassword,
		Name:     "Root",
	}, log))

	userRepo := repository.NewUserRepo(db)
	societeRepo := repository.NewSocieteRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	roles, err := service.LoadRoleRegistry(ctx, roleRepo)
	require.NoError(t, err)
	require.NoError(t, userRepo.EnsureAdminSocieteIndex(ctx, roles.ID(model.RoleAdmin)))

	tokens := tokenstore.NewMemoryStore()
	events := service.NopPublisher()
	assignment := service.NewAdminAssignment(roles, log)
	authService := service.NewAuthService(userRepo, roles, jwt.NewService("test-secret", time.Hour, "test"), tokens, log)

	app := fiber.New()
	Register(app, Handlers{
		Auth:      NewAuthHandler(authService, log),
		Users:     NewUserHandler(service.NewUserService(db, userRepo, societeRepo, roles, assignment, tokens, events, log), log),
		Societes:  NewSocieteHandler(service.NewSocieteService(db, societeRepo, userRepo, roles, assignment, events, log), log),
		Admins:    NewAdminHandler(service.NewAdminService(db, userRepo, societeRepo, roles, assignment, tokens, events, log), log),
		Roles:     NewRoleHandler(service.NewRoleService(db, roleRepo, repository.NewPermissionRepo(db), log), log),
		Settings:  NewSettingHandler(service.NewSettingService(repository.NewSettingRepo(db), log), log),
		Dashboard: NewDashboardHandler(service.NewDashboardService(userRepo, societeRepo, roleRepo, log), log),
	}, middleware.RequireAuth(authService, log))

	return &testApp{app: app, db: db, roles: roles, users: userRepo}
}

// do sends a JSON request and decodes the JSON reply into a generic map.
func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (a *testApp) rootToken(t *testing.T) string {
	return a.login(t, rootEmail, rootPassword)
}

// account creates a user with a known password directly in storage.
func (a *testApp) account(t *testing.T, email string, role model.RoleName) *model.User {
	t.Helper()
	u := &model.User{Name: "Someone", Email: email, RoleID: a.roles.ID(role), IsActive: true}
	require.NoError(t, u.SetPassword("password1"))
	require.NoError(t, a.users.Create(context.Background(), u))
	return u
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, body)
	return d
}
