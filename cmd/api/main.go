package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-societe-admin/internal/config"
	"go-societe-admin/internal/handler"
	"go-societe-admin/internal/middleware"
	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/internal/service"
	"go-societe-admin/internal/ws"
	"go-societe-admin/pkg/database"
	"go-societe-admin/pkg/jwt"
	"go-societe-admin/pkg/logger"
	"go-societe-admin/pkg/tokenstore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	ctx := context.Background()

	// 2. Setup Database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db, cfg.DB, log, model.All()...); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// 3. Seed roles, permissions and the super admin
	if err := service.Seed(ctx, db, cfg.SuperAdmin, log); err != nil {
		log.Fatalf("seed database: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	societeRepo := repository.NewSocieteRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	permissionRepo := repository.NewPermissionRepo(db)
	settingRepo := repository.NewSettingRepo(db)

	roles, err := service.LoadRoleRegistry(ctx, roleRepo)
	if err != nil {
		log.Fatalf("load roles: %v", err)
	}
	if err := userRepo.EnsureAdminSocieteIndex(ctx, roles.ID(model.RoleAdmin)); err != nil {
		log.Fatalf("create admin/societe index: %v", err)
	}

	// 4. Token store
	var tokens tokenstore.Store
	if cfg.Redis.Addr != "" {
		client, err := tokenstore.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("connect redis: %v", err)
		}
		defer client.Close()
		tokens = tokenstore.NewRedisStore(client)
		log.WithField("addr", cfg.Redis.Addr).Info("token store: redis")
	} else {
		tokens = tokenstore.NewMemoryStore()
		log.Warn("REDIS_ADDR not set, tokens are kept in memory")
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)
	assignment := service.NewAdminAssignment(roles, log)

	authService := service.NewAuthService(userRepo, roles, jwtService, tokens, log)
	userService := service.NewUserService(db, userRepo, societeRepo, roles, assignment, tokens, wsHub, log)
	adminService := service.NewAdminService(db, userRepo, societeRepo, roles, assignment, tokens, wsHub, log)
	societeService := service.NewSocieteService(db, societeRepo, userRepo, roles, assignment, wsHub, log)
	roleService := service.NewRoleService(db, roleRepo, permissionRepo, log)
	settingService := service.NewSettingService(settingRepo, log)
	dashService := service.NewDashboardService(userRepo, societeRepo, roleRepo, log)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	handler.Register(app, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, log),
		Users:     handler.NewUserHandler(userService, log),
		Societes:  handler.NewSocieteHandler(societeService, log),
		Admins:    handler.NewAdminHandler(adminService, log),
		Roles:     handler.NewRoleHandler(roleService, log),
		Settings:  handler.NewSettingHandler(settingService, log),
		Dashboard: handler.NewDashboardHandler(dashService, log),
		Events:    wsHub.Handler(),
	}, middleware.RequireAuth(authService, log))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Panic(err)
		}
	}()
	log.WithField("port", cfg.App.Port).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	wsHub.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	log.Info("server exited")
}
