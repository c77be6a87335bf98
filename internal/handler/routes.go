package handler

import (
	"go-societe-admin/internal/middleware"
	"go-societe-admin/internal/model"
	"go-societe-admin/internal/ws"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler mounted by Register.
type Handlers struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Societes  *SocieteHandler
	Admins    *AdminHandler
	Roles     *RoleHandler
	Settings  *SettingHandler
	Dashboard *DashboardHandler
	// Events serves the websocket stream; nil leaves /ws unmounted.
	Events fiber.Handler
}

// Register mounts the API under /api. requireAuth must be the middleware
// returned by middleware.RequireAuth.
func Register(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/register", h.Auth.Register)
	auth.Post("/logout", requireAuth, h.Auth.Logout)
	auth.Get("/user", requireAuth, h.Auth.Me)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	users := protected.Group("/users", middleware.RequirePermission(model.PermUsersManage))
	users.Get("/", h.Users.GetUsers)
	users.Get("/:id", h.Users.GetUser)
	users.Post("/", h.Users.CreateUser)
	users.Put("/:id", h.Users.UpdateUser)
	users.Delete("/:id", h.Users.DeleteUser)

	super := protected.Group("", middleware.RequireRole(model.RoleSuperAdmin))

	super.Get("/societes", h.Societes.GetSocietes)
	super.Get("/societes/export", h.Societes.ExportSocietes)
	super.Post("/societes/with-admin", h.Societes.CreateSocieteWithAdmin)
	super.Get("/societes/:id", h.Societes.GetSociete)
	super.Post("/societes", h.Societes.CreateSociete)
	super.Put("/societes/:id", h.Societes.UpdateSociete)
	super.Delete("/societes/:id", h.Societes.DeleteSociete)

	super.Get("/admins", h.Admins.GetAdmins)
	super.Get("/admins/:id", h.Admins.GetAdmin)
	super.Post("/admins", h.Admins.CreateAdmin)
	super.Put("/admins/:id", h.Admins.UpdateAdmin)
	super.Delete("/admins/:id", h.Admins.DeleteAdmin)

	super.Get("/roles", h.Roles.GetRoles)
	super.Get("/roles/:id", h.Roles.GetRole)
	super.Put("/roles/:id/permissions", h.Roles.SyncPermissions)
	super.Get("/permissions", h.Roles.GetPermissions)

	super.Get("/settings", h.Settings.GetSettings)
	super.Put("/settings", h.Settings.SaveSettings)

	super.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)

	// WebSocket Route
	if h.Events != nil {
		app.Get("/ws", ws.UpgradeOnly, requireAuth, middleware.RequireRole(model.RoleSuperAdmin), h.Events)
	}
}
