package middleware

import (
	"strings"

	"go-societe-admin/internal/model"
	"go-societe-admin/internal/service"
	"go-societe-admin/pkg/apperror"
	"go-societe-admin/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID      = "user_id"
	LocalRole        = "role"
	LocalPermissions = "permissions"
	LocalTokenID     = "token_id"
	LocalPrincipal   = "principal"
)

// RequireAuth validates the bearer token against the token store and loads
// the caller. Browsers opening /ws cannot set headers, so the token may also
// come from the "token" query parameter.
func RequireAuth(auth service.AuthService, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		principal, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindInternal {
				log.WithError(err).Error("authenticate request")
			}
			return response.Error(c, err)
		}

		c.Locals(LocalUserID, principal.User.ID.String())
		c.Locals(LocalRole, principal.User.RoleName())
		c.Locals(LocalPermissions, principal.Permissions)
		c.Locals(LocalTokenID, principal.TokenID)
		c.Locals(LocalPrincipal, principal)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return c.Query("token")
}

// RequireRole lets the request through when the caller holds one of names.
func RequireRole(names ...model.RoleName) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(model.RoleName)
		if !ok {
			return response.Unauthorized(c, "")
		}
		for _, name := range names {
			if role == name {
				return c.Next()
			}
		}
		return response.Forbidden(c, "Access denied for role "+string(role))
	}
}

// RequirePermission checks the caller's role grants the named permission.
func RequirePermission(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		perms, ok := c.Locals(LocalPermissions).([]string)
		if !ok {
			return response.Unauthorized(c, "")
		}
		for _, p := range perms {
			if p == name {
				return c.Next()
			}
		}
		return response.Forbidden(c, "Forbidden: requires '"+name+"' permission")
	}
}

// CurrentPrincipal returns the caller loaded by RequireAuth, or nil.
func CurrentPrincipal(c *fiber.Ctx) *service.Principal {
	p, _ := c.Locals(LocalPrincipal).(*service.Principal)
	return p
}

// ActorID is the caller's id for audit columns, "system" outside auth.
func ActorID(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalUserID).(string); ok {
		return id
	}
	return "system"
}
