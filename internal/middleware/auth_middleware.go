package middleware

import (
	"context"
	"strings"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/pkg/apperr"
	"go-dulceria-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireAuth
const (
	LocalUserID     = "user_id"
	LocalUserEmail  = "user_email"
	LocalUserName   = "user_name"
	LocalPrivileges = "user_privileges"
)

// Authenticator resolves a token to the staff member behind it.
// service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *jwt.Claims, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>"
func BearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth validates the bearer token against the stored session and
// sets the user info in the request locals
func RequireAuth(auth Authenticator) fiber.Handler {
	return authenticate(auth, func(c *fiber.Ctx) (string, bool) {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return "", false
		}
		return BearerToken(c)
	})
}

// RequireQueryToken is RequireAuth for clients that cannot set headers,
// such as the browser WebSocket API: the token comes in ?token=
func RequireQueryToken(auth Authenticator) fiber.Handler {
	return authenticate(auth, func(c *fiber.Ctx) (string, bool) {
		token := c.Query("token")
		return token, token != ""
	})
}

func authenticate(auth Authenticator, extract func(c *fiber.Ctx) (string, bool)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := extract(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Falta el token de autorización. Usa: Bearer <token>",
				"code":  "missing_token",
			})
		}

		user, _, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return errorJSON(c, err)
		}

		// privileges come from the database so revocations apply at once
		c.Locals(LocalUserID, user.ID.String())
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalUserName, user.FullName)
		c.Locals(LocalPrivileges, user.GetPrivilegeCodes())

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return RequireAnyPrivilege(requiredPrivilege)
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "No tienes permisos asignados",
				"code":  "forbidden",
			})
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Requiere el permiso " + strings.Join(requiredPrivileges, " o "),
			"code":  "forbidden",
		})
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	code, msg := apperr.Public(err)
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": msg, "code": code})
}
