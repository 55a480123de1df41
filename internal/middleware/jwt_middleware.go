package middleware

import (
	"errors"
	"strings"

	"recipehub/internal/models"
	"recipehub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired.
const (
	LocalUser   = "user"
	LocalUserID = "user_id"
)

// AuthRequired is a Fiber middleware that resolves a bearer token to an
// authenticated user, or rejects the request with 401. The header may carry
// either "Bearer <token>" or the bare token. The resolved user is loaded
// without its password hash and stored in the request locals; the
// middleware never mutates store state.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		tokenString := strings.TrimSpace(authHeader)
		if parts := strings.SplitN(tokenString, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = strings.TrimSpace(parts[1])
		}
		if tokenString == "" {
			return unauthorized(c, "Authorization header is malformed")
		}

		userID, err := authService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				return unauthorized(c, "Token has expired")
			}
			return unauthorized(c, "Invalid token")
		}

		user, err := authService.GetUserForRequest(userID)
		if err != nil {
			// Token was valid but the identity no longer resolves.
			return unauthorized(c, "Unknown or inactive user")
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID)
		return c.Next()
	}
}

// RequireRole is a Fiber middleware layered after AuthRequired that rejects
// the request with 403 unless the authenticated user's role is in the
// allowed set.
func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c, "Authentication required")
		}
		for _, role := range allowed {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Insufficient permissions",
		})
	}
}

// CurrentUser returns the authenticated user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalUser).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
