package middleware

import (
	"context"
	"strings"

	"github.com/geordanr/xwing-backend/internal/models"
	"github.com/geordanr/xwing-backend/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

const UserIDKey = "user_id"

// IdentityResolver maps a validated session subject back to a user,
// rejecting stale sessions whose user document is gone.
type IdentityResolver interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

func Auth(jwtService *services.JWTService, identity IdentityResolver) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		user, err := identity.Authenticate(context.Background(), claims.UserID)
		if err != nil {
			c.Unauthorized("session is no longer valid")
			return
		}

		c.Set(UserIDKey, user.ID)

		c.Next()
	}
}

func GetUserID(c *drift.Context) string {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(string); ok {
			return uid
		}
	}
	return ""
}
