// Package middleware contains the request-boundary guards: the role-based
// access boundary for browser routes and the API key gateway for
// programmatic routes.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/repository"
)

// SessionUserKey is the session field holding the authenticated user id.
const SessionUserKey = "user_id"

const (
	LoginPath  = "/login"
	SignupPath = "/signup"
)

const (
	adminZone    = "/admin"
	sellerZone   = "/seller"
	driverZone   = "/driver"
	customerZone = "/dashboard"
)

// Action is the boundary's verdict for one request.
type Action struct {
	Allow      bool
	RedirectTo string
}

var actionAllow = Action{Allow: true}

func redirect(to string) Action {
	return Action{RedirectTo: to}
}

// HomePath maps a role to its home zone entry point.
func HomePath(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return adminZone
	case domain.RoleSeller:
		return sellerZone
	case domain.RoleStaff:
		return driverZone
	default:
		return customerZone
	}
}

func zoneOf(path string) string {
	for _, zone := range []string{adminZone, sellerZone, driverZone, customerZone} {
		if strings.HasPrefix(path, zone) {
			return zone
		}
	}
	return ""
}

// Decide is the pure access decision: (role, authenticated, path) to an
// action. It has no side effects, which keeps the whole boundary testable
// without a running request pipeline.
//
// The driver zone is intentionally reachable without authentication; the
// other three zones redirect guests to the login page. Authenticated users
// are confined to their own zone and bounced home (not rejected) when they
// cross into a foreign one.
func Decide(role domain.Role, authenticated bool, path string) Action {
	if !authenticated {
		switch zoneOf(path) {
		case adminZone, sellerZone, customerZone:
			return redirect(LoginPath)
		}
		return actionAllow
	}

	if strings.HasPrefix(path, LoginPath) || strings.HasPrefix(path, SignupPath) {
		return redirect(HomePath(role))
	}

	zone := zoneOf(path)
	if zone == "" {
		return actionAllow
	}
	if zone != HomePath(role) {
		return redirect(HomePath(role))
	}
	return actionAllow
}

// Prefixes the boundary never inspects: static assets, auth callbacks, the
// key-guarded programmatic surface and the public tracking page.
var skipPrefixes = []string{
	"/assets",
	"/static",
	"/auth/callback",
	"/v1",
	"/track",
	"/healthz",
}

// AccessBoundary applies Decide to every browser route, resolving identity
// from the session store and role from the user repository.
func AccessBoundary(store *session.Store, users repository.UserRepository, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		authenticated := false
		role := domain.RoleUser

		sess, err := store.Get(c)
		if err != nil {
			logger.Warn("session resolution error", zap.Error(err))
		} else if raw, ok := sess.Get(SessionUserKey).(string); ok && raw != "" {
			userID, parseErr := uuid.Parse(raw)
			if parseErr == nil {
				authenticated = true
				role, err = users.GetRole(c.Context(), userID)
				if err != nil {
					logger.Warn("role resolution error",
						zap.String("user_id", raw),
						zap.Error(err),
					)
					role = domain.RoleUser
				}
			}
		}

		action := Decide(role, authenticated, path)
		if action.Allow {
			return c.Next()
		}
		return c.Redirect(action.RedirectTo, fiber.StatusFound)
	}
}
