package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PathClass partitions the route surface for the session guard.
type PathClass int

const (
	// PathPublic routes are reachable regardless of session state.
	PathPublic PathClass = iota
	// PathProtected routes require a valid session.
	PathProtected
	// PathAuthOnly routes (login/register) are for anonymous visitors.
	PathAuthOnly
)

// Decision is the outcome of evaluating the guard policy for one request.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionRedirectToSignIn
	DecisionRedirectToDashboard
)

const (
	// SignInPath is where unauthenticated visitors of protected pages land.
	SignInPath = "/login"
	// DashboardPath is where authenticated visitors of auth-only pages land.
	DashboardPath = "/dashboard"
	registerPath  = "/register"
)

// ClassifyPath assigns a request path to its guard class.
func ClassifyPath(path string) PathClass {
	switch {
	case path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/"):
		return PathProtected
	case path == SignInPath || strings.HasPrefix(path, SignInPath+"/"):
		return PathAuthOnly
	case path == registerPath || strings.HasPrefix(path, registerPath+"/"):
		return PathAuthOnly
	default:
		return PathPublic
	}
}

// Decide applies the guard policy table. It is pure so the policy can be
// tested without HTTP plumbing.
func Decide(class PathClass, authenticated bool) Decision {
	switch class {
	case PathProtected:
		if !authenticated {
			return DecisionRedirectToSignIn
		}
	case PathAuthOnly:
		if authenticated {
			return DecisionRedirectToDashboard
		}
	}
	return DecisionAllow
}

// SessionGuard runs before any handler and enforces the redirect policy.
// It inspects only the session cookie, never the request body, and does not
// reveal whether a protected resource exists.
func SessionGuard(tokens *TokenManager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authenticated := false
		if raw := c.Cookies(cookieName); raw != "" {
			if _, err := tokens.ParseToken(raw); err == nil {
				authenticated = true
			}
		}

		switch Decide(ClassifyPath(c.Path()), authenticated) {
		case DecisionRedirectToSignIn:
			return c.Redirect(SignInPath, fiber.StatusSeeOther)
		case DecisionRedirectToDashboard:
			return c.Redirect(DashboardPath, fiber.StatusSeeOther)
		default:
			return c.Next()
		}
	}
}
