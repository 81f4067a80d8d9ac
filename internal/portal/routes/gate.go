package routes

import (
	"github.com/oakmed/carebook/internal/portal/domain"
)

// Verdict tags the outcome of an admission check.
type Verdict int

const (
	// Wait means the session is still being verified; render a loading
	// affordance and do not redirect yet.
	Wait Verdict = iota

	// RedirectToLogin means no authenticated session exists.
	RedirectToLogin

	// Deny means the session is authenticated but the role is not in the
	// route's allowed set; render an access-denied view, not a redirect.
	Deny

	// Allow admits the navigation.
	Allow
)

func (v Verdict) String() string {
	switch v {
	case Wait:
		return "wait"
	case RedirectToLogin:
		return "redirect_to_login"
	case Deny:
		return "deny"
	default:
		return "allow"
	}
}

// Decision is the full admission outcome. For Deny it carries what the
// access-denied view shows: the user's actual role and the roles the route
// wanted.
type Decision struct {
	Verdict       Verdict
	UserRole      domain.Role
	RequiredRoles []domain.Role
}

// Admit evaluates one navigation against one rule. Pure: no I/O, no
// mutation, never panics.
//
// roleHint is the cached role claim used when the profile has not loaded
// yet; an authenticated session with a nil profile is admitted on the hint
// rather than bounced to login.
func Admit(session domain.Session, roleHint string, required []domain.Role) Decision {
	switch session.State {
	case domain.AuthVerifying, domain.AuthUnknown:
		return Decision{Verdict: Wait}
	case domain.Authenticated:
	default:
		return Decision{Verdict: RedirectToLogin}
	}

	role, known := session.RoleHint(roleHint)
	if !known {
		// An authenticated session with an unrecognized role degrades to
		// the least-privileged role for admission purposes.
		role = domain.RolePatient
	}

	if len(required) == 0 {
		return Decision{Verdict: Allow, UserRole: role}
	}

	for _, r := range required {
		if r == role {
			return Decision{Verdict: Allow, UserRole: role}
		}
	}

	return Decision{Verdict: Deny, UserRole: role, RequiredRoles: required}
}
