package domain

// AuthState is the session lifecycle state. UNKNOWN exists only before the
// startup check runs; VERIFYING is transient; the other two are the rest
// states.
type AuthState int

const (
	AuthUnknown AuthState = iota
	AuthVerifying
	Authenticated
	Unauthenticated
)

func (s AuthState) String() string {
	switch s {
	case AuthVerifying:
		return "verifying"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session is an immutable snapshot of the current authentication status,
// handed to subscribers and to the authorization gate.
//
// User may lag behind State: a login whose profile fetch timed out yields
// State == Authenticated with User == nil. Consumers must read a nil User as
// "profile still loading", never as "not signed in".
type Session struct {
	State              AuthState
	Credential         string
	User               *UserProfile
	ConnectionDegraded bool
}

// RoleHint is the best available role for routing decisions before the
// profile fetch lands: the fetched profile's role when present, otherwise
// the role claim cached alongside the credential.
func (s Session) RoleHint(cached string) (Role, bool) {
	if s.User != nil {
		return ParseRole(s.User.Role)
	}
	return ParseRole(cached)
}
