package domain

// Role is the authorization class the backend assigns at registration.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole maps a raw role string onto a known Role. Unknown strings come
// back with ok=false; callers decide the fallback (the router degrades them
// to the least-privileged patient view).
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

func (r Role) String() string { return string(r) }
