package routes

import "github.com/oakmed/carebook/internal/portal/domain"

const (
	AdminLanding   = "/admin-dashboard"
	DoctorLanding  = "/doctor-dashboard"
	PatientLanding = "/patient-dashboard"
	LoginPath      = "/login"
)

// LandingPath maps a role to its default dashboard. Unrecognized roles land
// on the patient dashboard; the fallback is deliberate, unknown roles
// degrade to the least-privileged view.
func LandingPath(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return AdminLanding
	case domain.RoleDoctor:
		return DoctorLanding
	default:
		return PatientLanding
	}
}

// LandingPathFor resolves the landing view for a session, preferring the
// fetched profile's role and falling back to the cached hint.
func LandingPathFor(session domain.Session, roleHint string) string {
	role, _ := session.RoleHint(roleHint)
	return LandingPath(role)
}
