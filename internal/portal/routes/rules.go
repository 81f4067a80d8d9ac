package routes

import "github.com/oakmed/carebook/internal/portal/domain"

// Rule couples a path with the roles allowed through it. An empty AllowedRoles
// set means any authenticated user.
type Rule struct {
	Path         string
	AllowedRoles []domain.Role
}

var (
	patientAdmin = []domain.Role{domain.RolePatient, domain.RoleAdmin}
	allRoles     = []domain.Role{domain.RolePatient, domain.RoleDoctor, domain.RoleAdmin}
	adminOnly    = []domain.Role{domain.RoleAdmin}
	doctorOnly   = []domain.Role{domain.RoleDoctor}
	patientOnly  = []domain.Role{domain.RolePatient}
)

// table is the portal's authorization surface. Every protected view appears
// exactly once; Lookup falls back to authenticated-only for paths not listed.
var table = []Rule{
	{Path: "/", AllowedRoles: nil},
	{Path: "/dashboard", AllowedRoles: nil},
	{Path: "/admin-dashboard", AllowedRoles: adminOnly},
	{Path: "/patient-dashboard", AllowedRoles: patientOnly},
	{Path: "/doctor-dashboard", AllowedRoles: doctorOnly},
	{Path: "/book", AllowedRoles: patientAdmin},
	{Path: "/appointments", AllowedRoles: allRoles},
	{Path: "/doctors", AllowedRoles: patientAdmin},
	{Path: "/patients", AllowedRoles: adminOnly},
	{Path: "/my-patients", AllowedRoles: doctorOnly},
	{Path: "/set-availability", AllowedRoles: doctorOnly},
	{Path: "/admin/doctors", AllowedRoles: adminOnly},
	{Path: "/doctor/profile", AllowedRoles: doctorOnly},
}

// Lookup returns the rule for path. Unlisted paths get an authenticated-only
// rule, mirroring the catch-all that sends unknown paths to the dashboard.
func Lookup(path string) Rule {
	for _, r := range table {
		if r.Path == path {
			return r
		}
	}
	return Rule{Path: path}
}

// AdmitPath is the per-navigation entry point: one rule lookup, one
// admission check.
func AdmitPath(session domain.Session, roleHint, path string) Decision {
	return Admit(session, roleHint, Lookup(path).AllowedRoles)
}
