package domain

// UserProfile is the backend's view of the signed-in user, returned by
// GET /auth/me. Role-specific fields are owned by the backend and passed
// through untouched; the portal core only ever reads Role.
type UserProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`

	PhoneNumber string `json:"phoneNumber,omitempty"`

	// Specialization is set for doctors only.
	Specialization string `json:"specialization,omitempty"`

	// DateOfBirth is set for patients only, formatted YYYY-MM-DD.
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}
