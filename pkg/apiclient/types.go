package apiclient

// ============================================================================
// Auth Types
// ============================================================================

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserProfile is the signed-in user as GET /auth/me returns it.
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

// LoginResponse carries the minted bearer credential and the signed-in
// user's profile.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// RegisterRequest is the POST /auth/register body. Which optional fields are
// required depends on Role: phone for everyone, date of birth for patients,
// specialization for doctors.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	PhoneNumber    string `json:"phoneNumber,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Specialization string `json:"specialization,omitempty"`
}

// ============================================================================
// Appointment Types
// ============================================================================

// Appointment statuses as the backend spells them. SCHEDULED and PENDING are
// both "awaiting doctor approval"; the backend has used both over time.
const (
	StatusScheduled = "SCHEDULED"
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusApproved  = "APPROVED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusRejected  = "REJECTED"
)

// AppointmentParty is the embedded patient/doctor summary on an appointment.
type AppointmentParty struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// Appointment mirrors the backend appointment entity.
type Appointment struct {
	ID              int64             `json:"id"`
	Patient         *AppointmentParty `json:"patient,omitempty"`
	Doctor          *AppointmentParty `json:"doctor,omitempty"`
	AppointmentDate string            `json:"appointmentDate"` // YYYY-MM-DD
	AppointmentTime string            `json:"appointmentTime"` // HH:MM:SS
	Reason          string            `json:"reason,omitempty"`
	Status          string            `json:"status"`
	CreatedAt       string            `json:"createdAt,omitempty"`
}

// BookAppointmentRequest is the POST /api/appointments body.
type BookAppointmentRequest struct {
	DoctorID        int64  `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Reason          string `json:"reason,omitempty"`
}

// ============================================================================
// Doctor Types
// ============================================================================

// Doctor mirrors the backend doctor entity; profile fields are pass-through.
type Doctor struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Specialization  string   `json:"specialization"`
	ClinicName      string   `json:"clinicName,omitempty"`
	PhoneNumber     string   `json:"phoneNumber,omitempty"`
	Address         string   `json:"address,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	ExperienceYears int      `json:"experienceYears,omitempty"`
	Qualifications  string   `json:"qualifications,omitempty"`
	ConsultationFee *float64 `json:"consultationFee,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// UpdateDoctorProfileRequest is the PUT /api/doctors/my-profile body.
type UpdateDoctorProfileRequest struct {
	Name            string   `json:"name,omitempty"`
	Specialization  string   `json:"specialization,omitempty"`
	ClinicName      string   `json:"clinicName,omitempty"`
	PhoneNumber     string   `json:"phoneNumber,omitempty"`
	Address         string   `json:"address,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	ExperienceYears int      `json:"experienceYears,omitempty"`
	Qualifications  string   `json:"qualifications,omitempty"`
	ConsultationFee *float64 `json:"consultationFee,omitempty"`
}

// ============================================================================
// Availability Types
// ============================================================================

// DayAvailability is one weekday row of a doctor's recurring schedule.
type DayAvailability struct {
	ID        int64    `json:"id,omitempty"`
	DayOfWeek string   `json:"dayOfWeek"` // MONDAY .. SUNDAY
	TimeSlots []string `json:"timeSlots"` // HH:MM
	IsActive  bool     `json:"isActive"`
}

// SetAvailabilityRequest is the POST /api/doctors/{id}/availability body:
// the full recurring schedule, replaced wholesale.
type SetAvailabilityRequest struct {
	Availability []DayAvailability `json:"availability"`
}

// AvailabilityCheck answers "is this doctor free at this slot". DoctorID is
// a string because the backend echoes the raw path variable back.
type AvailabilityCheck struct {
	Available       bool   `json:"available"`
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	TimeSlot        string `json:"timeSlot"`
	DayOfWeek       string `json:"dayOfWeek"`
}

// ============================================================================
// Patient Types
// ============================================================================

// Patient mirrors the backend patient entity.
type Patient struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
	RegistrationDate string `json:"registrationDate,omitempty"`
}

// ============================================================================
// Dashboard Types
// ============================================================================

// DashboardStats is the admin aggregate view.
type DashboardStats struct {
	TotalAppointments     int `json:"totalAppointments"`
	TodayAppointments     int `json:"todayAppointments"`
	PendingAppointments   int `json:"pendingAppointments"`
	CompletedAppointments int `json:"completedAppointments"`
	MonthlyRevenue        int `json:"monthlyRevenue"`
}

// StatusCount is one slice of the status-distribution chart.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ActivityEntry is one row of the recent-activity feed. The backend shapes
// these loosely, so unknown keys survive in Extra-free pass-through fields.
type ActivityEntry struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Status      string `json:"status,omitempty"`
}
