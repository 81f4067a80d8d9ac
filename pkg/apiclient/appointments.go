package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// Appointment operations. Who may call what is enforced by the backend; the
// client only shapes requests the way each page of the portal issues them.

// ListAppointments returns every appointment (admin view).
func (c *Client) ListAppointments(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.get(ctx, "/api/appointments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAppointment returns a single appointment by id.
func (c *Client) GetAppointment(ctx context.Context, id int64) (*Appointment, error) {
	var out Appointment
	if err := c.get(ctx, fmt.Sprintf("/api/appointments/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyAppointmentsAsPatient returns the signed-in patient's appointments.
func (c *Client) MyAppointmentsAsPatient(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.get(ctx, "/api/appointments/my/patient", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyAppointmentsAsPatientByStatus filters the patient view by status.
func (c *Client) MyAppointmentsAsPatientByStatus(ctx context.Context, status string) ([]Appointment, error) {
	var out []Appointment
	if err := c.get(ctx, "/api/appointments/my/patient/status/"+status, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyAppointmentsAsDoctor returns the signed-in doctor's appointments.
func (c *Client) MyAppointmentsAsDoctor(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.get(ctx, "/api/appointments/my/doctor", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookAppointment books a new appointment for the signed-in patient.
func (c *Client) BookAppointment(ctx context.Context, req BookAppointmentRequest) (*Appointment, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/appointments", req, nil)
	if err != nil {
		return nil, err
	}

	var out Appointment
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveAppointment moves a pending appointment to CONFIRMED (doctor).
func (c *Client) ApproveAppointment(ctx context.Context, id int64) (*Appointment, error) {
	return c.transition(ctx, id, "approve")
}

// RejectAppointment rejects a pending appointment (doctor).
func (c *Client) RejectAppointment(ctx context.Context, id int64) (*Appointment, error) {
	return c.transition(ctx, id, "reject")
}

// CompleteAppointment marks a confirmed appointment as done (doctor).
func (c *Client) CompleteAppointment(ctx context.Context, id int64) (*Appointment, error) {
	return c.transition(ctx, id, "complete")
}

// CancelAppointment cancels an appointment (patient or admin).
func (c *Client) CancelAppointment(ctx context.Context, id int64) (*Appointment, error) {
	return c.transition(ctx, id, "cancel")
}

// DeleteAppointment removes an appointment entirely (admin).
func (c *Client) DeleteAppointment(ctx context.Context, id int64) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/appointments/%d", id), nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

func (c *Client) transition(ctx context.Context, id int64, action string) (*Appointment, error) {
	var out Appointment
	path := fmt.Sprintf("/api/appointments/%d/%s", id, action)
	if err := c.patch(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
