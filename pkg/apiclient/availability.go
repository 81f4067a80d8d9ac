package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Availability operations back the booking page's slot picker and the
// doctor's set-availability view. Slot lists are plain "HH:MM" strings.

// DoctorAvailability returns the open time slots for a doctor on a calendar
// date (YYYY-MM-DD); the backend resolves the date to its weekday schedule.
func (c *Client) DoctorAvailability(ctx context.Context, doctorID int64, date string) ([]string, error) {
	var out []string
	path := fmt.Sprintf("/api/doctors/%d/availability?date=%s", doctorID, url.QueryEscape(date))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoctorSchedule returns a doctor's full recurring weekly schedule.
func (c *Client) DoctorSchedule(ctx context.Context, doctorID int64) ([]DayAvailability, error) {
	var out []DayAvailability
	if err := c.get(ctx, fmt.Sprintf("/api/doctors/%d/availability/schedule", doctorID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoctorAvailabilityForDay returns the open slots for one weekday name
// (MONDAY .. SUNDAY, case-insensitive on the backend).
func (c *Client) DoctorAvailabilityForDay(ctx context.Context, doctorID int64, day string) ([]string, error) {
	var out []string
	path := fmt.Sprintf("/api/doctors/%d/availability/%s", doctorID, url.PathEscape(day))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckAvailability asks whether a doctor is free for a concrete date and
// time slot, the last gate before booking.
func (c *Client) CheckAvailability(ctx context.Context, doctorID int64, date, timeSlot string) (*AvailabilityCheck, error) {
	var out AvailabilityCheck
	path := fmt.Sprintf("/api/doctors/%d/availability/check?appointmentDate=%s&timeSlot=%s",
		doctorID, url.QueryEscape(date), url.QueryEscape(timeSlot))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetDoctorAvailability replaces a doctor's recurring schedule (doctor for
// their own id, or admin).
func (c *Client) SetDoctorAvailability(ctx context.Context, doctorID int64, req SetAvailabilityRequest) error {
	resp, err := c.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/api/doctors/%d/availability", doctorID), req, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// DeleteDoctorAvailability removes a doctor's schedule entirely.
func (c *Client) DeleteDoctorAvailability(ctx context.Context, doctorID int64) error {
	resp, err := c.doRequest(ctx, http.MethodDelete,
		fmt.Sprintf("/api/doctors/%d/availability", doctorID), nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// AvailableDoctors returns the doctors free at a given weekday and slot
// (patient and admin search).
func (c *Client) AvailableDoctors(ctx context.Context, day, timeSlot string) ([]Doctor, error) {
	var out []Doctor
	path := fmt.Sprintf("/api/availability/doctors?day=%s&timeSlot=%s",
		url.QueryEscape(day), url.QueryEscape(timeSlot))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}
