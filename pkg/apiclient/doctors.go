package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// Doctor directory and profile operations.

// ListDoctors returns the doctor directory.
func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	var out []Doctor
	if err := c.get(ctx, "/api/doctors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDoctor returns a single doctor by id.
func (c *Client) GetDoctor(ctx context.Context, id int64) (*Doctor, error) {
	var out Doctor
	if err := c.get(ctx, fmt.Sprintf("/api/doctors/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DoctorsBySpecialization filters the directory by specialization.
func (c *Client) DoctorsBySpecialization(ctx context.Context, specialization string) ([]Doctor, error) {
	var out []Doctor
	if err := c.get(ctx, "/api/doctors/specialization/"+specialization, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSpecializations returns the distinct specializations on offer, for the
// search dropdown.
func (c *Client) ListSpecializations(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/api/doctors/specializations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyDoctorProfile returns the signed-in doctor's own profile.
func (c *Client) MyDoctorProfile(ctx context.Context) (*Doctor, error) {
	var out Doctor
	if err := c.get(ctx, "/api/doctors/my-profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMyDoctorProfile replaces the signed-in doctor's profile fields.
func (c *Client) UpdateMyDoctorProfile(ctx context.Context, req UpdateDoctorProfileRequest) (*Doctor, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/api/doctors/my-profile", req, nil)
	if err != nil {
		return nil, err
	}

	var out Doctor
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDoctor adds a doctor to the directory (admin).
func (c *Client) CreateDoctor(ctx context.Context, doctor Doctor) (*Doctor, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/doctors", doctor, nil)
	if err != nil {
		return nil, err
	}

	var out Doctor
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDoctor removes a doctor from the directory (admin).
func (c *Client) DeleteDoctor(ctx context.Context, id int64) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/doctors/docdelete/%d", id), nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}
