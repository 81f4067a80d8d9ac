package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// Patient record operations.

// ListPatients returns every patient record (admin).
func (c *Client) ListPatients(ctx context.Context) ([]Patient, error) {
	var out []Patient
	if err := c.get(ctx, "/api/patients", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPatient returns a single patient record by id.
func (c *Client) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	var out Patient
	if err := c.get(ctx, fmt.Sprintf("/api/patients/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyPatientRecord returns the signed-in patient's own record.
func (c *Client) MyPatientRecord(ctx context.Context) (*Patient, error) {
	var out Patient
	if err := c.get(ctx, "/api/patients/my", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePatient replaces a patient record.
func (c *Client) UpdatePatient(ctx context.Context, id int64, patient Patient) (*Patient, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/patients/%d", id), patient, nil)
	if err != nil {
		return nil, err
	}

	var out Patient
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePatient removes a patient record (admin).
func (c *Client) DeletePatient(ctx context.Context, id int64) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/patients/%d", id), nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}
