package apiclient

import (
	"context"
	"fmt"
)

// Dashboard aggregates. These back the three role dashboards; the shapes are
// owned by the backend and passed through.

// DashboardStats returns the admin aggregate counters.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.get(ctx, "/api/appointments/dashboard/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatusDistribution returns appointment counts grouped by status.
func (c *Client) StatusDistribution(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	if err := c.get(ctx, "/api/appointments/dashboard/status-distribution", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentActivity returns the latest appointment events for the admin feed.
func (c *Client) RecentActivity(ctx context.Context) ([]ActivityEntry, error) {
	var out []ActivityEntry
	if err := c.get(ctx, "/api/appointments/dashboard/recent-activity", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HourlyTrends returns today's per-hour appointment counts for the admin
// chart. Rows are loosely shaped maps owned by the backend.
func (c *Client) HourlyTrends(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, "/api/appointments/dashboard/hourly-trends", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WeeklyStats returns this week's per-day appointment and revenue figures.
func (c *Client) WeeklyStats(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, "/api/appointments/dashboard/weekly-stats", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TopDoctors returns the busiest doctors ranked by appointment count.
func (c *Client) TopDoctors(ctx context.Context, limit int) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, fmt.Sprintf("/api/doctors/dashboard/top-doctors?limit=%d", limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PatientRegistrationTrends returns patient sign-up counts over the recent
// day/week/month windows.
func (c *Client) PatientRegistrationTrends(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/patients/dashboard/registration-trends", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyDoctorStats returns the signed-in doctor's dashboard counters.
func (c *Client) MyDoctorStats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/doctors/dashboard/my-stats", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyPatientStats returns the signed-in patient's dashboard counters.
func (c *Client) MyPatientStats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/patients/dashboard/my-stats", &out); err != nil {
		return nil, err
	}
	return out, nil
}
