package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAvailabilityCalls(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /api/doctors/3/availability":
			require.Equal(t, "2025-07-01", r.URL.Query().Get("date"))
			json.NewEncoder(w).Encode([]string{"09:00", "09:30", "10:00"})
		case "GET /api/doctors/3/availability/schedule":
			json.NewEncoder(w).Encode([]DayAvailability{
				{ID: 1, DayOfWeek: "MONDAY", TimeSlots: []string{"09:00", "09:30"}, IsActive: true},
				{ID: 2, DayOfWeek: "FRIDAY", TimeSlots: []string{"14:00"}, IsActive: false},
			})
		case "GET /api/doctors/3/availability/MONDAY":
			json.NewEncoder(w).Encode([]string{"09:00"})
		case "GET /api/doctors/3/availability/check":
			require.Equal(t, "2025-07-01", r.URL.Query().Get("appointmentDate"))
			require.Equal(t, "09:30", r.URL.Query().Get("timeSlot"))
			json.NewEncoder(w).Encode(AvailabilityCheck{
				Available: true, DoctorID: "3",
				AppointmentDate: "2025-07-01", TimeSlot: "09:30", DayOfWeek: "TUESDAY",
			})
		case "POST /api/doctors/3/availability":
			var req SetAvailabilityRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Availability, 1)
			require.Equal(t, "MONDAY", req.Availability[0].DayOfWeek)
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		case "DELETE /api/doctors/3/availability":
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		case "GET /api/availability/doctors":
			require.Equal(t, "MONDAY", r.URL.Query().Get("day"))
			require.Equal(t, "09:00", r.URL.Query().Get("timeSlot"))
			json.NewEncoder(w).Encode([]Doctor{{ID: 3, Name: "Dr. Lee", Specialization: "Cardiology"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	slots, err := c.DoctorAvailability(ctx, 3, "2025-07-01")
	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "09:30", "10:00"}, slots)

	schedule, err := c.DoctorSchedule(ctx, 3)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	require.True(t, schedule[0].IsActive)
	require.False(t, schedule[1].IsActive)

	daySlots, err := c.DoctorAvailabilityForDay(ctx, 3, "MONDAY")
	require.NoError(t, err)
	require.Equal(t, []string{"09:00"}, daySlots)

	check, err := c.CheckAvailability(ctx, 3, "2025-07-01", "09:30")
	require.NoError(t, err)
	require.True(t, check.Available)
	require.Equal(t, "TUESDAY", check.DayOfWeek)

	require.NoError(t, c.SetDoctorAvailability(ctx, 3, SetAvailabilityRequest{
		Availability: []DayAvailability{
			{DayOfWeek: "MONDAY", TimeSlots: []string{"09:00"}, IsActive: true},
		},
	}))

	require.NoError(t, c.DeleteDoctorAvailability(ctx, 3))

	doctors, err := c.AvailableDoctors(ctx, "MONDAY", "09:00")
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	require.Equal(t, "Dr. Lee", doctors[0].Name)
}
