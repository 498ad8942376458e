package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/appointly/bookingbot/internal/appointments"
	"github.com/appointly/bookingbot/internal/directory"
	"github.com/appointly/bookingbot/pkg/logging"
)

// UserLister reads the user directory.
type UserLister interface {
	List(ctx context.Context) ([]directory.User, error)
}

// UserAppointmentLister reads a user's appointments.
type UserAppointmentLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]appointments.Appointment, error)
}

// AdminUsersHandler serves GET /api/users for the admin UI.
type AdminUsersHandler struct {
	users  UserLister
	appts  UserAppointmentLister
	logger *logging.Logger
}

// NewAdminUsersHandler creates the handler.
func NewAdminUsersHandler(users UserLister, appts UserAppointmentLister, logger *logging.Logger) *AdminUsersHandler {
	if users == nil {
		panic("handlers: user lister required")
	}
	if appts == nil {
		panic("handlers: appointment lister required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminUsersHandler{users: users, appts: appts, logger: logger}
}

type adminUser struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone_number"`
	CreatedAt    time.Time          `json:"created_at"`
	Appointments []adminAppointment `json:"appointments"`
}

type adminAppointment struct {
	ID     uuid.UUID `json:"id"`
	Date   string    `json:"appointment_date"`
	Time   string    `json:"appointment_time"`
	Status string    `json:"status"`
}

// List handles GET /api/users.
func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.List(ctx)
	if err != nil {
		h.logger.Error("list users failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list users"})
		return
	}

	out := make([]adminUser, 0, len(users))
	for _, user := range users {
		appts, err := h.appts.ListForUser(ctx, user.ID)
		if err != nil {
			h.logger.Error("list user appointments failed", "error", err, "user_id", user.ID)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list appointments"})
			return
		}
		entry := adminUser{
			ID:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			Phone:        user.Phone,
			CreatedAt:    user.CreatedAt,
			Appointments: make([]adminAppointment, 0, len(appts)),
		}
		for _, appt := range appts {
			entry.Appointments = append(entry.Appointments, adminAppointment{
				ID:     appt.ID,
				Date:   appt.Date.Format("2006-01-02"),
				Time:   appt.Time,
				Status: appt.Status,
			})
		}
		out = append(out, entry)
	}

	writeJSON(w, http.StatusOK, out)
}
