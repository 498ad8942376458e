package appointments

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. The availability computation treats cancelled rows as
// freed slots.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ErrAppointmentNotFound is returned when no appointment exists for the given id.
var ErrAppointmentNotFound = errors.New("appointments: appointment not found")

// Appointment is one booked slot on a calendar date.
type Appointment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      time.Time `json:"appointment_date"` // calendar date, midnight UTC
	Time      string    `json:"appointment_time"` // 24-hour HH:MM:SS
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminView is an appointment joined with its owner, as served to the admin UI.
type AdminView struct {
	ID     uuid.UUID `json:"id"`
	User   Owner     `json:"user"`
	Date   string    `json:"appointment_date"` // YYYY-MM-DD
	Time   string    `json:"appointment_time"` // HH:MM:SS
	Status string    `json:"status"`
}

// Owner is the user summary embedded in an AdminView.
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone_number"`
}

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
