package directory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when no user exists for the given key.
var ErrUserNotFound = errors.New("directory: user not found")

// User is a person known to the booking system, keyed by normalized phone number.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone_number"`
	CreatedAt time.Time `json:"created_at"`
}
