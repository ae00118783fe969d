package booking

import (
	"errors"
	"fmt"
	"time"
)

// Booking statuses as reported by the backend.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// RequiredFields are the mandatory inputs of the booking form.
var RequiredFields = []string{"first_name", "last_name", "email", "phone", "date", "time"}

var ErrBadDateTime = errors.New("booking date and time must be valid")

// Booking is a facility/service booking request. The record is owned by the
// backend; this shape only carries form input and transient list copies.
type Booking struct {
	ID          string    `json:"id,omitempty"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ServiceName string    `json:"serviceName"`
	BookingDate time.Time `json:"bookingDate"`
	Status      string    `json:"status,omitempty"`
}

// CombineDateTime merges the form's separate date and time inputs into the
// single timestamp the backend expects.
func CombineDateTime(date, clock string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04", date+"T"+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadDateTime, err)
	}
	return t, nil
}

// IsApproved reports whether the backend has confirmed the booking.
// INVARIANT: Booking fields are not mutated
func (b *Booking) IsApproved() bool {
	return b.Status == StatusApproved
}
