package appointment

import (
	"errors"
	"time"
)

// Appointment statuses.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusRejected  = "rejected"
)

// RequiredFields are the mandatory inputs of the appointment form.
var RequiredFields = []string{"name", "email", "purpose", "date"}

// Domain errors
var (
	ErrNotPending = errors.New("only pending appointments can be scheduled or rejected")
	ErrPastDate   = errors.New("appointment date cannot be in the past")
)

// Appointment is a visit/consultation request owned by the backend.
type Appointment struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Purpose       string    `json:"purpose"`
	RequestedDate time.Time `json:"requestedDate"`
	ScheduledFor  time.Time `json:"scheduledFor,omitempty"`
	Status        string    `json:"status,omitempty"`
}

// MarkScheduled applies the optimistic local transition after the backend
// confirms a schedule call.
// PRE: Status is pending
// POST: Status is scheduled, ScheduledFor is set
func (a *Appointment) MarkScheduled(at time.Time) error {
	if a.Status != StatusPending {
		return ErrNotPending
	}
	a.Status = StatusScheduled
	a.ScheduledFor = at
	return nil
}

// MarkRejected applies the optimistic local transition after a reject call.
// PRE: Status is pending
// POST: Status is rejected
func (a *Appointment) MarkRejected() error {
	if a.Status != StatusPending {
		return ErrNotPending
	}
	a.Status = StatusRejected
	return nil
}
