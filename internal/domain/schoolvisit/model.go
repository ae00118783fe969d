package schoolvisit

import "errors"

// School visit request statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDeclined  = "declined"
)

// RequiredFields are the mandatory inputs of the school visit form.
var RequiredFields = []string{"school_name", "contact_name", "email", "phone", "preferred_date", "group_size"}

var ErrBadGroupSize = errors.New("group size must be between 1 and 60")

// Visit is a school visit request owned by the backend.
type Visit struct {
	ID            string `json:"id,omitempty"`
	SchoolName    string `json:"schoolName"`
	ContactName   string `json:"contactName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PreferredDate string `json:"preferredDate"`
	GroupSize     int    `json:"groupSize"`
	Notes         string `json:"notes,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Validate checks input bounds before submission.
func (v *Visit) Validate() error {
	if v.GroupSize < 1 || v.GroupSize > 60 {
		return ErrBadGroupSize
	}
	return nil
}
