package feedback

import "errors"

// RequiredFields are the mandatory inputs of the feedback form.
var RequiredFields = []string{"name", "message"}

var ErrBadRating = errors.New("rating must be between 1 and 5")

// Feedback is a visitor feedback record owned by the backend.
type Feedback struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

// Validate checks the rating bounds before submission.
func (f *Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return ErrBadRating
	}
	return nil
}
