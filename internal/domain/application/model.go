package application

import (
	"errors"
)

// Application kinds. Internships and careers carry a resume attachment;
// teacher training does not.
const (
	KindInternship      = "internship"
	KindCareer          = "career"
	KindTeacherTraining = "teacher_training"
)

// Application statuses as reported by the backend.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidKinds contains all valid application kinds.
var ValidKinds = []string{KindInternship, KindCareer, KindTeacherTraining}

// Domain errors
var (
	ErrUnknownKind    = errors.New("application kind must be internship, career, or teacher_training")
	ErrMissingResume  = errors.New("a resume attachment is required")
	ErrNotPending     = errors.New("only pending applications can be decided")
	ErrAlreadyDecided = errors.New("application has already been decided")
)

// RequiredFields are the mandatory inputs shared by all application forms.
var RequiredFields = []string{"full_name", "email", "phone"}

// Application is a submitted internship, career, or teacher-training
// application. Owned by the backend; cached transiently for admin lists.
type Application struct {
	ID             string `json:"id,omitempty"`
	Kind           string `json:"kind"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Motivation     string `json:"motivation,omitempty"`
	ResumeFilename string `json:"resumeFilename,omitempty"`
	Status         string `json:"status,omitempty"`
}

// NeedsResume reports whether this kind of application must carry a resume.
func NeedsResume(kind string) bool {
	return kind == KindInternship || kind == KindCareer
}

// ValidKind reports whether kind is a known application kind.
func ValidKind(kind string) bool {
	for _, k := range ValidKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Validate checks kind and attachment requirements before submission.
// POST: Returns nil if the application can be sent to the backend
func (a *Application) Validate() error {
	if !ValidKind(a.Kind) {
		return ErrUnknownKind
	}
	if NeedsResume(a.Kind) && a.ResumeFilename == "" {
		return ErrMissingResume
	}
	return nil
}

// Approve transitions a pending application to approved. The transition is
// advisory client-side; the backend's next refetch is authoritative.
// PRE: Status is pending
// POST: Status is approved
func (a *Application) Approve() error {
	if a.Status == StatusApproved || a.Status == StatusRejected {
		return ErrAlreadyDecided
	}
	if a.Status != StatusPending {
		return ErrNotPending
	}
	a.Status = StatusApproved
	return nil
}

// Reject transitions a pending application to rejected.
// PRE: Status is pending
// POST: Status is rejected
func (a *Application) Reject() error {
	if a.Status == StatusApproved || a.Status == StatusRejected {
		return ErrAlreadyDecided
	}
	if a.Status != StatusPending {
		return ErrNotPending
	}
	a.Status = StatusRejected
	return nil
}
