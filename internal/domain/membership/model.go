package membership

import "errors"

// Membership application statuses. Payment verification itself happens in
// the backend; the gateway only uploads the proof and renders the status.
const (
	StatusPending          = "pending"
	StatusPaymentSubmitted = "payment_submitted"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
)

// Plan names offered on the membership page.
const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
	PlanStudent = "student"
)

// RequiredFields are the mandatory inputs of the membership form.
var RequiredFields = []string{"full_name", "email", "phone", "plan"}

// Domain errors
var (
	ErrUnknownPlan  = errors.New("plan must be monthly, annual, or student")
	ErrNotDecidable = errors.New("only pending or payment_submitted applications can be decided")
)

// Application is a membership application record owned by the backend.
type Application struct {
	ID           string `json:"id,omitempty"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Plan         string `json:"plan"`
	Status       string `json:"status,omitempty"`
	PaymentProof string `json:"paymentProof,omitempty"`
}

// ValidPlan reports whether plan is one of the offered plans.
func ValidPlan(plan string) bool {
	return plan == PlanMonthly || plan == PlanAnnual || plan == PlanStudent
}

// Validate checks the plan choice before submission.
func (a *Application) Validate() error {
	if !ValidPlan(a.Plan) {
		return ErrUnknownPlan
	}
	return nil
}

// Decidable reports whether an admin may still approve or reject.
// INVARIANT: Application fields are not mutated
func (a *Application) Decidable() bool {
	return a.Status == StatusPending || a.Status == StatusPaymentSubmitted
}

// MarkApproved applies the optimistic local transition after an approve call.
// PRE: Decidable() is true
// POST: Status is approved
func (a *Application) MarkApproved() error {
	if !a.Decidable() {
		return ErrNotDecidable
	}
	a.Status = StatusApproved
	return nil
}

// MarkRejected applies the optimistic local transition after a reject call.
// PRE: Decidable() is true
// POST: Status is rejected
func (a *Application) MarkRejected() error {
	if !a.Decidable() {
		return ErrNotDecidable
	}
	a.Status = StatusRejected
	return nil
}
