package orchestrators

import (
	"context"
	"log/slog"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/membership"
	"diylab/internal/domain/submission"
)

// BackendForMembership defines the backend surface needed by the
// membership flows.
type BackendForMembership interface {
	SubmitMembership(ctx context.Context, app membership.Application) error
	UploadPaymentProof(ctx context.Context, cookie, membershipID string, proof backend.FilePart) error
}

// SubmitMembershipInput carries the form instance and its field values.
type SubmitMembershipInput struct {
	Machine *submission.Machine
	Fields  map[string]string
}

// SubmitMembershipDeps holds dependencies for SubmitMembership.
type SubmitMembershipDeps struct {
	Backend BackendForMembership
}

// ExecuteSubmitMembership validates and submits a membership application.
func ExecuteSubmitMembership(ctx context.Context, input SubmitMembershipInput, deps SubmitMembershipDeps) error {
	if err := submission.ValidateRequired(input.Fields, membership.RequiredFields); err != nil {
		return err
	}

	app := membership.Application{
		FullName: input.Fields["full_name"],
		Email:    input.Fields["email"],
		Phone:    input.Fields["phone"],
		Plan:     input.Fields["plan"],
	}
	if err := app.Validate(); err != nil {
		return err
	}

	if err := input.Machine.Begin(); err != nil {
		return err
	}

	if err := deps.Backend.SubmitMembership(ctx, app); err != nil {
		_ = input.Machine.Fail(backend.UserMessage(err))
		slog.Info("form_event", "form", "membership", "event", "submit_failed", "reason", err.Error())
		return err
	}

	_ = input.Machine.Succeed()
	slog.Info("form_event", "form", "membership", "event", "submit_succeeded")
	return nil
}

// UploadPaymentProofInput identifies the application and carries the proof
// image. The signed-in session's backend cookie authorizes the upload.
type UploadPaymentProofInput struct {
	Cookie       string
	MembershipID string
	Proof        backend.FilePart
}

// ExecuteUploadPaymentProof attaches a payment proof to a pending
// membership application. Verification is the backend's job.
func ExecuteUploadPaymentProof(ctx context.Context, input UploadPaymentProofInput, deps SubmitMembershipDeps) error {
	if input.MembershipID == "" || len(input.Proof.Data) == 0 {
		return &submission.ValidationError{Missing: []string{"payment_proof"}}
	}
	if err := deps.Backend.UploadPaymentProof(ctx, input.Cookie, input.MembershipID, input.Proof); err != nil {
		slog.Info("form_event", "form", "payment_proof", "event", "upload_failed", "reason", err.Error())
		return err
	}
	slog.Info("form_event", "form", "payment_proof", "event", "upload_succeeded")
	return nil
}
