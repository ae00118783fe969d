package orchestrators

import (
	"context"
	"log/slog"
	"strconv"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/feedback"
	"diylab/internal/domain/submission"
)

// BackendForFeedback defines the backend surface needed by SubmitFeedback.
type BackendForFeedback interface {
	SubmitFeedback(ctx context.Context, f feedback.Feedback) error
}

// SubmitFeedbackInput carries the form instance and its field values.
type SubmitFeedbackInput struct {
	Machine *submission.Machine
	Fields  map[string]string
}

// SubmitFeedbackDeps holds dependencies for SubmitFeedback.
type SubmitFeedbackDeps struct {
	Backend BackendForFeedback
}

// ExecuteSubmitFeedback validates and submits visitor feedback.
func ExecuteSubmitFeedback(ctx context.Context, input SubmitFeedbackInput, deps SubmitFeedbackDeps) error {
	if err := submission.ValidateRequired(input.Fields, feedback.RequiredFields); err != nil {
		return err
	}

	rating, err := strconv.Atoi(input.Fields["rating"])
	if err != nil {
		return feedback.ErrBadRating
	}
	f := feedback.Feedback{
		Name:    input.Fields["name"],
		Email:   input.Fields["email"],
		Message: input.Fields["message"],
		Rating:  rating,
	}
	if err := f.Validate(); err != nil {
		return err
	}

	if err := input.Machine.Begin(); err != nil {
		return err
	}

	if err := deps.Backend.SubmitFeedback(ctx, f); err != nil {
		_ = input.Machine.Fail(backend.UserMessage(err))
		slog.Info("form_event", "form", "feedback", "event", "submit_failed", "reason", err.Error())
		return err
	}

	_ = input.Machine.Succeed()
	slog.Info("form_event", "form", "feedback", "event", "submit_succeeded")
	return nil
}
