package orchestrators

import (
	"context"
	"log/slog"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/application"
	"diylab/internal/domain/submission"
)

// BackendForApplication defines the backend surface needed by SubmitApplication.
type BackendForApplication interface {
	SubmitApplication(ctx context.Context, app application.Application, resume *backend.FilePart) error
	SubmitTeacherTraining(ctx context.Context, app application.Application) error
}

// SubmitApplicationInput carries the form instance, field values, and the
// uploaded resume (nil for teacher training).
type SubmitApplicationInput struct {
	Machine *submission.Machine
	Kind    string
	Fields  map[string]string
	Resume  *backend.FilePart
}

// SubmitApplicationDeps holds dependencies for SubmitApplication.
type SubmitApplicationDeps struct {
	Backend BackendForApplication
}

// ExecuteSubmitApplication validates and submits an internship, career, or
// teacher-training application. Internship and career kinds must carry a
// resume; the check runs before any network call.
func ExecuteSubmitApplication(ctx context.Context, input SubmitApplicationInput, deps SubmitApplicationDeps) error {
	if err := submission.ValidateRequired(input.Fields, application.RequiredFields); err != nil {
		return err
	}

	app := application.Application{
		Kind:       input.Kind,
		FullName:   input.Fields["full_name"],
		Email:      input.Fields["email"],
		Phone:      input.Fields["phone"],
		Motivation: input.Fields["motivation"],
	}
	if input.Resume != nil {
		app.ResumeFilename = input.Resume.Filename
	}
	if err := app.Validate(); err != nil {
		return err
	}

	if err := input.Machine.Begin(); err != nil {
		return err
	}

	var err error
	if input.Kind == application.KindTeacherTraining {
		err = deps.Backend.SubmitTeacherTraining(ctx, app)
	} else {
		err = deps.Backend.SubmitApplication(ctx, app, input.Resume)
	}
	if err != nil {
		_ = input.Machine.Fail(backend.UserMessage(err))
		slog.Info("form_event", "form", "application", "kind", input.Kind, "event", "submit_failed", "reason", err.Error())
		return err
	}

	_ = input.Machine.Succeed()
	slog.Info("form_event", "form", "application", "kind", input.Kind, "event", "submit_succeeded")
	return nil
}
