package orchestrators

import (
	"context"
	"log/slog"
	"strconv"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/schoolvisit"
	"diylab/internal/domain/submission"
)

// BackendForSchoolVisit defines the backend surface needed by SubmitSchoolVisit.
type BackendForSchoolVisit interface {
	SubmitSchoolVisit(ctx context.Context, v schoolvisit.Visit) error
}

// SubmitSchoolVisitInput carries the form instance and its field values.
type SubmitSchoolVisitInput struct {
	Machine *submission.Machine
	Fields  map[string]string
}

// SubmitSchoolVisitDeps holds dependencies for SubmitSchoolVisit.
type SubmitSchoolVisitDeps struct {
	Backend BackendForSchoolVisit
}

// ExecuteSubmitSchoolVisit validates and submits a school visit request.
func ExecuteSubmitSchoolVisit(ctx context.Context, input SubmitSchoolVisitInput, deps SubmitSchoolVisitDeps) error {
	if err := submission.ValidateRequired(input.Fields, schoolvisit.RequiredFields); err != nil {
		return err
	}

	size, err := strconv.Atoi(input.Fields["group_size"])
	if err != nil {
		return schoolvisit.ErrBadGroupSize
	}
	v := schoolvisit.Visit{
		SchoolName:    input.Fields["school_name"],
		ContactName:   input.Fields["contact_name"],
		Email:         input.Fields["email"],
		Phone:         input.Fields["phone"],
		PreferredDate: input.Fields["preferred_date"],
		GroupSize:     size,
		Notes:         input.Fields["notes"],
	}
	if err := v.Validate(); err != nil {
		return err
	}

	if err := input.Machine.Begin(); err != nil {
		return err
	}

	if err := deps.Backend.SubmitSchoolVisit(ctx, v); err != nil {
		_ = input.Machine.Fail(backend.UserMessage(err))
		slog.Info("form_event", "form", "school_visit", "event", "submit_failed", "reason", err.Error())
		return err
	}

	_ = input.Machine.Succeed()
	slog.Info("form_event", "form", "school_visit", "event", "submit_succeeded")
	return nil
}
