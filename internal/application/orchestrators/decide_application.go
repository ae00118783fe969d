package orchestrators

import (
	"context"
	"log/slog"

	"diylab/internal/domain/application"
)

// BackendForApplicationDecision defines the backend surface needed by
// DecideApplication.
type BackendForApplicationDecision interface {
	ApproveApplication(ctx context.Context, cookie, id string) error
	RejectApplication(ctx context.Context, cookie, kind, id string) error
	DeleteTeacherTraining(ctx context.Context, cookie, id string) error
}

// Decision is an admin's verdict on a pending record.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// DecideApplicationInput identifies the application and the verdict. App is
// the admin's list copy; it gets the optimistic local transition while the
// next refetch stays authoritative.
type DecideApplicationInput struct {
	Cookie   string
	App      *application.Application
	Decision Decision
}

// DecideApplicationDeps holds dependencies for DecideApplication.
type DecideApplicationDeps struct {
	Backend BackendForApplicationDecision
}

// ExecuteDecideApplication approves or rejects a pending application.
// The local transition runs first so an already-decided record (stale list,
// double click) is rejected without a network call.
// POST: On nil return the backend accepted the decision and the list copy
// reflects it
func ExecuteDecideApplication(ctx context.Context, input DecideApplicationInput, deps DecideApplicationDeps) error {
	var err error
	switch input.Decision {
	case DecisionApprove:
		err = input.App.Approve()
	case DecisionReject:
		err = input.App.Reject()
	default:
		return application.ErrNotPending
	}
	if err != nil {
		return err
	}

	if input.Decision == DecisionApprove {
		err = deps.Backend.ApproveApplication(ctx, input.Cookie, input.App.ID)
	} else {
		err = deps.Backend.RejectApplication(ctx, input.Cookie, input.App.Kind, input.App.ID)
	}
	if err != nil {
		// Roll the optimistic transition back; the refetch will settle it.
		input.App.Status = application.StatusPending
		slog.Info("admin_event", "event", "application_decision_failed", "id", input.App.ID, "reason", err.Error())
		return err
	}

	slog.Info("admin_event", "event", "application_decided", "id", input.App.ID, "decision", string(input.Decision))
	return nil
}

// ExecuteDeleteTeacherTraining removes a teacher-training application.
func ExecuteDeleteTeacherTraining(ctx context.Context, cookie, id string, deps DecideApplicationDeps) error {
	if err := deps.Backend.DeleteTeacherTraining(ctx, cookie, id); err != nil {
		slog.Info("admin_event", "event", "teacher_training_delete_failed", "id", id, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "teacher_training_deleted", "id", id)
	return nil
}
