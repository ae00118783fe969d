package orchestrators

import (
	"context"
	"log/slog"

	"diylab/internal/domain/membership"
)

// BackendForMembershipDecision defines the backend surface needed by
// DecideMembership.
type BackendForMembershipDecision interface {
	DecideMembership(ctx context.Context, cookie, id string, approve bool) error
}

// DecideMembershipInput identifies the membership application and the
// verdict. App is the admin's list copy.
type DecideMembershipInput struct {
	Cookie   string
	App      *membership.Application
	Decision Decision
}

// DecideMembershipDeps holds dependencies for DecideMembership.
type DecideMembershipDeps struct {
	Backend BackendForMembershipDecision
}

// ExecuteDecideMembership approves or rejects a membership application.
// Pending and payment_submitted records are decidable; anything else is
// rejected before the network call.
func ExecuteDecideMembership(ctx context.Context, input DecideMembershipInput, deps DecideMembershipDeps) error {
	prev := input.App.Status

	var err error
	switch input.Decision {
	case DecisionApprove:
		err = input.App.MarkApproved()
	case DecisionReject:
		err = input.App.MarkRejected()
	default:
		return membership.ErrNotDecidable
	}
	if err != nil {
		return err
	}

	if err := deps.Backend.DecideMembership(ctx, input.Cookie, input.App.ID, input.Decision == DecisionApprove); err != nil {
		input.App.Status = prev
		slog.Info("admin_event", "event", "membership_decision_failed", "id", input.App.ID, "reason", err.Error())
		return err
	}

	slog.Info("admin_event", "event", "membership_decided", "id", input.App.ID, "decision", string(input.Decision))
	return nil
}
