package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"diylab/internal/adapters/backend"
)

// BackendForReports defines the backend surface needed by the export
// downloads. The gateway streams these through without interpreting them.
type BackendForReports interface {
	ResumeBlob(ctx context.Context, cookie, id string) (backend.Blob, error)
	ApprovedInternshipsPDF(ctx context.Context, cookie string) (backend.Blob, error)
	ActiveMembersPDF(ctx context.Context, cookie string) (backend.Blob, error)
}

// ReportKind names the exports an admin can download.
type ReportKind string

const (
	ReportResume              ReportKind = "resume"
	ReportApprovedInternships ReportKind = "approved_internships"
	ReportActiveMembers       ReportKind = "active_members"
)

// DownloadReportInput identifies the export. ID is only used for resumes.
type DownloadReportInput struct {
	Cookie string
	Kind   ReportKind
	ID     string
}

// DownloadReportDeps holds dependencies for DownloadReport.
type DownloadReportDeps struct {
	Backend BackendForReports
}

var ErrUnknownReport = errors.New("unknown report kind")

// ExecuteDownloadReport fetches an export from the backend as an opaque
// blob. Generation happens in the backend; the gateway only relays bytes,
// content type, and suggested filename.
func ExecuteDownloadReport(ctx context.Context, input DownloadReportInput, deps DownloadReportDeps) (backend.Blob, error) {
	var blob backend.Blob
	var err error
	switch input.Kind {
	case ReportResume:
		blob, err = deps.Backend.ResumeBlob(ctx, input.Cookie, input.ID)
	case ReportApprovedInternships:
		blob, err = deps.Backend.ApprovedInternshipsPDF(ctx, input.Cookie)
	case ReportActiveMembers:
		blob, err = deps.Backend.ActiveMembersPDF(ctx, input.Cookie)
	default:
		return backend.Blob{}, ErrUnknownReport
	}
	if err != nil {
		slog.Info("admin_event", "event", "report_download_failed", "kind", string(input.Kind), "reason", err.Error())
		return backend.Blob{}, err
	}
	return blob, nil
}
