package backend

import (
	"context"
	"fmt"
	"net/http"

	"diylab/internal/domain/application"
	"diylab/internal/domain/appointment"
	"diylab/internal/domain/booking"
	"diylab/internal/domain/feedback"
	"diylab/internal/domain/membership"
	"diylab/internal/domain/schoolvisit"
)

// CreateBooking submits a booking request.
func (c *Client) CreateBooking(ctx context.Context, b booking.Booking) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/bookings", b, nil)
}

// SubmitApplication submits an internship or career application as
// multipart: JSON-ish metadata fields plus the resume attachment.
func (c *Client) SubmitApplication(ctx context.Context, app application.Application, resume *FilePart) error {
	fields := map[string]string{
		"kind":       app.Kind,
		"fullName":   app.FullName,
		"email":      app.Email,
		"phone":      app.Phone,
		"motivation": app.Motivation,
	}
	var files []FilePart
	if resume != nil {
		files = append(files, *resume)
	}
	p := "/api/apply"
	if app.Kind == application.KindCareer {
		p = "/api/careers"
	}
	return c.postMultipart(ctx, "", p, fields, files, nil)
}

// SubmitTeacherTraining submits a teacher-training application.
func (c *Client) SubmitTeacherTraining(ctx context.Context, app application.Application) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/apply-teacher-training", app, nil)
}

// SubmitMembership submits a membership application.
func (c *Client) SubmitMembership(ctx context.Context, app membership.Application) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/apply-membership", app, nil)
}

// UploadPaymentProof attaches a payment proof image to a membership
// application. Verification happens in the backend.
func (c *Client) UploadPaymentProof(ctx context.Context, cookie, membershipID string, proof FilePart) error {
	p := fmt.Sprintf("/api/upload-payment/%s", membershipID)
	return c.postMultipart(ctx, cookie, p, nil, []FilePart{proof}, nil)
}

// SubmitSchoolVisit submits a school visit request.
func (c *Client) SubmitSchoolVisit(ctx context.Context, v schoolvisit.Visit) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/school-visit/apply", v, nil)
}

// SubmitFeedback submits visitor feedback.
func (c *Client) SubmitFeedback(ctx context.Context, f feedback.Feedback) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/feedback/submitFeedback", f, nil)
}

// RequestAppointment submits an appointment request.
func (c *Client) RequestAppointment(ctx context.Context, a appointment.Appointment) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/appointments", a, nil)
}

// ListMyInternships fetches the signed-in user's internship applications
// for the account page.
func (c *Client) ListMyInternships(ctx context.Context, cookie string) ([]application.Application, error) {
	var list []application.Application
	if err := c.getJSON(ctx, cookie, "/api/student/internships", &list); err != nil {
		return nil, err
	}
	return list, nil
}
