package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/csrf"

	"diylab/internal/adapters/backend"
	"diylab/internal/adapters/http/middleware"
	"diylab/internal/application/orchestrators"
	"diylab/internal/domain/application"
	"diylab/internal/domain/submission"
)

// maxUploadBytes bounds resume and payment proof uploads.
const maxUploadBytes = 10 << 20

// formValues flattens the posted form into the map the orchestrators
// validate.
func formValues(r *http.Request, names ...string) map[string]string {
	fields := make(map[string]string, len(names))
	for _, name := range names {
		fields[name] = r.FormValue(name)
	}
	return fields
}

// renderFormPage renders a form template with the shared state every form
// page carries: a machine ID, entered values, and error or success notes.
func renderFormPage(w http.ResponseWriter, r *http.Request, page string, m *submission.Machine, extra map[string]any) {
	data := map[string]any{
		"CSRFToken": csrf.Token(r),
		"FormID":    m.ID,
		"Submitted": r.URL.Query().Get("submitted") == "1",
	}
	for k, v := range extra {
		data[k] = v
	}
	renderTemplate(w, r, page, data)
}

// submitOutcome routes a submit result: success redirects, a duplicate
// submit of a completed form redirects too (one backend call happened),
// and everything else re-renders the form with the entered values kept.
func submitOutcome(w http.ResponseWriter, r *http.Request, err error, m *submission.Machine, page, successPath string, fields map[string]string) {
	switch {
	case err == nil:
		finishSubmission(w, r, m, successPath)
	case errors.Is(err, submission.ErrCompleted), errors.Is(err, submission.ErrInFlight):
		http.Redirect(w, r, successPath, http.StatusSeeOther)
	default:
		renderFormPage(w, r, page, m, map[string]any{
			"Error":  backend.UserMessage(err),
			"Fields": fields,
		})
	}
}

// handleBooking handles GET (form) and POST (submit) for /booking.
func handleBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderFormPage(w, r, "booking.html", newFormMachine(w, r, "booking"), nil)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	m := formMachine(w, r, "booking")
	fields := formValues(r, "first_name", "last_name", "email", "phone", "date", "time")
	err := orchestrators.ExecuteSubmitBooking(r.Context(), orchestrators.SubmitBookingInput{
		Machine: m,
		Fields:  fields,
		Service: r.FormValue("service"),
	}, orchestrators.SubmitBookingDeps{Backend: deps.Backend})
	submitOutcome(w, r, err, m, "booking.html", "/booking?submitted=1", fields)
}

func handleApplyInternship(w http.ResponseWriter, r *http.Request) {
	handleApplication(w, r, application.KindInternship, "apply.html", "/apply?submitted=1")
}

func handleApplyCareer(w http.ResponseWriter, r *http.Request) {
	handleApplication(w, r, application.KindCareer, "careers.html", "/careers?submitted=1")
}

func handleApplyTeacherTraining(w http.ResponseWriter, r *http.Request) {
	handleApplication(w, r, application.KindTeacherTraining, "teacher_training.html", "/teacher-training?submitted=1")
}

// handleApplication drives the three application forms. Internship and
// career posts are multipart for the resume; teacher training is a plain
// form.
func handleApplication(w http.ResponseWriter, r *http.Request, kind, page, successPath string) {
	if r.Method == http.MethodGet {
		renderFormPage(w, r, page, newFormMachine(w, r, "application"), nil)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var resume *backend.FilePart
	if application.NeedsResume(kind) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("resume")
		if err == nil {
			defer file.Close()
			data, readErr := io.ReadAll(file)
			if readErr != nil {
				internalError(w, readErr)
				return
			}
			resume = &backend.FilePart{Field: "resume", Filename: header.Filename, Data: data}
		}
	} else if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	m := formMachine(w, r, "application")
	fields := formValues(r, "full_name", "email", "phone", "motivation")
	err := orchestrators.ExecuteSubmitApplication(r.Context(), orchestrators.SubmitApplicationInput{
		Machine: m,
		Kind:    kind,
		Fields:  fields,
		Resume:  resume,
	}, orchestrators.SubmitApplicationDeps{Backend: deps.Backend})
	submitOutcome(w, r, err, m, page, successPath, fields)
}

// handleMembership handles GET (plans + form) and POST (apply) for
// /membership.
func handleMembership(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderFormPage(w, r, "membership.html", newFormMachine(w, r, "membership"), nil)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	m := formMachine(w, r, "membership")
	fields := formValues(r, "full_name", "email", "phone", "plan")
	err := orchestrators.ExecuteSubmitMembership(r.Context(), orchestrators.SubmitMembershipInput{
		Machine: m,
		Fields:  fields,
	}, orchestrators.SubmitMembershipDeps{Backend: deps.Backend})
	submitOutcome(w, r, err, m, "membership.html", "/membership?submitted=1", fields)
}

// handlePaymentProof handles POST /membership/payment: a signed-in member
// attaches a payment proof image to their application.
func handlePaymentProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("payment_proof")
	if err != nil {
		http.Redirect(w, r, "/account", http.StatusSeeOther)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		internalError(w, err)
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	input := orchestrators.UploadPaymentProofInput{
		Cookie:       sess.BackendCookie,
		MembershipID: r.FormValue("membership_id"),
		Proof:        backend.FilePart{Field: "payment_proof", Filename: header.Filename, Data: data},
	}
	if err := orchestrators.ExecuteUploadPaymentProof(r.Context(), input, orchestrators.SubmitMembershipDeps{Backend: deps.Backend}); err != nil {
		if sessionExpired(w, r, err, "/user-login") {
			return
		}
		renderTemplate(w, r, "account.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Identity":  sess.Identity,
			"Error":     backend.UserMessage(err),
		})
		return
	}
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}

// handleSchoolVisit handles GET (form) and POST (submit) for /school-visit.
func handleSchoolVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderFormPage(w, r, "school_visit.html", newFormMachine(w, r, "school_visit"), nil)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	m := formMachine(w, r, "school_visit")
	fields := formValues(r, "school_name", "contact_name", "email", "phone", "preferred_date", "group_size", "notes")
	err := orchestrators.ExecuteSubmitSchoolVisit(r.Context(), orchestrators.SubmitSchoolVisitInput{
		Machine: m,
		Fields:  fields,
	}, orchestrators.SubmitSchoolVisitDeps{Backend: deps.Backend})
	submitOutcome(w, r, err, m, "school_visit.html", "/school-visit?submitted=1", fields)
}

// handleFeedback handles GET (form) and POST (submit) for /feedback.
func handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderFormPage(w, r, "feedback.html", newFormMachine(w, r, "feedback"), nil)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	m := formMachine(w, r, "feedback")
	fields := formValues(r, "name", "email", "message", "rating")
	err := orchestrators.ExecuteSubmitFeedback(r.Context(), orchestrators.SubmitFeedbackInput{
		Machine: m,
		Fields:  fields,
	}, orchestrators.SubmitFeedbackDeps{Backend: deps.Backend})
	submitOutcome(w, r, err, m, "feedback.html", "/feedback?submitted=1", fields)
}

// handleAppointment handles GET (form) and POST (submit) for /appointment.
func handleAppointment(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderFormPage(w, r, "appointment.html", newFormMachine(w, r, "appointment"), nil)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	m := formMachine(w, r, "appointment")
	fields := formValues(r, "name", "email", "purpose", "date")
	err := orchestrators.ExecuteRequestAppointment(r.Context(), orchestrators.RequestAppointmentInput{
		Machine: m,
		Fields:  fields,
	}, orchestrators.RequestAppointmentDeps{Backend: deps.Backend})
	submitOutcome(w, r, err, m, "appointment.html", "/appointment?submitted=1", fields)
}
