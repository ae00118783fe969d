package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/csrf"

	"diylab/internal/adapters/backend"
	"diylab/internal/application/orchestrators"
	"diylab/internal/application/projections"
	"diylab/internal/domain/application"
	"diylab/internal/domain/appointment"
	"diylab/internal/domain/blog"
	"diylab/internal/domain/course"
	"diylab/internal/domain/membership"
	"diylab/internal/domain/workshop"
)

// renderAdminPage renders a back-office template with the CSRF token every
// admin form needs.
func renderAdminPage(w http.ResponseWriter, r *http.Request, page string, extra map[string]any) {
	data := map[string]any{"CSRFToken": csrf.Token(r)}
	for k, v := range extra {
		data[k] = v
	}
	renderTemplate(w, r, page, data)
}

// adminError routes a back-office failure. A 401 means the backend dropped
// the admin's credential mid-flight and the session goes with it; anything
// else renders the page with the error banner.
func adminError(w http.ResponseWriter, r *http.Request, err error, page string, extra map[string]any) {
	if sessionExpired(w, r, err, "/admin-login") {
		return
	}
	data := map[string]any{"Error": backend.UserMessage(err)}
	for k, v := range extra {
		data[k] = v
	}
	renderAdminPage(w, r, page, data)
}

// handleAdminDashboard renders the landing page: counters plus the pending
// appointment queue.
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	dash, err := projections.QueryDashboard(r.Context(), backendCookie(r),
		projections.DashboardDeps{Backend: deps.Backend})
	if err != nil {
		adminError(w, r, err, "admin_dashboard.html", nil)
		return
	}
	renderAdminPage(w, r, "admin_dashboard.html", map[string]any{"Dashboard": dash})
}

// --- workshops ---

func handleAdminWorkshops(w http.ResponseWriter, r *http.Request) {
	cookie := backendCookie(r)
	switch r.Method {
	case http.MethodGet:
		list, err := deps.Backend.ListAdminWorkshops(r.Context(), cookie, r.URL.Query().Get("category"))
		if err != nil {
			adminError(w, r, err, "admin_workshops.html", nil)
			return
		}
		renderAdminPage(w, r, "admin_workshops.html", map[string]any{
			"Workshops":  list,
			"Categories": workshop.ValidCategories,
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		capacity, _ := strconv.Atoi(r.FormValue("capacity"))
		ws := workshop.Workshop{
			ID:          r.FormValue("id"),
			Title:       r.FormValue("title"),
			Category:    r.FormValue("category"),
			Description: r.FormValue("description"),
			ImageURL:    r.FormValue("image_url"),
			Capacity:    capacity,
			Date:        r.FormValue("date"),
		}
		err := orchestrators.ExecuteSaveWorkshop(r.Context(), cookie, ws,
			orchestrators.ManageCatalogDeps{Backend: deps.Backend})
		if err != nil {
			adminError(w, r, err, "admin_workshops.html", map[string]any{
				"Workshop":   ws,
				"Categories": workshop.ValidCategories,
			})
			return
		}
		http.Redirect(w, r, "/admin/workshops", http.StatusSeeOther)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminWorkshopDelete(w http.ResponseWriter, r *http.Request) {
	adminDelete(w, r, "/admin/workshops", func(id string) error {
		return orchestrators.ExecuteDeleteWorkshop(r.Context(), backendCookie(r), id,
			orchestrators.ManageCatalogDeps{Backend: deps.Backend})
	})
}

// adminDelete factors the delete-and-redirect actions: POST with an id
// field, then back to the list. Failures land on the list page too; the
// row that would not delete is still there.
func adminDelete(w http.ResponseWriter, r *http.Request, listPath string, del func(id string) error) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if id := r.FormValue("id"); id != "" {
		if err := del(id); err != nil {
			if sessionExpired(w, r, err, "/admin-login") {
				return
			}
			http.Redirect(w, r, listPath+"?error=1", http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

// --- courses ---

func handleAdminCourses(w http.ResponseWriter, r *http.Request) {
	cookie := backendCookie(r)
	switch r.Method {
	case http.MethodGet:
		list, err := deps.Backend.ListAdminCourses(r.Context(), cookie)
		if err != nil {
			adminError(w, r, err, "admin_courses.html", nil)
			return
		}
		renderAdminPage(w, r, "admin_courses.html", map[string]any{"Courses": list})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		fee, _ := strconv.Atoi(r.FormValue("fee"))
		crs := course.Course{
			ID:          r.FormValue("id"),
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Duration:    r.FormValue("duration"),
			Fee:         fee,
		}
		err := orchestrators.ExecuteSaveCourse(r.Context(), cookie, crs,
			orchestrators.ManageCatalogDeps{Backend: deps.Backend})
		if err != nil {
			adminError(w, r, err, "admin_courses.html", map[string]any{"Course": crs})
			return
		}
		http.Redirect(w, r, "/admin/courses", http.StatusSeeOther)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminCourseDelete(w http.ResponseWriter, r *http.Request) {
	adminDelete(w, r, "/admin/courses", func(id string) error {
		return orchestrators.ExecuteDeleteCourse(r.Context(), backendCookie(r), id,
			orchestrators.ManageCatalogDeps{Backend: deps.Backend})
	})
}

// --- blog posts ---

func handleAdminBlogs(w http.ResponseWriter, r *http.Request) {
	cookie := backendCookie(r)
	switch r.Method {
	case http.MethodGet:
		list, err := deps.Backend.ListAdminBlogs(r.Context(), cookie)
		if err != nil {
			adminError(w, r, err, "admin_blogs.html", nil)
			return
		}
		renderAdminPage(w, r, "admin_blogs.html", map[string]any{"Posts": list})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		post := blog.Post{
			ID:        r.FormValue("id"),
			Title:     r.FormValue("title"),
			Content:   r.FormValue("content"),
			Author:    r.FormValue("author"),
			Published: r.FormValue("published") == "on",
		}
		err := orchestrators.ExecuteSaveBlogPost(r.Context(), cookie, post,
			orchestrators.ManageBlogDeps{Backend: deps.Backend})
		if err != nil {
			adminError(w, r, err, "admin_blogs.html", map[string]any{"Post": post})
			return
		}
		http.Redirect(w, r, "/admin/blogs", http.StatusSeeOther)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminBlogDelete(w http.ResponseWriter, r *http.Request) {
	adminDelete(w, r, "/admin/blogs", func(id string) error {
		return orchestrators.ExecuteDeleteBlogPost(r.Context(), backendCookie(r), id,
			orchestrators.ManageBlogDeps{Backend: deps.Backend})
	})
}

// --- applications ---

func handleAdminApplications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = application.KindInternship
	}
	list, err := projections.QueryApplicationList(r.Context(), projections.ApplicationListInput{
		Cookie: backendCookie(r),
		Kind:   kind,
		Status: r.URL.Query().Get("status"),
	}, projections.ApplicationsDeps{Backend: deps.Backend})
	if err != nil {
		adminError(w, r, err, "admin_applications.html", map[string]any{"Kind": kind})
		return
	}
	renderAdminPage(w, r, "admin_applications.html", map[string]any{"List": list})
}

// handleAdminApplicationDecide approves or rejects one application, then
// sends the admin back to the filtered list. The redirect refetch is what
// the admin sees; the optimistic transition only guards double submits.
func handleAdminApplicationDecide(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	cookie := backendCookie(r)
	kind := r.FormValue("kind")
	id := r.FormValue("id")
	back := "/admin/applications?kind=" + kind

	app, err := findApplication(r, cookie, kind, id)
	if err != nil {
		if sessionExpired(w, r, err, "/admin-login") {
			return
		}
		http.Redirect(w, r, back+"&error=1", http.StatusSeeOther)
		return
	}
	err = orchestrators.ExecuteDecideApplication(r.Context(), orchestrators.DecideApplicationInput{
		Cookie:   cookie,
		App:      app,
		Decision: orchestrators.Decision(r.FormValue("decision")),
	}, orchestrators.DecideApplicationDeps{Backend: deps.Backend})
	if err != nil {
		if sessionExpired(w, r, err, "/admin-login") {
			return
		}
		back += "&error=1"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// findApplication refetches the list and picks out the row the admin acted
// on, so the decision starts from the backend's current status.
func findApplication(r *http.Request, cookie, kind, id string) (*application.Application, error) {
	list, err := deps.Backend.ListApplications(r.Context(), cookie, kind)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("application %q not found", id)
}

func handleAdminTeacherTrainingDelete(w http.ResponseWriter, r *http.Request) {
	adminDelete(w, r, "/admin/applications?kind="+application.KindTeacherTraining, func(id string) error {
		return orchestrators.ExecuteDeleteTeacherTraining(r.Context(), backendCookie(r), id,
			orchestrators.DecideApplicationDeps{Backend: deps.Backend})
	})
}

// --- memberships ---

func handleAdminMemberships(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	queue, err := projections.QueryMembershipQueue(r.Context(), backendCookie(r),
		projections.AdminQueuesDeps{Backend: deps.Backend})
	if err != nil {
		adminError(w, r, err, "admin_memberships.html", nil)
		return
	}
	renderAdminPage(w, r, "admin_memberships.html", map[string]any{"Queue": queue})
}

func handleAdminMembershipDecide(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	cookie := backendCookie(r)
	id := r.FormValue("id")

	app, err := findMembership(r, cookie, id)
	if err != nil {
		if sessionExpired(w, r, err, "/admin-login") {
			return
		}
		http.Redirect(w, r, "/admin/memberships?error=1", http.StatusSeeOther)
		return
	}
	err = orchestrators.ExecuteDecideMembership(r.Context(), orchestrators.DecideMembershipInput{
		Cookie:   cookie,
		App:      app,
		Decision: orchestrators.Decision(r.FormValue("decision")),
	}, orchestrators.DecideMembershipDeps{Backend: deps.Backend})
	back := "/admin/memberships"
	if err != nil {
		if sessionExpired(w, r, err, "/admin-login") {
			return
		}
		back += "?error=1"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func findMembership(r *http.Request, cookie, id string) (*membership.Application, error) {
	list, err := deps.Backend.ListMembershipApplications(r.Context(), cookie)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("membership application %q not found", id)
}

// --- appointments ---

func handleAdminAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	queue, err := projections.QueryAppointmentQueue(r.Context(), backendCookie(r),
		projections.AdminQueuesDeps{Backend: deps.Backend})
	if err != nil {
		adminError(w, r, err, "admin_appointments.html", nil)
		return
	}
	renderAdminPage(w, r, "admin_appointments.html", map[string]any{"Appointments": queue})
}

func handleAdminAppointmentSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	at, err := time.Parse("2006-01-02T15:04", r.FormValue("scheduled_for"))
	if err != nil {
		http.Redirect(w, r, "/admin/appointments?error=1", http.StatusSeeOther)
		return
	}
	cookie := backendCookie(r)
	appt, err := findAppointment(r, cookie, r.FormValue("id"))
	if err != nil {
		if sessionExpired(w, r, err, "/admin-login") {
			return
		}
		http.Redirect(w, r, "/admin/appointments?error=1", http.StatusSeeOther)
		return
	}
	err = orchestrators.ExecuteScheduleAppointment(r.Context(), orchestrators.ScheduleAppointmentInput{
		Cookie: cookie,
		Appt:   appt,
		At:     at,
	}, orchestrators.ManageAppointmentDeps{Backend: deps.Backend})
	back := "/admin/appointments"
	if err != nil {
		if sessionExpired(w, r, err, "/admin-login") {
			return
		}
		back += "?error=1"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func handleAdminAppointmentReject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	cookie := backendCookie(r)
	appt, err := findAppointment(r, cookie, r.FormValue("id"))
	if err != nil {
		if sessionExpired(w, r, err, "/admin-login") {
			return
		}
		http.Redirect(w, r, "/admin/appointments?error=1", http.StatusSeeOther)
		return
	}
	err = orchestrators.ExecuteRejectAppointment(r.Context(), cookie, appt,
		orchestrators.ManageAppointmentDeps{Backend: deps.Backend})
	back := "/admin/appointments"
	if err != nil {
		if sessionExpired(w, r, err, "/admin-login") {
			return
		}
		back += "?error=1"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func handleAdminAppointmentDelete(w http.ResponseWriter, r *http.Request) {
	adminDelete(w, r, "/admin/appointments", func(id string) error {
		return orchestrators.ExecuteDeleteAppointment(r.Context(), backendCookie(r), id,
			orchestrators.ManageAppointmentDeps{Backend: deps.Backend})
	})
}

func findAppointment(r *http.Request, cookie, id string) (*appointment.Appointment, error) {
	list, err := deps.Backend.ListAppointments(r.Context(), cookie)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("appointment %q not found", id)
}

// --- school visits, feedback, users ---

func handleAdminSchoolVisits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	visits, err := projections.QuerySchoolVisitQueue(r.Context(), backendCookie(r),
		projections.AdminQueuesDeps{Backend: deps.Backend})
	if err != nil {
		adminError(w, r, err, "admin_school_visits.html", nil)
		return
	}
	renderAdminPage(w, r, "admin_school_visits.html", map[string]any{"Visits": visits})
}

func handleAdminFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	overview, err := projections.QueryFeedbackOverview(r.Context(), backendCookie(r),
		projections.AdminQueuesDeps{Backend: deps.Backend})
	if err != nil {
		adminError(w, r, err, "admin_feedback.html", nil)
		return
	}
	renderAdminPage(w, r, "admin_feedback.html", map[string]any{"Overview": overview})
}

func handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	users, err := projections.QueryUserList(r.Context(), backendCookie(r),
		projections.AdminQueuesDeps{Backend: deps.Backend})
	if err != nil {
		adminError(w, r, err, "admin_users.html", nil)
		return
	}
	renderAdminPage(w, r, "admin_users.html", map[string]any{"Users": users})
}

// --- announcements ---

func handleAdminAnnouncement(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderAdminPage(w, r, "admin_announcement.html", nil)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecutePublishAnnouncement(r.Context(), backendCookie(r),
			r.FormValue("title"), r.FormValue("body"),
			orchestrators.ManageBlogDeps{Backend: deps.Backend})
		if err != nil {
			adminError(w, r, err, "admin_announcement.html", map[string]any{
				"Title": r.FormValue("title"),
				"Body":  r.FormValue("body"),
			})
			return
		}
		renderAdminPage(w, r, "admin_announcement.html", map[string]any{"Notice": "Announcement published."})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// --- report downloads ---

func handleAdminResumeDownload(w http.ResponseWriter, r *http.Request) {
	streamReport(w, r, orchestrators.ReportResume, r.URL.Query().Get("id"))
}

func handleAdminInternshipsReport(w http.ResponseWriter, r *http.Request) {
	streamReport(w, r, orchestrators.ReportApprovedInternships, "")
}

func handleAdminMembersReport(w http.ResponseWriter, r *http.Request) {
	streamReport(w, r, orchestrators.ReportActiveMembers, "")
}

// streamReport fetches a backend export and relays it as an attachment.
func streamReport(w http.ResponseWriter, r *http.Request, kind orchestrators.ReportKind, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	blob, err := orchestrators.ExecuteDownloadReport(r.Context(), orchestrators.DownloadReportInput{
		Cookie: backendCookie(r),
		Kind:   kind,
		ID:     id,
	}, orchestrators.DownloadReportDeps{Backend: deps.Backend})
	if err != nil {
		if sessionExpired(w, r, err, "/admin-login") {
			return
		}
		http.Error(w, backend.UserMessage(err), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", blob.ContentType)
	if blob.Filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", blob.Filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Write(blob.Data)
}

// handleAdminPerf renders the in-memory timing snapshot.
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderAdminPage(w, r, "admin_perf.html", map[string]any{
		"Snapshot": perfCollector.Snapshot(time.Now().Add(-time.Hour), 20),
	})
}
