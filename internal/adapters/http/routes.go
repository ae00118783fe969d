package web

import (
	"net/http"

	"diylab/internal/adapters/http/middleware"
)

// registerRoutes wires every page and action onto the mux. Unmatched paths
// fall through to the home handler, so stale deep links land on the home
// page instead of a bare 404.
func registerRoutes(mux *http.ServeMux, d *Deps) {
	// Public pages
	mux.HandleFunc("/", handleHome)
	mux.HandleFunc("/about", handleAbout)
	mux.HandleFunc("/workshops", handleWorkshops)
	mux.HandleFunc("/courses", handleCourses)
	mux.HandleFunc("/blog", handleBlog)
	mux.HandleFunc("/unauthorized", handleUnauthorized)

	// Public forms
	mux.HandleFunc("/booking", handleBooking)
	mux.HandleFunc("/apply", handleApplyInternship)
	mux.HandleFunc("/careers", handleApplyCareer)
	mux.HandleFunc("/teacher-training", handleApplyTeacherTraining)
	mux.HandleFunc("/membership", handleMembership)
	mux.HandleFunc("/school-visit", handleSchoolVisit)
	mux.HandleFunc("/feedback", handleFeedback)
	mux.HandleFunc("/appointment", handleAppointment)

	// Auth
	mux.HandleFunc("/user-login", handleUserLogin)
	mux.HandleFunc("/admin-login", handleAdminLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/register", handleRegister)
	mux.HandleFunc("/verify", handleVerify)
	mux.HandleFunc("/forgot-password", handleForgotPassword)

	// User area: trusts the local session.
	requireUser := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireUser(h)
	}
	mux.Handle("/account", requireUser(handleAccount))
	mux.Handle("/change-password", requireUser(handleChangePassword))
	mux.Handle("/membership/payment", requireUser(handlePaymentProof))

	// Admin area: every access re-verified against the backend.
	requireAdmin := middleware.RequireAdmin(adminVerifier{d}, d.Sessions)
	admin := func(h http.HandlerFunc) http.Handler {
		return requireAdmin(h)
	}
	mux.Handle("/admin", admin(handleAdminDashboard))
	mux.Handle("/admin/workshops", admin(handleAdminWorkshops))
	mux.Handle("/admin/workshops/delete", admin(handleAdminWorkshopDelete))
	mux.Handle("/admin/courses", admin(handleAdminCourses))
	mux.Handle("/admin/courses/delete", admin(handleAdminCourseDelete))
	mux.Handle("/admin/blogs", admin(handleAdminBlogs))
	mux.Handle("/admin/blogs/delete", admin(handleAdminBlogDelete))
	mux.Handle("/admin/applications", admin(handleAdminApplications))
	mux.Handle("/admin/applications/decide", admin(handleAdminApplicationDecide))
	mux.Handle("/admin/applications/delete", admin(handleAdminTeacherTrainingDelete))
	mux.Handle("/admin/memberships", admin(handleAdminMemberships))
	mux.Handle("/admin/memberships/decide", admin(handleAdminMembershipDecide))
	mux.Handle("/admin/appointments", admin(handleAdminAppointments))
	mux.Handle("/admin/appointments/schedule", admin(handleAdminAppointmentSchedule))
	mux.Handle("/admin/appointments/reject", admin(handleAdminAppointmentReject))
	mux.Handle("/admin/appointments/delete", admin(handleAdminAppointmentDelete))
	mux.Handle("/admin/school-visits", admin(handleAdminSchoolVisits))
	mux.Handle("/admin/feedback", admin(handleAdminFeedback))
	mux.Handle("/admin/users", admin(handleAdminUsers))
	mux.Handle("/admin/announcement", admin(handleAdminAnnouncement))
	mux.Handle("/admin/reports/resume", admin(handleAdminResumeDownload))
	mux.Handle("/admin/reports/internships", admin(handleAdminInternshipsReport))
	mux.Handle("/admin/reports/members", admin(handleAdminMembersReport))
	mux.Handle("/admin/perf", admin(handleAdminPerf))
}
