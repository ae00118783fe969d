package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"diylab/internal/domain/application"
	"diylab/internal/domain/appointment"
	"diylab/internal/domain/blog"
	"diylab/internal/domain/course"
	"diylab/internal/domain/feedback"
	"diylab/internal/domain/membership"
	"diylab/internal/domain/schoolvisit"
	"diylab/internal/domain/workshop"
)

// Stats are the admin dashboard counters.
type Stats struct {
	Workshops    int `json:"workshops"`
	Users        int `json:"users"`
	Appointments int `json:"appointments"`
	Internships  int `json:"internships"`
	Services     int `json:"services"`
	Memberships  int `json:"memberships"`
	Careers      int `json:"careers"`
	Courses      int `json:"courses"`
}

// AdminStats fetches dashboard counters.
func (c *Client) AdminStats(ctx context.Context, cookie string) (Stats, error) {
	var s Stats
	if err := c.getJSON(ctx, cookie, "/api/admin/stats", &s); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// --- workshops ---

// ListAdminWorkshops fetches workshops for the back-office, optionally by
// category.
func (c *Client) ListAdminWorkshops(ctx context.Context, cookie, category string) ([]workshop.Workshop, error) {
	p := "/api/admin/workshops"
	if category != "" {
		p += "?category=" + url.QueryEscape(category)
	}
	var list []workshop.Workshop
	if err := c.getJSON(ctx, cookie, p, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateWorkshop creates a workshop listing.
func (c *Client) CreateWorkshop(ctx context.Context, cookie string, w workshop.Workshop) error {
	return c.sendJSON(ctx, cookie, http.MethodPost, "/api/admin/workshops", w, nil)
}

// UpdateWorkshop updates a workshop listing.
func (c *Client) UpdateWorkshop(ctx context.Context, cookie string, w workshop.Workshop) error {
	return c.sendJSON(ctx, cookie, http.MethodPut, "/api/admin/workshops/"+url.PathEscape(w.ID), w, nil)
}

// DeleteWorkshop removes a workshop listing.
func (c *Client) DeleteWorkshop(ctx context.Context, cookie, id string) error {
	return c.sendJSON(ctx, cookie, http.MethodDelete, "/api/admin/workshops/"+url.PathEscape(id), nil, nil)
}

// --- courses ---

// ListAdminCourses fetches courses for the back-office.
func (c *Client) ListAdminCourses(ctx context.Context, cookie string) ([]course.Course, error) {
	var list []course.Course
	if err := c.getJSON(ctx, cookie, "/api/admin/courses", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveCourse creates or updates a course.
func (c *Client) SaveCourse(ctx context.Context, cookie string, crs course.Course) error {
	if crs.ID == "" {
		return c.sendJSON(ctx, cookie, http.MethodPost, "/api/admin/courses", crs, nil)
	}
	return c.sendJSON(ctx, cookie, http.MethodPut, "/api/admin/courses/"+url.PathEscape(crs.ID), crs, nil)
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, cookie, id string) error {
	return c.sendJSON(ctx, cookie, http.MethodDelete, "/api/admin/courses/"+url.PathEscape(id), nil, nil)
}

// --- blogs ---

// ListAdminBlogs fetches all posts, published or not.
func (c *Client) ListAdminBlogs(ctx context.Context, cookie string) ([]blog.Post, error) {
	var list []blog.Post
	if err := c.getJSON(ctx, cookie, "/api/blogs/admin", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveBlog creates or updates a post.
func (c *Client) SaveBlog(ctx context.Context, cookie string, p blog.Post) error {
	if p.ID == "" {
		return c.sendJSON(ctx, cookie, http.MethodPost, "/api/blogs", p, nil)
	}
	return c.sendJSON(ctx, cookie, http.MethodPut, "/api/blogs/"+url.PathEscape(p.ID), p, nil)
}

// DeleteBlog removes a post.
func (c *Client) DeleteBlog(ctx context.Context, cookie, id string) error {
	return c.sendJSON(ctx, cookie, http.MethodDelete, "/api/blogs/"+url.PathEscape(id), nil, nil)
}

// --- applications (internship / career / teacher training) ---

// applicationListPath maps an application kind to its admin list endpoint.
func applicationListPath(kind string) string {
	switch kind {
	case application.KindCareer:
		return "/api/careers"
	case application.KindTeacherTraining:
		return "/api/teacher-training/all"
	default:
		return "/api/internships"
	}
}

// ListApplications fetches applications of one kind for the back-office.
func (c *Client) ListApplications(ctx context.Context, cookie, kind string) ([]application.Application, error) {
	var list []application.Application
	if err := c.getJSON(ctx, cookie, applicationListPath(kind), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ApproveApplication approves a pending application. The backend sends the
// notification email.
func (c *Client) ApproveApplication(ctx context.Context, cookie, id string) error {
	return c.sendJSON(ctx, cookie, http.MethodPut, "/api/approve/"+url.PathEscape(id), nil, nil)
}

// RejectApplication rejects a pending application.
func (c *Client) RejectApplication(ctx context.Context, cookie, kind, id string) error {
	p := fmt.Sprintf("%s/%s/reject", applicationListPath(kind), url.PathEscape(id))
	return c.sendJSON(ctx, cookie, http.MethodPut, p, nil, nil)
}

// DeleteTeacherTraining removes a teacher-training application.
func (c *Client) DeleteTeacherTraining(ctx context.Context, cookie, id string) error {
	return c.sendJSON(ctx, cookie, http.MethodDelete, "/api/teacher-training/delete/"+url.PathEscape(id), nil, nil)
}

// ResumeBlob fetches an applicant's resume for viewing.
func (c *Client) ResumeBlob(ctx context.Context, cookie, id string) (Blob, error) {
	return c.getBlob(ctx, cookie, fmt.Sprintf("/api/internships/%s/resume", url.PathEscape(id)))
}

// ApprovedInternshipsPDF fetches the approved-applicants report.
func (c *Client) ApprovedInternshipsPDF(ctx context.Context, cookie string) (Blob, error) {
	return c.getBlob(ctx, cookie, "/api/internships/download")
}

// --- memberships ---

// ListMembershipApplications fetches membership applications.
func (c *Client) ListMembershipApplications(ctx context.Context, cookie string) ([]membership.Application, error) {
	var list []membership.Application
	if err := c.getJSON(ctx, cookie, "/api/fetch-membership-applications", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DecideMembership approves or rejects a membership application.
func (c *Client) DecideMembership(ctx context.Context, cookie, id string, approve bool) error {
	endpoint := "reject-membership"
	if approve {
		endpoint = "approve-membership"
	}
	return c.sendJSON(ctx, cookie, http.MethodPut, fmt.Sprintf("/api/%s/%s", endpoint, url.PathEscape(id)), nil, nil)
}

// ActiveMembersPDF fetches the active members report.
func (c *Client) ActiveMembersPDF(ctx context.Context, cookie string) (Blob, error) {
	return c.getBlob(ctx, cookie, "/api/admin/members/active/pdf")
}

// --- appointments ---

// ListAppointments fetches appointment requests.
func (c *Client) ListAppointments(ctx context.Context, cookie string) ([]appointment.Appointment, error) {
	var list []appointment.Appointment
	if err := c.getJSON(ctx, cookie, "/api/admin/appointments", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ScheduleAppointment confirms an appointment for a concrete time.
func (c *Client) ScheduleAppointment(ctx context.Context, cookie, id string, at time.Time) error {
	p := fmt.Sprintf("/api/appointments/%s/schedule", url.PathEscape(id))
	return c.sendJSON(ctx, cookie, http.MethodPut, p, map[string]string{"scheduledFor": at.Format(time.RFC3339)}, nil)
}

// RejectAppointment declines an appointment request.
func (c *Client) RejectAppointment(ctx context.Context, cookie, id string) error {
	return c.sendJSON(ctx, cookie, http.MethodPut, fmt.Sprintf("/api/appointments/%s/reject", url.PathEscape(id)), nil, nil)
}

// DeleteAppointment removes an appointment record.
func (c *Client) DeleteAppointment(ctx context.Context, cookie, id string) error {
	return c.sendJSON(ctx, cookie, http.MethodDelete, "/api/appointments/"+url.PathEscape(id), nil, nil)
}

// --- school visits, feedback, users, announcements ---

// ListSchoolVisits fetches school visit requests.
func (c *Client) ListSchoolVisits(ctx context.Context, cookie string) ([]schoolvisit.Visit, error) {
	var list []schoolvisit.Visit
	if err := c.getJSON(ctx, cookie, "/api/admin/school-visits", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListFeedback fetches submitted feedback.
func (c *Client) ListFeedback(ctx context.Context, cookie string) ([]feedback.Feedback, error) {
	var list []feedback.Feedback
	if err := c.getJSON(ctx, cookie, "/api/admin/feedbacks", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AdminUser is a row of the user management page.
type AdminUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ListUsers fetches registered accounts.
func (c *Client) ListUsers(ctx context.Context, cookie string) ([]AdminUser, error) {
	var list []AdminUser
	if err := c.getJSON(ctx, cookie, "/api/admin/users", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// PublishAnnouncement posts a site-wide announcement.
func (c *Client) PublishAnnouncement(ctx context.Context, cookie, title, body string) error {
	return c.sendJSON(ctx, cookie, http.MethodPost, "/api/admin/announcement",
		map[string]string{"title": title, "body": body}, nil)
}
