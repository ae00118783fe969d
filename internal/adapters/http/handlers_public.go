package web

import (
	"net/http"

	"github.com/gorilla/csrf"

	"diylab/internal/application/projections"
)

// handleHome renders the landing page. It is also the fallback for every
// unmatched path, so old shared links land somewhere useful.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	catalog, err := projections.QueryWorkshopCatalog(r.Context(), "", projections.CatalogDeps{Backend: deps.Backend})
	if err != nil {
		// The home page still renders when the backend is down; the
		// highlights section just stays empty.
		catalog = projections.WorkshopCatalog{}
	}
	renderTemplate(w, r, "home.html", map[string]any{
		"Highlights": highlights(catalog.Workshops, 3),
	})
}

// handleAbout renders the static about page.
func handleAbout(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "about.html", nil)
}

// handleWorkshops renders the workshop catalog, optionally filtered by
// category via ?category=.
func handleWorkshops(w http.ResponseWriter, r *http.Request) {
	catalog, err := projections.QueryWorkshopCatalog(r.Context(), r.URL.Query().Get("category"),
		projections.CatalogDeps{Backend: deps.Backend})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "workshops.html", map[string]any{
		"Category":  catalog.Category,
		"Workshops": catalog.Workshops,
	})
}

// handleCourses renders the course listing.
func handleCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := projections.QueryCourseList(r.Context(), projections.CatalogDeps{Backend: deps.Backend})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "courses.html", map[string]any{
		"Courses": courses,
	})
}

// handleBlog renders published blog posts.
func handleBlog(w http.ResponseWriter, r *http.Request) {
	posts, err := projections.QueryBlogList(r.Context(), projections.CatalogDeps{Backend: deps.Backend})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "blog.html", map[string]any{
		"Posts": posts,
	})
}

// handleUnauthorized renders the wrong-role page. The session stays live;
// the page links back to the public site and the user area.
func handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "unauthorized.html", map[string]any{
		"CSRFToken": csrf.Token(r),
	})
}

// highlights trims a workshop list for the home page teaser.
func highlights[T any](list []T, n int) []T {
	if len(list) > n {
		return list[:n]
	}
	return list
}
