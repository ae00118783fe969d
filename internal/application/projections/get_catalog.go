package projections

import (
	"context"

	"diylab/internal/domain/blog"
	"diylab/internal/domain/course"
	"diylab/internal/domain/workshop"
)

// CatalogBackend defines the backend surface for the public catalog pages.
type CatalogBackend interface {
	ListWorkshops(ctx context.Context, category string) ([]workshop.Workshop, error)
	ListCourses(ctx context.Context) ([]course.Course, error)
	ListBlogs(ctx context.Context) ([]blog.Post, error)
}

// CatalogDeps holds dependencies for the catalog projections.
type CatalogDeps struct {
	Backend CatalogBackend
}

// WorkshopCatalog is the shape the workshop listing pages render.
type WorkshopCatalog struct {
	Category  string
	Workshops []workshop.Workshop
}

// QueryWorkshopCatalog fetches the workshop list, optionally narrowed to a
// category. An unknown category falls back to the unfiltered list rather
// than erroring, matching how the browse pages behave.
func QueryWorkshopCatalog(ctx context.Context, category string, deps CatalogDeps) (WorkshopCatalog, error) {
	if category != "" && !workshop.ValidCategory(category) {
		category = ""
	}
	list, err := deps.Backend.ListWorkshops(ctx, category)
	if err != nil {
		return WorkshopCatalog{}, err
	}
	return WorkshopCatalog{Category: category, Workshops: list}, nil
}

// QueryCourseList fetches the course listing.
func QueryCourseList(ctx context.Context, deps CatalogDeps) ([]course.Course, error) {
	return deps.Backend.ListCourses(ctx)
}

// QueryBlogList fetches blog posts for the public blog page. Unpublished
// drafts are filtered out; the admin editor uses its own listing.
func QueryBlogList(ctx context.Context, deps CatalogDeps) ([]blog.Post, error) {
	list, err := deps.Backend.ListBlogs(ctx)
	if err != nil {
		return nil, err
	}
	published := make([]blog.Post, 0, len(list))
	for _, p := range list {
		if p.Published {
			published = append(published, p)
		}
	}
	return published, nil
}
