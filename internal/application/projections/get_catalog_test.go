package projections

import (
	"context"
	"testing"

	"diylab/internal/domain/blog"
	"diylab/internal/domain/course"
	"diylab/internal/domain/workshop"
)

// mockCatalogBackend returns canned lists and records the last category.
type mockCatalogBackend struct {
	workshops    []workshop.Workshop
	courses      []course.Course
	blogs        []blog.Post
	lastCategory string
}

func (m *mockCatalogBackend) ListWorkshops(_ context.Context, category string) ([]workshop.Workshop, error) {
	m.lastCategory = category
	return m.workshops, nil
}

func (m *mockCatalogBackend) ListCourses(_ context.Context) ([]course.Course, error) {
	return m.courses, nil
}

func (m *mockCatalogBackend) ListBlogs(_ context.Context) ([]blog.Post, error) {
	return m.blogs, nil
}

func TestQueryWorkshopCatalog_ValidCategoryPassedThrough(t *testing.T) {
	be := &mockCatalogBackend{workshops: []workshop.Workshop{{ID: "w1", Title: "Laser basics", Category: workshop.CategoryExplore}}}

	cat, err := QueryWorkshopCatalog(context.Background(), workshop.CategoryExplore, CatalogDeps{Backend: be})
	if err != nil {
		t.Fatalf("QueryWorkshopCatalog: %v", err)
	}
	if be.lastCategory != workshop.CategoryExplore {
		t.Errorf("lastCategory = %q", be.lastCategory)
	}
	if cat.Category != workshop.CategoryExplore {
		t.Errorf("Category = %q", cat.Category)
	}
	if len(cat.Workshops) != 1 {
		t.Errorf("len = %d, want 1", len(cat.Workshops))
	}
}

func TestQueryWorkshopCatalog_UnknownCategoryFallsBack(t *testing.T) {
	be := &mockCatalogBackend{}

	cat, err := QueryWorkshopCatalog(context.Background(), "woodworking?!", CatalogDeps{Backend: be})
	if err != nil {
		t.Fatalf("QueryWorkshopCatalog: %v", err)
	}
	if be.lastCategory != "" {
		t.Errorf("lastCategory = %q, want unfiltered fetch", be.lastCategory)
	}
	if cat.Category != "" {
		t.Errorf("Category = %q, want empty", cat.Category)
	}
}

func TestQueryBlogList_FiltersDrafts(t *testing.T) {
	be := &mockCatalogBackend{blogs: []blog.Post{
		{ID: "b1", Title: "Opening night", Published: true},
		{ID: "b2", Title: "Draft notes", Published: false},
		{ID: "b3", Title: "New laser cutter", Published: true},
	}}

	posts, err := QueryBlogList(context.Background(), CatalogDeps{Backend: be})
	if err != nil {
		t.Fatalf("QueryBlogList: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len = %d, want 2 published", len(posts))
	}
	for _, p := range posts {
		if !p.Published {
			t.Errorf("draft %q leaked into the public list", p.Title)
		}
	}
}
