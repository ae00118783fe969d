package backend

import (
	"context"
	"net/url"

	"diylab/internal/domain/blog"
	"diylab/internal/domain/course"
	"diylab/internal/domain/workshop"
)

// ListWorkshops fetches the public workshop catalog, optionally filtered by
// category. A fresh fetch always overwrites any cached copy.
func (c *Client) ListWorkshops(ctx context.Context, category string) ([]workshop.Workshop, error) {
	p := "/api/workshops"
	if category != "" {
		p += "?category=" + url.QueryEscape(category)
	}
	var list []workshop.Workshop
	if err := c.getJSON(ctx, "", p, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListCourses fetches the public course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]course.Course, error) {
	var list []course.Course
	if err := c.getJSON(ctx, "", "/api/courses", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListBlogs fetches published blog posts.
func (c *Client) ListBlogs(ctx context.Context) ([]blog.Post, error) {
	var list []blog.Post
	if err := c.getJSON(ctx, "", "/api/blogs", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListCategories fetches the browseable workshop categories.
func (c *Client) ListCategories(ctx context.Context, cookie string) ([]string, error) {
	var list []string
	if err := c.getJSON(ctx, cookie, "/api/admin/categories", &list); err != nil {
		return nil, err
	}
	return list, nil
}
