package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"diylab/internal/domain/blog"
)

// BackendForBlogAdmin defines the backend surface needed by the blog
// back-office actions.
type BackendForBlogAdmin interface {
	SaveBlog(ctx context.Context, cookie string, p blog.Post) error
	DeleteBlog(ctx context.Context, cookie, id string) error
	PublishAnnouncement(ctx context.Context, cookie, title, body string) error
}

// ManageBlogDeps holds dependencies for the blog actions.
type ManageBlogDeps struct {
	Backend BackendForBlogAdmin
}

var ErrEmptyAnnouncement = errors.New("announcement title and body are required")

// ExecuteSaveBlogPost creates or updates a blog post. An empty ID means
// create.
func ExecuteSaveBlogPost(ctx context.Context, cookie string, p blog.Post, deps ManageBlogDeps) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := deps.Backend.SaveBlog(ctx, cookie, p); err != nil {
		slog.Info("admin_event", "event", "blog_save_failed", "title", p.Title, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "blog_saved", "title", p.Title)
	return nil
}

// ExecuteDeleteBlogPost removes a blog post.
func ExecuteDeleteBlogPost(ctx context.Context, cookie, id string, deps ManageBlogDeps) error {
	if err := deps.Backend.DeleteBlog(ctx, cookie, id); err != nil {
		slog.Info("admin_event", "event", "blog_delete_failed", "id", id, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "blog_deleted", "id", id)
	return nil
}

// ExecutePublishAnnouncement posts a site-wide announcement.
func ExecutePublishAnnouncement(ctx context.Context, cookie, title, body string, deps ManageBlogDeps) error {
	if title == "" || body == "" {
		return ErrEmptyAnnouncement
	}
	if err := deps.Backend.PublishAnnouncement(ctx, cookie, title, body); err != nil {
		slog.Info("admin_event", "event", "announcement_failed", "title", title, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "announcement_published", "title", title)
	return nil
}
