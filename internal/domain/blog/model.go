package blog

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptyTitle   = errors.New("blog title cannot be empty")
	ErrEmptyContent = errors.New("blog content cannot be empty")
)

// Post is a blog post owned by the backend. Content is markdown, rendered
// by the gateway with raw HTML escaped.
type Post struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author,omitempty"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// Validate checks admin-entered fields before a create/update call.
func (p *Post) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if p.Content == "" {
		return ErrEmptyContent
	}
	return nil
}
