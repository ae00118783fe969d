package workshop

import "errors"

// Workshop categories used by the browse pages.
const (
	CategoryExplore  = "Explore"
	CategoryServices = "Services"
	CategoryLearn    = "Learn&Engage"
)

// ValidCategories contains all browseable workshop categories.
var ValidCategories = []string{CategoryExplore, CategoryServices, CategoryLearn}

// Domain errors
var (
	ErrEmptyTitle      = errors.New("workshop title cannot be empty")
	ErrUnknownCategory = errors.New("category must be Explore, Services, or Learn&Engage")
)

// Workshop is a DIY Lab workshop listing owned by the backend. Description
// is markdown, rendered by the gateway.
type Workshop struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`
	Date        string `json:"date,omitempty"`
}

// ValidCategory reports whether category is browseable.
func ValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Validate checks admin-entered fields before a create/update call.
func (w *Workshop) Validate() error {
	if w.Title == "" {
		return ErrEmptyTitle
	}
	if !ValidCategory(w.Category) {
		return ErrUnknownCategory
	}
	return nil
}
