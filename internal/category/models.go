package category

import (
	"time"

	"github.com/google/uuid"
)

// Category groups offers for navigation and filtering. Slugs are derived
// from the name and kept stable once assigned.
type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
