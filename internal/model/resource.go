package model

import "time"

// Resource is a learning resource (course, tool, book, ...) listed in
// the `resources` table.  Resources are curated by admins; members can
// bookmark them.  Unapproved resources are hidden from the public API.
//
// Fields mirror the table columns; Tags is stored as a JSON column.
// Price is in cents with a currency code so free resources are simply
// IsFree with a nil price.
type Resource struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ResourceType    string     `json:"resource_type"` // course|tool|document|video|website|book
	CategoryID      *string    `json:"category_id,omitempty"`
	URL             string     `json:"url"`
	DifficultyLevel string     `json:"difficulty_level"` // beginner|intermediate|advanced
	IsFree          bool       `json:"is_free"`
	PriceCents      *uint32    `json:"price_cents,omitempty"`
	Currency        string     `json:"currency"`
	Author          *string    `json:"author,omitempty"`
	Publisher       *string    `json:"publisher,omitempty"`
	DurationMinutes *uint32    `json:"duration_minutes,omitempty"`
	PageCount       *uint32    `json:"page_count,omitempty"`
	Rating          *float64   `json:"rating,omitempty"`
	RatingCount     uint32     `json:"rating_count"`
	Tags            []string   `json:"tags"`
	ImageURL        *string    `json:"image_url,omitempty"`
	IsFeatured      bool       `json:"is_featured"`
	IsApproved      bool       `json:"is_approved"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ResourceBookmark links a member to a resource they saved.  One row
// per (resource, user) pair in `resource_bookmarks`.
type ResourceBookmark struct {
	ResourceID string    `json:"resource_id"` // resource_bookmarks.resource_id
	UserID     uint64    `json:"user_id"`     // resource_bookmarks.user_id
	CreatedAt  time.Time `json:"created_at"`  // resource_bookmarks.created_at
}
