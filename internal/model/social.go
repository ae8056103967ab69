package model

import "time"

// SocialPost is a syndicated community post (Discord, Twitter, ...)
// stored in the `social_posts` table and shown read-only in the app's
// social feed.  Engagement counters are snapshots taken at ingest time,
// not live values.
type SocialPost struct {
	ID           string    `json:"id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar *string   `json:"author_avatar,omitempty"`
	Platform     string    `json:"platform"`
	Content      string    `json:"content"`
	PostURL      *string   `json:"post_url,omitempty"`
	LikesCount   uint32    `json:"likes_count"`
	RepliesCount uint32    `json:"replies_count"`
	IsFeatured   bool      `json:"is_featured"`
	PostedAt     time.Time `json:"posted_at"`
	CreatedAt    time.Time `json:"created_at"`
}
