package repository

import (
	"context"
	"database/sql"

	"github.com/seckc/community-api/internal/model"
)

// SocialRepo reads the syndicated social feed.  Posts are ingested by
// an external pipeline; this service only lists them, so there is no
// public write surface beyond the admin CRUD.
type SocialRepo struct {
	db *sql.DB
}

// NewSocialRepo returns a new SocialRepo bound to the given database.
func NewSocialRepo(db *sql.DB) *SocialRepo { return &SocialRepo{db: db} }

// SocialFilter narrows List.  Zero values mean "no constraint".
type SocialFilter struct {
	Platform     string
	FeaturedOnly bool
	Limit        int
}

// List returns social posts matching the filter, newest first by
// original post time.
func (r *SocialRepo) List(ctx context.Context, f SocialFilter) ([]model.SocialPost, error) {
	query := `SELECT id, author_name, author_avatar, platform, content, post_url,
		likes_count, replies_count, is_featured, posted_at, created_at
		FROM social_posts WHERE 1=1`
	args := []interface{}{}
	if f.Platform != "" {
		query += ` AND platform = ?`
		args = append(args, f.Platform)
	}
	if f.FeaturedOnly {
		query += ` AND is_featured = 1`
	}
	query += ` ORDER BY posted_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []model.SocialPost{}
	for rows.Next() {
		var p model.SocialPost
		var avatar, postURL sql.NullString
		if err := rows.Scan(&p.ID, &p.AuthorName, &avatar, &p.Platform, &p.Content,
			&postURL, &p.LikesCount, &p.RepliesCount, &p.IsFeatured,
			&p.PostedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.AuthorAvatar = strPtr(avatar)
		p.PostURL = strPtr(postURL)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Create inserts an ingested post with a caller-supplied ID.
func (r *SocialRepo) Create(ctx context.Context, p *model.SocialPost) error {
	const q = `INSERT INTO social_posts (id, author_name, author_avatar, platform,
		content, post_url, likes_count, replies_count, is_featured, posted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.AuthorName, p.AuthorAvatar, p.Platform, p.Content, p.PostURL,
		p.LikesCount, p.RepliesCount, p.IsFeatured, p.PostedAt,
	)
	return err
}

// Delete removes a post by ID.  Deleting an unknown post is a no-op;
// the feed is eventually consistent with the ingest pipeline anyway.
func (r *SocialRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM social_posts WHERE id = ?`, id)
	return err
}
