package repository

import (
	"context"
	"database/sql"

	"github.com/seckc/community-api/internal/model"
)

// BookmarkRepo manages members' saved resources.  Bookmarks are keyed
// by (resource_id, user_id) like RSVPs, and both mutations are
// idempotent: saving twice or removing a missing bookmark reports
// false rather than erroring.
type BookmarkRepo struct {
	db *sql.DB
}

// NewBookmarkRepo returns a new BookmarkRepo bound to the given database.
func NewBookmarkRepo(db *sql.DB) *BookmarkRepo { return &BookmarkRepo{db: db} }

// Add saves a resource for the user.  Returns false when the bookmark
// already existed.
func (r *BookmarkRepo) Add(ctx context.Context, resourceID string, userID uint64) (bool, error) {
	const q = `INSERT IGNORE INTO resource_bookmarks (resource_id, user_id) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, resourceID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remove deletes the user's bookmark.  Returns false when there was
// nothing to delete.
func (r *BookmarkRepo) Remove(ctx context.Context, resourceID string, userID uint64) (bool, error) {
	const q = `DELETE FROM resource_bookmarks WHERE resource_id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, q, resourceID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListForUser returns the user's bookmarked resources, most recently
// saved first.  Unapproved resources stay visible here: a member keeps
// access to what they saved even if curation later pulls it from the
// public listing.
func (r *BookmarkRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Resource, error) {
	const q = `SELECT r.id, r.title, r.description, r.resource_type, r.category_id,
		r.url, r.difficulty_level, r.is_free, r.price_cents, r.currency, r.author,
		r.publisher, r.duration_minutes, r.page_count, r.rating, r.rating_count,
		r.tags, r.image_url, r.is_featured, r.is_approved, r.created_at, r.updated_at
		FROM resources r
		JOIN resource_bookmarks b ON b.resource_id = r.id
		WHERE b.user_id = ? ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
