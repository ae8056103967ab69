package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/seckc/community-api/internal/model"
)

// ResourceRepo provides read access to approved learning resources and
// full CRUD for admins.
type ResourceRepo struct {
	db *sql.DB
}

// NewResourceRepo returns a new ResourceRepo bound to the given database.
func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{db: db} }

// ResourceFilter narrows List.  Zero values mean "no constraint".
type ResourceFilter struct {
	CategoryID   string
	Type         string
	Difficulty   string
	FreeOnly     bool
	FeaturedOnly bool
	Limit        int
}

const resourceCols = `id, title, description, resource_type, category_id, url,
	difficulty_level, is_free, price_cents, currency, author, publisher,
	duration_minutes, page_count, rating, rating_count, tags, image_url,
	is_featured, is_approved, created_at, updated_at`

// List returns approved resources matching the filter, newest first.
func (r *ResourceRepo) List(ctx context.Context, f ResourceFilter) ([]model.Resource, error) {
	query := `SELECT ` + resourceCols + ` FROM resources WHERE is_approved = 1`
	args := []interface{}{}
	if f.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Type != "" {
		query += ` AND resource_type = ?`
		args = append(args, f.Type)
	}
	if f.Difficulty != "" {
		query += ` AND difficulty_level = ?`
		args = append(args, f.Difficulty)
	}
	if f.FreeOnly {
		query += ` AND is_free = 1`
	}
	if f.FeaturedOnly {
		query += ` AND is_featured = 1`
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
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

// Get returns a single resource by ID.
func (r *ResourceRepo) Get(ctx context.Context, id string) (*model.Resource, error) {
	const q = `SELECT ` + resourceCols + ` FROM resources WHERE id = ?`
	res, err := scanResource(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create inserts a new resource with a caller-supplied ID.
func (r *ResourceRepo) Create(ctx context.Context, res *model.Resource) error {
	tags, err := json.Marshal(orEmpty(res.Tags))
	if err != nil {
		return err
	}
	const q = `INSERT INTO resources (id, title, description, resource_type, category_id,
		url, difficulty_level, is_free, price_cents, currency, author, publisher,
		duration_minutes, page_count, rating, rating_count, tags, image_url,
		is_featured, is_approved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		res.ID, res.Title, res.Description, res.ResourceType, res.CategoryID,
		res.URL, res.DifficultyLevel, res.IsFree, res.PriceCents, res.Currency,
		res.Author, res.Publisher, res.DurationMinutes, res.PageCount, res.Rating,
		res.RatingCount, string(tags), res.ImageURL, res.IsFeatured, res.IsApproved,
	)
	return err
}

// Update rewrites all mutable columns of a resource.  Returns
// ErrResourceNotFound when the ID matches nothing.
func (r *ResourceRepo) Update(ctx context.Context, res *model.Resource) error {
	tags, err := json.Marshal(orEmpty(res.Tags))
	if err != nil {
		return err
	}
	const q = `UPDATE resources SET title = ?, description = ?, resource_type = ?,
		category_id = ?, url = ?, difficulty_level = ?, is_free = ?, price_cents = ?,
		currency = ?, author = ?, publisher = ?, duration_minutes = ?, page_count = ?,
		rating = ?, rating_count = ?, tags = ?, image_url = ?, is_featured = ?,
		is_approved = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		res.Title, res.Description, res.ResourceType, res.CategoryID, res.URL,
		res.DifficultyLevel, res.IsFree, res.PriceCents, res.Currency, res.Author,
		res.Publisher, res.DurationMinutes, res.PageCount, res.Rating, res.RatingCount,
		string(tags), res.ImageURL, res.IsFeatured, res.IsApproved, res.ID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResourceNotFound
	}
	return nil
}

// Delete removes a resource and cascades to its bookmarks.
func (r *ResourceRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResourceNotFound
	}
	return nil
}

func scanResource(row rowScanner) (model.Resource, error) {
	var res model.Resource
	var categoryID, author, publisher, imageURL, tags sql.NullString
	var priceCents, durationMinutes, pageCount sql.NullInt64
	var rating sql.NullFloat64
	err := row.Scan(
		&res.ID, &res.Title, &res.Description, &res.ResourceType, &categoryID,
		&res.URL, &res.DifficultyLevel, &res.IsFree, &priceCents, &res.Currency,
		&author, &publisher, &durationMinutes, &pageCount, &rating, &res.RatingCount,
		&tags, &imageURL, &res.IsFeatured, &res.IsApproved,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return res, err
	}
	res.CategoryID = strPtr(categoryID)
	res.Author = strPtr(author)
	res.Publisher = strPtr(publisher)
	res.ImageURL = strPtr(imageURL)
	res.PriceCents = uint32Ptr(priceCents)
	res.DurationMinutes = uint32Ptr(durationMinutes)
	res.PageCount = uint32Ptr(pageCount)
	if rating.Valid {
		v := rating.Float64
		res.Rating = &v
	}
	res.Tags = []string{}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &res.Tags); err != nil {
			log.Printf("resource: bad tags JSON on %s: %v", res.ID, err)
			res.Tags = []string{}
		}
	}
	return res, nil
}

func uint32Ptr(ni sql.NullInt64) *uint32 {
	if !ni.Valid {
		return nil
	}
	v := uint32(ni.Int64)
	return &v
}
