package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/seckc/community-api/internal/model"
)

// EventRepo provides read access to published events for the public API
// and full CRUD for organizers.  List-valued fields (speakers, topics,
// sponsor links) are stored as JSON columns and decoded on scan.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// EventFilter narrows List.  Zero values mean "no constraint"; Limit is
// clamped by the handler before it reaches the repository.  String
// filters match exact column values, not substrings.
type EventFilter struct {
	CategoryID string
	Difficulty string
	Upcoming   bool
	Featured   bool
	Limit      int
}

const eventCols = `id, title, description, short_description, event_date, end_date,
	location, address, virtual_link, is_virtual, is_hybrid, max_attendees,
	registration_deadline, category_id, difficulty_level, speaker_names, topics,
	sponsor_links, event_image_url, is_published, is_featured, rsvp_count,
	created_at, updated_at`

// List returns published events matching the filter, newest first.
func (r *EventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, error) {
	query := `SELECT ` + eventCols + ` FROM events WHERE is_published = 1`
	args := []interface{}{}
	if f.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Difficulty != "" {
		query += ` AND difficulty_level = ?`
		args = append(args, f.Difficulty)
	}
	if f.Upcoming {
		query += ` AND event_date >= UTC_TIMESTAMP()`
	}
	if f.Featured {
		query += ` AND is_featured = 1`
	}
	query += ` ORDER BY event_date DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := []model.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Get returns a single event by ID regardless of publication state.
// The public handler hides unpublished events itself so organizers can
// still preview drafts through the admin surface.
func (r *EventRepo) Get(ctx context.Context, id string) (*model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// Create inserts a new event.  The caller supplies the ID; organizers
// mint slug-style identifiers so event URLs stay readable.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	speakers, topics, sponsors, err := encodeEventJSON(ev)
	if err != nil {
		return err
	}
	const q = `INSERT INTO events (id, title, description, short_description, event_date,
		end_date, location, address, virtual_link, is_virtual, is_hybrid, max_attendees,
		registration_deadline, category_id, difficulty_level, speaker_names, topics,
		sponsor_links, event_image_url, is_published, is_featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		ev.ID, ev.Title, ev.Description, ev.ShortDescription, ev.EventDate,
		ev.EndDate, ev.Location, ev.Address, ev.VirtualLink, ev.IsVirtual, ev.IsHybrid,
		ev.MaxAttendees, ev.RegistrationDeadline, ev.CategoryID, ev.DifficultyLevel,
		speakers, topics, sponsors, ev.EventImageURL, ev.IsPublished, ev.IsFeatured,
	)
	return err
}

// Update rewrites all mutable columns of an event.  Returns
// ErrEventNotFound when the ID matches nothing.
func (r *EventRepo) Update(ctx context.Context, ev *model.Event) error {
	speakers, topics, sponsors, err := encodeEventJSON(ev)
	if err != nil {
		return err
	}
	const q = `UPDATE events SET title = ?, description = ?, short_description = ?,
		event_date = ?, end_date = ?, location = ?, address = ?, virtual_link = ?,
		is_virtual = ?, is_hybrid = ?, max_attendees = ?, registration_deadline = ?,
		category_id = ?, difficulty_level = ?, speaker_names = ?, topics = ?,
		sponsor_links = ?, event_image_url = ?, is_published = ?, is_featured = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		ev.Title, ev.Description, ev.ShortDescription, ev.EventDate, ev.EndDate,
		ev.Location, ev.Address, ev.VirtualLink, ev.IsVirtual, ev.IsHybrid,
		ev.MaxAttendees, ev.RegistrationDeadline, ev.CategoryID, ev.DifficultyLevel,
		speakers, topics, sponsors, ev.EventImageURL, ev.IsPublished, ev.IsFeatured,
		ev.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete removes an event and, via ON DELETE CASCADE, its RSVP rows.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ListCategories returns all event categories ordered by name.
func (r *EventRepo) ListCategories(ctx context.Context) ([]model.EventCategory, error) {
	const q = `SELECT id, name, description, color, icon, created_at
		FROM event_categories ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cats := []model.EventCategory{}
	for rows.Next() {
		var c model.EventCategory
		var desc, color, icon sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc, &color, &icon, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Description = strPtr(desc)
		c.Color = strPtr(color)
		c.Icon = strPtr(icon)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (model.Event, error) {
	var ev model.Event
	var shortDesc, location, address, virtualLink, categoryID, imageURL sql.NullString
	var endDate, regDeadline sql.NullTime
	var maxAttendees sql.NullInt64
	var speakers, topics, sponsors sql.NullString
	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Description, &shortDesc, &ev.EventDate, &endDate,
		&location, &address, &virtualLink, &ev.IsVirtual, &ev.IsHybrid, &maxAttendees,
		&regDeadline, &categoryID, &ev.DifficultyLevel, &speakers, &topics,
		&sponsors, &imageURL, &ev.IsPublished, &ev.IsFeatured, &ev.RSVPCount,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return ev, err
	}
	ev.ShortDescription = strPtr(shortDesc)
	ev.Location = strPtr(location)
	ev.Address = strPtr(address)
	ev.VirtualLink = strPtr(virtualLink)
	ev.CategoryID = strPtr(categoryID)
	ev.EventImageURL = strPtr(imageURL)
	ev.EndDate = timePtr(endDate)
	ev.RegistrationDeadline = timePtr(regDeadline)
	if maxAttendees.Valid {
		v := uint32(maxAttendees.Int64)
		ev.MaxAttendees = &v
	}
	ev.SpeakerNames = decodeStrings(speakers, "speaker_names", ev.ID)
	ev.Topics = decodeStrings(topics, "topics", ev.ID)
	if sponsors.Valid && sponsors.String != "" {
		if err := json.Unmarshal([]byte(sponsors.String), &ev.SponsorLinks); err != nil {
			log.Printf("event: bad sponsor_links JSON on %s: %v", ev.ID, err)
			ev.SponsorLinks = nil
		}
	}
	return ev, nil
}

// decodeStrings parses a JSON array column, degrading to an empty slice
// on malformed data rather than failing the whole row.
func decodeStrings(col sql.NullString, name, eventID string) []string {
	if !col.Valid || col.String == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		log.Printf("event: bad %s JSON on %s: %v", name, eventID, err)
		return []string{}
	}
	return out
}

func encodeEventJSON(ev *model.Event) (speakers, topics string, sponsors *string, err error) {
	s, err := json.Marshal(orEmpty(ev.SpeakerNames))
	if err != nil {
		return "", "", nil, err
	}
	t, err := json.Marshal(orEmpty(ev.Topics))
	if err != nil {
		return "", "", nil, err
	}
	if len(ev.SponsorLinks) > 0 {
		b, err := json.Marshal(ev.SponsorLinks)
		if err != nil {
			return "", "", nil, err
		}
		sp := string(b)
		sponsors = &sp
	}
	return string(s), string(t), sponsors, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}
