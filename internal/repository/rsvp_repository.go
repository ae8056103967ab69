package repository

import (
	"context"
	"database/sql"
	"log"

	"golang.org/x/sync/errgroup"
)

// RSVPRepo manages RSVP records and the denormalized attendee counter
// stored on the events table.  An RSVP is keyed by (event_id, user_id)
// where user_id is an attributed identity: the decimal account ID for
// signed-in members or an anonymous device identifier.  Every mutation
// keeps the rsvps table and events.rsvp_count in step inside a single
// transaction.
type RSVPRepo struct {
	db *sql.DB
}

// NewRSVPRepo returns a new RSVPRepo bound to the given database.
func NewRSVPRepo(db *sql.DB) *RSVPRepo { return &RSVPRepo{db: db} }

// ToggleResult is returned by Toggle.  NewCount is re-read from the
// events row after the mutation so callers always see the stored
// counter, not a locally computed guess.
type ToggleResult struct {
	IsRSVPed bool `json:"is_rsvped"`
	NewCount int  `json:"new_count"`
}

// Status reports whether userID holds an RSVP for eventID.  Read
// failures degrade to false so availability checks never take a
// listing page down; the error is logged and swallowed.
func (r *RSVPRepo) Status(ctx context.Context, eventID, userID string) bool {
	const q = `SELECT 1 FROM rsvps WHERE event_id = ? AND user_id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, eventID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		log.Printf("rsvp: status read failed for event %s: %v", eventID, err)
		return false
	}
	return true
}

// StatusAll returns every event the user currently RSVPs to, as a set
// keyed by event ID.  Read failures degrade to an empty set.
func (r *RSVPRepo) StatusAll(ctx context.Context, userID string) map[string]bool {
	out := map[string]bool{}
	const q = `SELECT event_id FROM rsvps WHERE user_id = ?`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Printf("rsvp: status-all read failed: %v", err)
		return out
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Printf("rsvp: status-all scan failed: %v", err)
			return map[string]bool{}
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		log.Printf("rsvp: status-all iteration failed: %v", err)
		return map[string]bool{}
	}
	return out
}

// Count returns the stored attendee counter for an event.  Unknown
// events and read failures both yield 0; only the latter is logged.
func (r *RSVPRepo) Count(ctx context.Context, eventID string) int {
	const q = `SELECT rsvp_count FROM events WHERE id = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, eventID).Scan(&n)
	if err == sql.ErrNoRows {
		return 0
	}
	if err != nil {
		log.Printf("rsvp: count read failed for event %s: %v", eventID, err)
		return 0
	}
	return n
}

// Counts fans the per-event counter reads out concurrently and gathers
// them into a map.  A failing read contributes 0 for its key only;
// one bad event never blanks the whole batch.
func (r *RSVPRepo) Counts(ctx context.Context, eventIDs []string) map[string]int {
	out := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return out
	}
	type pair struct {
		id string
		n  int
	}
	results := make([]pair, len(eventIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, id := range eventIDs {
		i, id := i, id
		g.Go(func() error {
			results[i] = pair{id: id, n: r.Count(gctx, id)}
			return nil
		})
	}
	// Count never returns an error, so Wait cannot fail.
	_ = g.Wait()
	for _, p := range results {
		out[p.id] = p.n
	}
	return out
}

// Add records an RSVP and increments the event counter in one
// transaction.  It returns false with no mutation when the record
// already exists, which makes a double tap from the same client a
// harmless no-op.  Write failures propagate to the caller.
func (r *RSVPRepo) Add(ctx context.Context, eventID, userID string) (bool, error) {
	if r.Status(ctx, eventID, userID) {
		return false, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const ins = `INSERT INTO rsvps (event_id, user_id) VALUES (?, ?)`
	if _, err = tx.ExecContext(ctx, ins, eventID, userID); err != nil {
		return false, err
	}
	const inc = `UPDATE events SET rsvp_count = rsvp_count + 1 WHERE id = ?`
	if _, err = tx.ExecContext(ctx, inc, eventID); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

// Remove deletes an RSVP and decrements the event counter in one
// transaction.  It returns false with no mutation when no record
// exists.  The decrement is conditional on rsvp_count > 0 so the
// stored counter can never go negative even if it has drifted below
// the true attendee count.
func (r *RSVPRepo) Remove(ctx context.Context, eventID, userID string) (bool, error) {
	if !r.Status(ctx, eventID, userID) {
		return false, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const del = `DELETE FROM rsvps WHERE event_id = ? AND user_id = ?`
	if _, err = tx.ExecContext(ctx, del, eventID, userID); err != nil {
		return false, err
	}
	const dec = `UPDATE events SET rsvp_count = rsvp_count - 1 WHERE id = ? AND rsvp_count > 0`
	if _, err = tx.ExecContext(ctx, dec, eventID); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

// Toggle flips the caller's RSVP state and reports the resulting state
// together with the counter re-read from the events row.
func (r *RSVPRepo) Toggle(ctx context.Context, eventID, userID string) (ToggleResult, error) {
	if r.Status(ctx, eventID, userID) {
		if _, err := r.Remove(ctx, eventID, userID); err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{IsRSVPed: false, NewCount: r.Count(ctx, eventID)}, nil
	}
	if _, err := r.Add(ctx, eventID, userID); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{IsRSVPed: true, NewCount: r.Count(ctx, eventID)}, nil
}
