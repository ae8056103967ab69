package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/seckc/community-api/internal/model"
)

// NotificationRepo manages per-user notifications.  Rows carry a
// kind-tagged payload stored as JSON; the kind is validated at the
// model layer before anything reaches this repository.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts a notification, minting a UUID when the caller left
// the ID empty.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}
	const q = `INSERT INTO notifications (id, user_id, kind, title, message, payload,
		is_read, action_url, expires_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		n.ID, n.UserID, string(n.Kind), n.Title, n.Message, string(payload),
		n.IsRead, n.ActionURL, n.ExpiresAt,
	)
	return err
}

// ListForUser returns the user's notifications, newest first, skipping
// expired ones.  Pass unreadOnly to restrict to unread rows.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID uint64, unreadOnly bool) ([]model.Notification, error) {
	query := `SELECT id, user_id, kind, title, message, payload, is_read, action_url,
		expires_at, created_at FROM notifications
		WHERE user_id = ? AND (expires_at IS NULL OR expires_at > UTC_TIMESTAMP())`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		var kind string
		var payload, actionURL sql.NullString
		var expiresAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &n.Title, &n.Message,
			&payload, &n.IsRead, &actionURL, &expiresAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Kind = model.NotificationKind(kind)
		n.ActionURL = strPtr(actionURL)
		n.ExpiresAt = timePtr(expiresAt)
		if payload.Valid && payload.String != "" {
			if err := json.Unmarshal([]byte(payload.String), &n.Payload); err != nil {
				log.Printf("notification: bad payload JSON on %s: %v", n.ID, err)
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags one of the user's notifications as read.  The user
// scoping makes reading someone else's notification impossible rather
// than forbidden, so an ID mismatch and a wrong owner look the same.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string, userID uint64) error {
	const q = `UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification for the user.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	const q = `UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
