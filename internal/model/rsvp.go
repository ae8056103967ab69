package model

import "time"

// RSVP records one attributed user's intent to attend one event.  The
// pair (EventID, UserID) is the record's identity; the `rsvps` table
// enforces it with a unique key, mirroring the document key
// `{eventId}_{userId}` used by the mobile clients.  Existence of the
// row is the source of truth for attendance; the event's RSVPCount is
// only a cache of how many rows reference it.
//
// UserID is an attributed user identifier: either the decimal ID of an
// authenticated account, or an `anon_`-prefixed identifier minted by
// the identity package and persisted on the device.  It is stable for
// the lifetime of the device storage but not unique across devices for
// the same human.
type RSVP struct {
	EventID   string    `json:"event_id"`  // rsvps.event_id
	UserID    string    `json:"user_id"`   // rsvps.user_id
	CreatedAt time.Time `json:"timestamp"` // rsvps.created_at
}
