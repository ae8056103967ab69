package model

import "time"

// Event represents a meetup event as stored in the `events` table.
// Events are created by organizers through the admin API and read by
// everyone.  The only field this service mutates outside the admin
// surface is RSVPCount, which caches the number of rows in `rsvps`
// referencing this event so list views never have to count them.
//
// Fields:
//  ID                   – document-style string identifier (events.id).
//  Title                – event title.
//  Description          – full description, may contain markdown.
//  ShortDescription     – optional teaser shown in list views.
//  EventDate            – when the event starts (UTC).
//  EndDate              – when the event ends (nullable, open-ended when nil).
//  Location             – physical venue (nullable).
//  Address              – street address (nullable).
//  VirtualLink          – join URL for virtual/hybrid events (nullable).
//  IsVirtual, IsHybrid  – delivery mode flags.
//  MaxAttendees         – capacity hint, not enforced by RSVPs (nullable).
//  RegistrationDeadline – last moment to RSVP (nullable, informational).
//  CategoryID           – reference into event_categories (nullable).
//  DifficultyLevel      – beginner|intermediate|advanced.
//  SpeakerNames         – list of speakers, stored as a JSON column.
//  Topics               – topic tags, stored as a JSON column.
//  SponsorLinks         – sponsor name -> URL, stored as a JSON column.
//  EventImageURL        – hero image (nullable).
//  IsPublished          – unpublished events are invisible to the public API.
//  IsFeatured           – surfaced on the home screen.
//  RSVPCount            – denormalized attendee counter (events.rsvp_count).
//  CreatedAt, UpdatedAt – row timestamps.
type Event struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	ShortDescription     *string           `json:"short_description,omitempty"`
	EventDate            time.Time         `json:"event_date"`
	EndDate              *time.Time        `json:"end_date,omitempty"`
	Location             *string           `json:"location,omitempty"`
	Address              *string           `json:"address,omitempty"`
	VirtualLink          *string           `json:"virtual_link,omitempty"`
	IsVirtual            bool              `json:"is_virtual"`
	IsHybrid             bool              `json:"is_hybrid"`
	MaxAttendees         *uint32           `json:"max_attendees,omitempty"`
	RegistrationDeadline *time.Time        `json:"registration_deadline,omitempty"`
	CategoryID           *string           `json:"category_id,omitempty"`
	DifficultyLevel      string            `json:"difficulty_level"`
	SpeakerNames         []string          `json:"speaker_names"`
	Topics               []string          `json:"topics"`
	SponsorLinks         map[string]string `json:"sponsor_links,omitempty"`
	EventImageURL        *string           `json:"event_image_url,omitempty"`
	IsPublished          bool              `json:"is_published"`
	IsFeatured           bool              `json:"is_featured"`
	RSVPCount            int               `json:"rsvp_count"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// EventCategory represents a row in `event_categories`.  Categories are
// referenced by events and resources for filtering.
type EventCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
