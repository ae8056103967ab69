package model

import "time"

// User represents a member account as stored in the `users` table.
// Accounts are created through registration; a profile row is also
// lazily created on first sign-in when the auth backend knows the
// account but the profile document was never written (legacy imports).
//
// Preferences is persisted as a JSON column so new preference fields
// do not require a migration; see UserPreferences for the recognized
// shape.
type User struct {
	ID              uint64           `json:"id"`
	Email           string           `json:"email"`
	PasswordHash    string           `json:"-"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	DisplayName     *string          `json:"display_name,omitempty"`
	Bio             *string          `json:"bio,omitempty"`
	Company         *string          `json:"company,omitempty"`
	JobTitle        *string          `json:"job_title,omitempty"`
	LinkedinURL     *string          `json:"linkedin_url,omitempty"`
	TwitterHandle   *string          `json:"twitter_handle,omitempty"`
	GithubUsername  *string          `json:"github_username,omitempty"`
	ProfileImageURL *string          `json:"profile_image_url,omitempty"`
	IsActive        bool             `json:"is_active"`
	IsAdmin         bool             `json:"is_admin"`
	EmailVerified   bool             `json:"email_verified"`
	Preferences     UserPreferences  `json:"preferences"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// UserPreferences enumerates every recognized per-account preference.
// Each notification switch maps to one notification kind; Theme uses
// the same enumeration as the device settings package.
type UserPreferences struct {
	NotificationsEvents         bool   `json:"notifications_events"`
	NotificationsNewEvents      bool   `json:"notifications_new_events"`
	NotificationsSocial         bool   `json:"notifications_social"`
	NotificationsSecurityAlerts bool   `json:"notifications_security_alerts"`
	NotificationsNewsletter     bool   `json:"notifications_newsletter"`
	Theme                       string `json:"theme"` // auto|light|dark
	Language                    string `json:"language"`
	FontSize                    uint8  `json:"font_size"`
	HapticFeedback              bool   `json:"haptic_feedback"`
	AutoRefresh                 bool   `json:"auto_refresh"`
}

// DefaultPreferences returns the preference set written for newly
// registered accounts.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		NotificationsEvents:         true,
		NotificationsNewEvents:      true,
		NotificationsSocial:         false,
		NotificationsSecurityAlerts: true,
		NotificationsNewsletter:     false,
		Theme:                       "auto",
		Language:                    "en",
		FontSize:                    16,
		HapticFeedback:              true,
		AutoRefresh:                 true,
	}
}
