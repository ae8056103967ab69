package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/seckc/community-api/internal/model"
)

// ProfileRepo manages the user_profiles table: the member-facing half
// of an account.  A profile may be missing for accounts imported from
// the legacy membership list; the sign-in flow calls Create to repair
// that, so Get returning ErrProfileNotFound is an expected condition
// rather than corruption.
type ProfileRepo struct {
	db *sql.DB
}

// NewProfileRepo returns a new ProfileRepo bound to the given database.
func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// Profile mirrors the user_profiles table.  Preferences is a JSON
// column; malformed stored JSON degrades to defaults on read.
type Profile struct {
	UserID          uint64
	FirstName       string
	LastName        string
	DisplayName     *string
	Bio             *string
	Company         *string
	JobTitle        *string
	LinkedinURL     *string
	TwitterHandle   *string
	GithubUsername  *string
	ProfileImageURL *string
	EmailVerified   bool
	Preferences     model.UserPreferences
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileUpdate carries a partial profile mutation.  Nil fields are
// left untouched; set fields overwrite, including explicit empty
// strings.
type ProfileUpdate struct {
	FirstName       *string
	LastName        *string
	DisplayName     *string
	Bio             *string
	Company         *string
	JobTitle        *string
	LinkedinURL     *string
	TwitterHandle   *string
	GithubUsername  *string
	ProfileImageURL *string
}

const profileCols = `user_id, first_name, last_name, display_name, bio, company,
	job_title, linkedin_url, twitter_handle, github_username, profile_image_url,
	email_verified, preferences, created_at, updated_at`

// Get fetches a profile by account ID.
func (r *ProfileRepo) Get(ctx context.Context, userID uint64) (Profile, error) {
	const q = `SELECT ` + profileCols + ` FROM user_profiles WHERE user_id = ?`
	var p Profile
	var displayName, bio, company, jobTitle, linkedin, twitter, github, imageURL sql.NullString
	var prefs sql.NullString
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &displayName, &bio, &company,
		&jobTitle, &linkedin, &twitter, &github, &imageURL,
		&p.EmailVerified, &prefs, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return p, ErrProfileNotFound
	}
	if err != nil {
		return p, err
	}
	p.DisplayName = strPtr(displayName)
	p.Bio = strPtr(bio)
	p.Company = strPtr(company)
	p.JobTitle = strPtr(jobTitle)
	p.LinkedinURL = strPtr(linkedin)
	p.TwitterHandle = strPtr(twitter)
	p.GithubUsername = strPtr(github)
	p.ProfileImageURL = strPtr(imageURL)
	p.Preferences = model.DefaultPreferences()
	if prefs.Valid && prefs.String != "" {
		if err := json.Unmarshal([]byte(prefs.String), &p.Preferences); err != nil {
			log.Printf("profile: bad preferences JSON for user %d: %v", userID, err)
			p.Preferences = model.DefaultPreferences()
		}
	}
	return p, nil
}

// Create writes a fresh profile row with default preferences.  Used at
// registration and lazily at sign-in for accounts that predate the
// profile table.
func (r *ProfileRepo) Create(ctx context.Context, userID uint64, firstName, lastName string) error {
	prefs, err := json.Marshal(model.DefaultPreferences())
	if err != nil {
		return err
	}
	const q = `INSERT INTO user_profiles (user_id, first_name, last_name, preferences)
		VALUES (?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q, userID, firstName, lastName, string(prefs))
	return err
}

// Update applies a partial mutation.  Only the fields set on upd make
// it into the statement; calling with an empty update is a no-op.
func (r *ProfileRepo) Update(ctx context.Context, userID uint64, upd ProfileUpdate) error {
	set := ""
	args := []interface{}{}
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, *v)
	}
	add("first_name", upd.FirstName)
	add("last_name", upd.LastName)
	add("display_name", upd.DisplayName)
	add("bio", upd.Bio)
	add("company", upd.Company)
	add("job_title", upd.JobTitle)
	add("linkedin_url", upd.LinkedinURL)
	add("twitter_handle", upd.TwitterHandle)
	add("github_username", upd.GithubUsername)
	add("profile_image_url", upd.ProfileImageURL)
	if set == "" {
		return nil
	}
	args = append(args, userID)
	res, err := r.db.ExecContext(ctx, `UPDATE user_profiles SET `+set+` WHERE user_id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 when the update changes nothing, so
		// confirm the row is really missing before reporting it.
		var one int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM user_profiles WHERE user_id = ?`, userID).Scan(&one); err == sql.ErrNoRows {
			return ErrProfileNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// UpdatePreferences replaces the stored preference document wholesale.
func (r *ProfileRepo) UpdatePreferences(ctx context.Context, userID uint64, prefs model.UserPreferences) error {
	b, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	const q = `UPDATE user_profiles SET preferences = ? WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, q, string(b), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM user_profiles WHERE user_id = ?`, userID).Scan(&one); err == sql.ErrNoRows {
			return ErrProfileNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}
