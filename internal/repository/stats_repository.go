package repository

import (
	"context"
	"database/sql"
	"log"

	"github.com/seckc/community-api/internal/model"
)

// statsRowID pins site_statistics to a single row; every statement
// addresses it explicitly so the table can never grow a second row.
const statsRowID = 1

// StatsRepo manages the singleton site statistics document shown on
// the home screen.  Reads fail open to the seeded defaults so the
// public stats endpoint stays up through database trouble.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo returns a new StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Get returns the current statistics, or the defaults when the row is
// missing or unreadable.
func (r *StatsRepo) Get(ctx context.Context) model.SiteStats {
	const q = `SELECT total_events, total_members, years_active, last_updated
		FROM site_statistics WHERE id = ?`
	var s model.SiteStats
	err := r.db.QueryRowContext(ctx, q, statsRowID).Scan(
		&s.TotalEvents, &s.TotalMembers, &s.YearsActive, &s.LastUpdated)
	if err == sql.ErrNoRows {
		return model.DefaultSiteStats()
	}
	if err != nil {
		log.Printf("stats: read failed: %v", err)
		return model.DefaultSiteStats()
	}
	return s
}

// Initialize seeds the statistics row with the default values.  A row
// that already exists is left alone.
func (r *StatsRepo) Initialize(ctx context.Context) error {
	d := model.DefaultSiteStats()
	const q = `INSERT IGNORE INTO site_statistics (id, total_events, total_members, years_active)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, statsRowID, d.TotalEvents, d.TotalMembers, d.YearsActive)
	return err
}

// IncrementEventCount bumps total_events by one, called when an admin
// publishes a new event.
func (r *StatsRepo) IncrementEventCount(ctx context.Context) error {
	const q = `UPDATE site_statistics SET total_events = total_events + 1 WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, statsRowID)
	return err
}

// UpdateMemberCount overwrites total_members, typically from the
// periodic refresh against the users table.
func (r *StatsRepo) UpdateMemberCount(ctx context.Context, n int) error {
	const q = `UPDATE site_statistics SET total_members = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, n, statsRowID)
	return err
}

// UpdateYearsActive overwrites years_active.
func (r *StatsRepo) UpdateYearsActive(ctx context.Context, n int) error {
	const q = `UPDATE site_statistics SET years_active = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, n, statsRowID)
	return err
}

// UpdateAll overwrites every statistic at once (admin bulk edit).
func (r *StatsRepo) UpdateAll(ctx context.Context, s model.SiteStats) error {
	const q = `UPDATE site_statistics SET total_events = ?, total_members = ?, years_active = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, s.TotalEvents, s.TotalMembers, s.YearsActive, statsRowID)
	return err
}
