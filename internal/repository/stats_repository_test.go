package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckc/community-api/internal/model"
)

const statsQ = `SELECT total_events, total_members, years_active, last_updated
		FROM site_statistics WHERE id = ?`

func newStatsMock(t *testing.T) (*StatsRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStatsRepo(db), mock
}

func TestStatsGetReturnsStoredRow(t *testing.T) {
	repo, mock := newStatsMock(t)
	rows := sqlmock.NewRows([]string{"total_events", "total_members", "years_active", "last_updated"}).
		AddRow(130, 520, 13, time.Now().UTC())
	mock.ExpectQuery(regexp.QuoteMeta(statsQ)).WithArgs(1).WillReturnRows(rows)

	s := repo.Get(context.Background())
	assert.Equal(t, 130, s.TotalEvents)
	assert.Equal(t, 520, s.TotalMembers)
	assert.Equal(t, 13, s.YearsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsGetDefaultsWhenRowMissing(t *testing.T) {
	repo, mock := newStatsMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(statsQ)).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"total_events", "total_members", "years_active", "last_updated"}))

	s := repo.Get(context.Background())
	d := model.DefaultSiteStats()
	assert.Equal(t, d.TotalEvents, s.TotalEvents)
	assert.Equal(t, d.TotalMembers, s.TotalMembers)
	assert.Equal(t, d.YearsActive, s.YearsActive)
}

func TestStatsGetFailsOpenOnReadError(t *testing.T) {
	repo, mock := newStatsMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(statsQ)).WithArgs(1).
		WillReturnError(errors.New("down"))

	s := repo.Get(context.Background())
	assert.Equal(t, model.DefaultSiteStats().TotalEvents, s.TotalEvents)
}

func TestStatsInitializeSeedsDefaults(t *testing.T) {
	repo, mock := newStatsMock(t)
	d := model.DefaultSiteStats()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT IGNORE INTO site_statistics (id, total_events, total_members, years_active)
		VALUES (?, ?, ?, ?)`)).
		WithArgs(1, d.TotalEvents, d.TotalMembers, d.YearsActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Initialize(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsIncrementEventCount(t *testing.T) {
	repo, mock := newStatsMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE site_statistics SET total_events = total_events + 1 WHERE id = ?`)).
		WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementEventCount(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsUpdateAll(t *testing.T) {
	repo, mock := newStatsMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE site_statistics SET total_events = ?, total_members = ?, years_active = ?
		WHERE id = ?`)).
		WithArgs(140, 600, 13, 1).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateAll(context.Background(), model.SiteStats{
		TotalEvents: 140, TotalMembers: 600, YearsActive: 13,
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
