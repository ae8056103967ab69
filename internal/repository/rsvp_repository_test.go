package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	statusQ = `SELECT 1 FROM rsvps WHERE event_id = ? AND user_id = ? LIMIT 1`
	countQ  = `SELECT rsvp_count FROM events WHERE id = ?`
	insQ    = `INSERT INTO rsvps (event_id, user_id) VALUES (?, ?)`
	incQ    = `UPDATE events SET rsvp_count = rsvp_count + 1 WHERE id = ?`
	delQ    = `DELETE FROM rsvps WHERE event_id = ? AND user_id = ?`
	decQ    = `UPDATE events SET rsvp_count = rsvp_count - 1 WHERE id = ? AND rsvp_count > 0`
)

func newRSVPMock(t *testing.T) (*RSVPRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRSVPRepo(db), mock
}

func expectStatus(mock sqlmock.Sqlmock, eventID, userID string, present bool) {
	e := mock.ExpectQuery(regexp.QuoteMeta(statusQ)).WithArgs(eventID, userID)
	if present {
		e.WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	} else {
		e.WillReturnRows(sqlmock.NewRows([]string{"1"}))
	}
}

func TestAddInsertsRecordAndIncrementsCounter(t *testing.T) {
	repo, mock := newRSVPMock(t)
	expectStatus(mock, "ev1", "anon_abc", false)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insQ)).WithArgs("ev1", "anon_abc").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(incQ)).WithArgs("ev1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	added, err := repo.Add(context.Background(), "ev1", "anon_abc")
	require.NoError(t, err)
	assert.True(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddIsIdempotentWhenRecordExists(t *testing.T) {
	repo, mock := newRSVPMock(t)
	expectStatus(mock, "ev1", "anon_abc", true)
	// No Begin/Exec expectations: an existing record must cause no writes.

	added, err := repo.Add(context.Background(), "ev1", "anon_abc")
	require.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRollsBackAndPropagatesWriteFailure(t *testing.T) {
	repo, mock := newRSVPMock(t)
	expectStatus(mock, "ev1", "42", false)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insQ)).WithArgs("ev1", "42").
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	added, err := repo.Add(context.Background(), "ev1", "42")
	assert.Error(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveDeletesRecordAndDecrementsCounter(t *testing.T) {
	repo, mock := newRSVPMock(t)
	expectStatus(mock, "ev1", "42", true)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(delQ)).WithArgs("ev1", "42").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(decQ)).WithArgs("ev1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := repo.Remove(context.Background(), "ev1", "42")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveIsNoOpWithoutRecord(t *testing.T) {
	repo, mock := newRSVPMock(t)
	expectStatus(mock, "ev1", "42", false)

	removed, err := repo.Remove(context.Background(), "ev1", "42")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The decrement carries rsvp_count > 0 in its WHERE clause, so a
// counter already at zero is matched by zero rows and stays at zero.
func TestRemoveDecrementRespectsZeroFloor(t *testing.T) {
	repo, mock := newRSVPMock(t)
	expectStatus(mock, "ev1", "42", true)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(delQ)).WithArgs("ev1", "42").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(decQ)).WithArgs("ev1").
		WillReturnResult(sqlmock.NewResult(0, 0)) // guard matched nothing
	mock.ExpectCommit()

	removed, err := repo.Remove(context.Background(), "ev1", "42")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleOnThenOffRoundTrip(t *testing.T) {
	repo, mock := newRSVPMock(t)

	// Toggle on: no record yet, add path, then fresh count.
	expectStatus(mock, "ev1", "anon_x", false)
	expectStatus(mock, "ev1", "anon_x", false) // Add re-checks
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insQ)).WithArgs("ev1", "anon_x").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(incQ)).WithArgs("ev1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(countQ)).WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"rsvp_count"}).AddRow(8))

	res, err := repo.Toggle(context.Background(), "ev1", "anon_x")
	require.NoError(t, err)
	assert.True(t, res.IsRSVPed)
	assert.Equal(t, 8, res.NewCount)

	// Toggle off: record present, remove path, fresh count again.
	expectStatus(mock, "ev1", "anon_x", true)
	expectStatus(mock, "ev1", "anon_x", true)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(delQ)).WithArgs("ev1", "anon_x").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(decQ)).WithArgs("ev1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(countQ)).WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"rsvp_count"}).AddRow(7))

	res, err = repo.Toggle(context.Background(), "ev1", "anon_x")
	require.NoError(t, err)
	assert.False(t, res.IsRSVPed)
	assert.Equal(t, 7, res.NewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two different attributed identities RSVP independently to the same
// event: each sees only their own status, the counter sees both.
func TestStatusIsPerIdentity(t *testing.T) {
	repo, mock := newRSVPMock(t)
	expectStatus(mock, "ev1", "42", true)
	expectStatus(mock, "ev1", "anon_other", false)

	assert.True(t, repo.Status(context.Background(), "ev1", "42"))
	assert.False(t, repo.Status(context.Background(), "ev1", "anon_other"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusFailsOpenOnReadError(t *testing.T) {
	repo, mock := newRSVPMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(statusQ)).WithArgs("ev1", "42").
		WillReturnError(errors.New("connection reset"))

	assert.False(t, repo.Status(context.Background(), "ev1", "42"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountIsZeroForUnknownEvent(t *testing.T) {
	repo, mock := newRSVPMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(countQ)).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"rsvp_count"}))

	assert.Equal(t, 0, repo.Count(context.Background(), "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountFailsOpenOnReadError(t *testing.T) {
	repo, mock := newRSVPMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(countQ)).WithArgs("ev1").
		WillReturnError(errors.New("timeout"))

	assert.Equal(t, 0, repo.Count(context.Background(), "ev1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failing read inside a batch contributes 0 for its key only; the
// other keys keep their real counters.
func TestCountsPartialFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)
	repo := NewRSVPRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(countQ)).WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"rsvp_count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(countQ)).WithArgs("ev2").
		WillReturnError(errors.New("boom"))
	mock.ExpectQuery(regexp.QuoteMeta(countQ)).WithArgs("ev3").
		WillReturnRows(sqlmock.NewRows([]string{"rsvp_count"}).AddRow(11))

	got := repo.Counts(context.Background(), []string{"ev1", "ev2", "ev3"})
	assert.Equal(t, map[string]int{"ev1": 3, "ev2": 0, "ev3": 11}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountsEmptyInput(t *testing.T) {
	repo, _ := newRSVPMock(t)
	assert.Empty(t, repo.Counts(context.Background(), nil))
}

func TestStatusAllFailsOpenToEmpty(t *testing.T) {
	repo, mock := newRSVPMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT event_id FROM rsvps WHERE user_id = ?`)).
		WithArgs("anon_x").WillReturnError(errors.New("down"))

	assert.Empty(t, repo.StatusAll(context.Background(), "anon_x"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAllCollectsEventIDs(t *testing.T) {
	repo, mock := newRSVPMock(t)
	rows := sqlmock.NewRows([]string{"event_id"}).AddRow("ev1").AddRow("ev2")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT event_id FROM rsvps WHERE user_id = ?`)).
		WithArgs("42").WillReturnRows(rows)

	got := repo.StatusAll(context.Background(), "42")
	assert.Equal(t, map[string]bool{"ev1": true, "ev2": true}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
