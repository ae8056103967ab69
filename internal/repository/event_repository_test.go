package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckc/community-api/internal/model"
)

var eventColNames = []string{
	"id", "title", "description", "short_description", "event_date", "end_date",
	"location", "address", "virtual_link", "is_virtual", "is_hybrid", "max_attendees",
	"registration_deadline", "category_id", "difficulty_level", "speaker_names",
	"topics", "sponsor_links", "event_image_url", "is_published", "is_featured",
	"rsvp_count", "created_at", "updated_at",
}

func eventRow(rows *sqlmock.Rows, id, title string, count int) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(
		id, title, "desc", nil, now, nil,
		nil, nil, nil, false, false, nil,
		nil, nil, "beginner", `["Alice"]`,
		`["appsec","ctf"]`, nil, nil, true, false,
		count, now, now,
	)
}

func sampleEvent(id string) *model.Event {
	return &model.Event{
		ID:              id,
		Title:           "Monthly Meetup",
		Description:     "talks and pizza",
		EventDate:       time.Now().UTC().Add(72 * time.Hour),
		DifficultyLevel: "beginner",
		IsPublished:     true,
	}
}

func newEventMock(t *testing.T) (*EventRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEventRepo(db), mock
}

func TestEventListAppliesFilters(t *testing.T) {
	repo, mock := newEventMock(t)
	rows := eventRow(sqlmock.NewRows(eventColNames), "ev1", "Lockpicking 101", 4)
	mock.ExpectQuery(`SELECT .+ FROM events WHERE is_published = 1 AND category_id = \? AND difficulty_level = \? AND event_date >= UTC_TIMESTAMP\(\) ORDER BY event_date DESC LIMIT \?`).
		WithArgs("cat-hw", "beginner", 25).
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), EventFilter{
		CategoryID: "cat-hw", Difficulty: "beginner", Upcoming: true, Limit: 25,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev1", events[0].ID)
	assert.Equal(t, []string{"appsec", "ctf"}, events[0].Topics)
	assert.Equal(t, []string{"Alice"}, events[0].SpeakerNames)
	assert.Equal(t, 4, events[0].RSVPCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventListEmptyFilterSelectsPublishedOnly(t *testing.T) {
	repo, mock := newEventMock(t)
	mock.ExpectQuery(`SELECT .+ FROM events WHERE is_published = 1 ORDER BY event_date DESC`).
		WillReturnRows(sqlmock.NewRows(eventColNames))

	events, err := repo.List(context.Background(), EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventGetNotFound(t *testing.T) {
	repo, mock := newEventMock(t)
	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(eventColNames))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

// Malformed JSON in a list column degrades to an empty slice instead of
// failing the row.
func TestEventScanToleratesBadTopicJSON(t *testing.T) {
	repo, mock := newEventMock(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(eventColNames).AddRow(
		"ev1", "t", "d", nil, now, nil,
		nil, nil, nil, false, false, nil,
		nil, nil, "beginner", `not-json`,
		`{broken`, nil, nil, true, false,
		0, now, now,
	)
	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \?`).WithArgs("ev1").WillReturnRows(rows)

	ev, err := repo.Get(context.Background(), "ev1")
	require.NoError(t, err)
	assert.Empty(t, ev.SpeakerNames)
	assert.Empty(t, ev.Topics)
}

func TestEventUpdateNotFound(t *testing.T) {
	repo, mock := newEventMock(t)
	mock.ExpectExec(`UPDATE events SET .+ WHERE id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ev := sampleEvent("missing")
	assert.ErrorIs(t, repo.Update(context.Background(), ev), ErrEventNotFound)
}

func TestEventDeleteNotFound(t *testing.T) {
	repo, mock := newEventMock(t)
	mock.ExpectExec(`DELETE FROM events WHERE id = \?`).WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), ErrEventNotFound)
}
