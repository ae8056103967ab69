package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckc/community-api/internal/middleware"
	"github.com/seckc/community-api/internal/queue"
	"github.com/seckc/community-api/internal/repository"
)

// stubStore is an in-memory RSVPStore mirroring the real adapter's
// semantics closely enough for handler tests.
type stubStore struct {
	mu      sync.Mutex
	rsvps   map[string]map[string]bool // eventID -> userID set
	counts  map[string]int
	addErr  error
	toggErr error
}

func newStubStore() *stubStore {
	return &stubStore{rsvps: map[string]map[string]bool{}, counts: map[string]int{}}
}

func (s *stubStore) Status(_ context.Context, eventID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rsvps[eventID][userID]
}

func (s *stubStore) StatusAll(_ context.Context, userID string) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]bool{}
	for ev, users := range s.rsvps {
		if users[userID] {
			out[ev] = true
		}
	}
	return out
}

func (s *stubStore) Count(_ context.Context, eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[eventID]
}

func (s *stubStore) Counts(ctx context.Context, ids []string) map[string]int {
	out := map[string]int{}
	for _, id := range ids {
		out[id] = s.Count(ctx, id)
	}
	return out
}

func (s *stubStore) Add(_ context.Context, eventID, userID string) (bool, error) {
	if s.addErr != nil {
		return false, s.addErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rsvps[eventID][userID] {
		return false, nil
	}
	if s.rsvps[eventID] == nil {
		s.rsvps[eventID] = map[string]bool{}
	}
	s.rsvps[eventID][userID] = true
	s.counts[eventID]++
	return true, nil
}

func (s *stubStore) Remove(_ context.Context, eventID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rsvps[eventID][userID] {
		return false, nil
	}
	delete(s.rsvps[eventID], userID)
	if s.counts[eventID] > 0 {
		s.counts[eventID]--
	}
	return true, nil
}

func (s *stubStore) Toggle(ctx context.Context, eventID, userID string) (repository.ToggleResult, error) {
	if s.toggErr != nil {
		return repository.ToggleResult{}, s.toggErr
	}
	if s.Status(ctx, eventID, userID) {
		_, _ = s.Remove(ctx, eventID, userID)
		return repository.ToggleResult{IsRSVPed: false, NewCount: s.Count(ctx, eventID)}, nil
	}
	_, _ = s.Add(ctx, eventID, userID)
	return repository.ToggleResult{IsRSVPed: true, NewCount: s.Count(ctx, eventID)}, nil
}

func doRSVP(t *testing.T, h *RSVPHandler, method, path, anonID, body string, fn func(echo.Context) error, eventID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if eventID != "" {
		c.SetParamNames("id")
		c.SetParamValues(eventID)
	}
	c.Set(middleware.ActorKey, anonID)
	require.NoError(t, fn(c))
	return rec
}

func TestRSVPAddThenStatusAndCount(t *testing.T) {
	store := newStubStore()
	h := &RSVPHandler{Store: store}

	rec := doRSVP(t, h, http.MethodPost, "/v1/events/ev1/rsvp", "anon_a1", "", h.Add, "ev1")
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["is_rsvped"])
	assert.Equal(t, true, resp["changed"])
	assert.Equal(t, float64(1), resp["count"])

	// The same client adding again changes nothing.
	rec = doRSVP(t, h, http.MethodPost, "/v1/events/ev1/rsvp", "anon_a1", "", h.Add, "ev1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["changed"])
	assert.Equal(t, float64(1), resp["count"])

	// A different identity sees is_rsvped=false but the shared count.
	rec = doRSVP(t, h, http.MethodGet, "/v1/events/ev1/rsvp", "anon_b2", "", h.Status, "ev1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["is_rsvped"])

	rec = doRSVP(t, h, http.MethodGet, "/v1/events/ev1/rsvp/count", "anon_b2", "", h.Count, "ev1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
}

func TestRSVPToggleRoundTrip(t *testing.T) {
	store := newStubStore()
	h := &RSVPHandler{Store: store}

	rec := doRSVP(t, h, http.MethodPost, "/v1/events/ev1/rsvp/toggle", "anon_a1", "", h.Toggle, "ev1")
	var res repository.ToggleResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.IsRSVPed)
	assert.Equal(t, 1, res.NewCount)

	rec = doRSVP(t, h, http.MethodPost, "/v1/events/ev1/rsvp/toggle", "anon_a1", "", h.Toggle, "ev1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.IsRSVPed)
	assert.Equal(t, 0, res.NewCount)
}

func TestRSVPBatchCounts(t *testing.T) {
	store := newStubStore()
	store.counts["ev1"] = 3
	h := &RSVPHandler{Store: store}

	body := `{"event_ids":["ev1","ev2"]}`
	rec := doRSVP(t, h, http.MethodPost, "/v1/rsvps/counts", "anon_a1", body, h.BatchCounts, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]int{"ev1": 3, "ev2": 0}, resp.Counts)
}

func TestRSVPBatchCountsRejectsOversizedBatch(t *testing.T) {
	h := &RSVPHandler{Store: newStubStore()}
	ids := make([]string, maxLimit+1)
	for i := range ids {
		ids[i] = "ev"
	}
	body, _ := json.Marshal(map[string]interface{}{"event_ids": ids})
	rec := doRSVP(t, h, http.MethodPost, "/v1/rsvps/counts", "anon_a1", string(body), h.BatchCounts, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRSVPAddPublishesChangeEvent(t *testing.T) {
	store := newStubStore()
	h := &RSVPHandler{Store: store}

	published := make(chan queue.RSVPChangedEvent, 1)
	h.Publish = func(_ context.Context, ev queue.RSVPChangedEvent) error {
		published <- ev
		return nil
	}

	doRSVP(t, h, http.MethodPost, "/v1/events/ev1/rsvp", "anon_a1", "", h.Add, "ev1")
	select {
	case ev := <-published:
		assert.Equal(t, "ev1", ev.EventID)
		assert.Equal(t, "anon_a1", ev.UserID)
		assert.Equal(t, queue.ActionAdd, ev.Action)
		assert.Equal(t, 1, ev.NewCount)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a published RSVP change event")
	}
}

func TestRSVPAddErrorPropagates(t *testing.T) {
	store := newStubStore()
	store.addErr = context.DeadlineExceeded
	h := &RSVPHandler{Store: store}

	rec := doRSVP(t, h, http.MethodPost, "/v1/events/ev1/rsvp", "anon_a1", "", h.Add, "ev1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
