package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shiftkeeper/internal/models"
	"github.com/iudanet/shiftkeeper/internal/server/storage/sqlite"
	"github.com/iudanet/shiftkeeper/pkg/api"
)

// fakeFeed records published change events
type fakeFeed struct {
	events map[string][]api.ChangeEvent
	served []string
	mu     sync.Mutex
}

func (f *fakeFeed) Publish(ownerID string, ev api.ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.events == nil {
		f.events = make(map[string][]api.ChangeEvent)
	}
	f.events[ownerID] = append(f.events[ownerID], ev)
}

func (f *fakeFeed) ServeWS(w http.ResponseWriter, r *http.Request, ownerID string) {
	f.mu.Lock()
	f.served = append(f.served, ownerID)
	f.mu.Unlock()
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func (f *fakeFeed) published(ownerID string) []api.ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.ChangeEvent(nil), f.events[ownerID]...)
}

type shiftEnv struct {
	store   *sqlite.Storage
	feed    *fakeFeed
	handler *ShiftHandler
	now     time.Time
}

func newShiftEnv(t *testing.T, users ...string) *shiftEnv {
	t.Helper()

	ctx := context.Background()
	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	for _, id := range users {
		require.NoError(t, store.CreateUser(ctx, &models.User{
			ID:           id,
			Username:     "user_" + id,
			PasswordHash: "hash",
			CreatedAt:    time.Now(),
		}))
	}

	env := &shiftEnv{
		store: store,
		feed:  &fakeFeed{},
		now:   time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
	env.handler = NewShiftHandler(setupTestLogger(), store, env.feed)
	env.handler.now = func() time.Time { return env.now }
	return env
}

func authedRequest(method, target, userID string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
	}
	return req
}

func (e *shiftEnv) put(userID, id string, body any, clientID string) *httptest.ResponseRecorder {
	req := authedRequest(http.MethodPut, "/api/v1/shifts/"+id, userID, body)
	req.SetPathValue("id", id)
	if clientID != "" {
		req.Header.Set(api.ClientIDHeader, clientID)
	}
	w := httptest.NewRecorder()
	e.handler.Upsert(w, req)
	return w
}

func (e *shiftEnv) delete(userID, id, clientID string) *httptest.ResponseRecorder {
	req := authedRequest(http.MethodDelete, "/api/v1/shifts/"+id, userID, nil)
	req.SetPathValue("id", id)
	if clientID != "" {
		req.Header.Set(api.ClientIDHeader, clientID)
	}
	w := httptest.NewRecorder()
	e.handler.Delete(w, req)
	return w
}

func (e *shiftEnv) list(userID string) (*httptest.ResponseRecorder, api.ListShiftsResponse) {
	w := httptest.NewRecorder()
	e.handler.List(w, authedRequest(http.MethodGet, "/api/v1/shifts", userID, nil))

	var resp api.ListShiftsResponse
	if w.Code == http.StatusOK {
		_ = json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp)
	}
	return w, resp
}

func TestShiftHandler_UpsertCreatesThenUpdates(t *testing.T) {
	env := newShiftEnv(t, "alice")

	created := env.put("alice", "shift-1", api.Shift{Date: "2024-05-01", Kind: "A", Notes: "early"}, "client-1")
	require.Equal(t, http.StatusCreated, created.Code)

	var stored api.Shift
	require.NoError(t, json.NewDecoder(created.Body).Decode(&stored))
	assert.Equal(t, "shift-1", stored.ID)
	assert.Equal(t, "alice", stored.OwnerID)
	assert.Equal(t, "client-1", stored.OriginClientID)
	assert.True(t, env.now.Equal(stored.CreatedAt))
	assert.True(t, env.now.Equal(stored.UpdatedAt))

	// Origin из тела имеет приоритет над заголовком
	updatedAt := env.now.Add(time.Hour)
	updated := env.put("alice", "shift-1", api.Shift{
		ID:             "shift-1",
		Date:           "2024-05-01",
		Kind:           "C",
		Notes:          "late",
		CreatedAt:      stored.CreatedAt,
		UpdatedAt:      updatedAt,
		OriginClientID: "client-2",
	}, "client-1")
	require.Equal(t, http.StatusOK, updated.Code)

	w, list := env.list("alice")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, list.Shifts, 1)
	assert.Equal(t, "C", list.Shifts[0].Kind)
	assert.Equal(t, "late", list.Shifts[0].Notes)
	assert.Equal(t, "client-2", list.Shifts[0].OriginClientID)
	assert.True(t, updatedAt.Equal(list.Shifts[0].UpdatedAt))

	events := env.feed.published("alice")
	require.Len(t, events, 2)
	assert.Equal(t, api.ChangeInsert, events[0].Type)
	assert.Equal(t, "client-1", events[0].OriginClientID)
	assert.Equal(t, api.ChangeUpdate, events[1].Type)
	assert.Equal(t, "client-2", events[1].OriginClientID)
	require.NotNil(t, events[1].Record)
	assert.Equal(t, "shift-1", events[1].Record.ID)
}

func TestShiftHandler_UpsertRejects(t *testing.T) {
	tests := []struct {
		body     any
		name     string
		id       string
		wantCode int
	}{
		{
			name:     "malformed body",
			id:       "shift-1",
			body:     "{",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "id mismatch",
			id:       "shift-1",
			body:     api.Shift{ID: "shift-2", Date: "2024-05-01", Kind: "A"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "foreign owner",
			id:       "shift-1",
			body:     api.Shift{OwnerID: "bob", Date: "2024-05-01", Kind: "A"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "bad date",
			id:       "shift-1",
			body:     api.Shift{Date: "01.05.2024", Kind: "A"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown kind",
			id:       "shift-1",
			body:     api.Shift{Date: "2024-05-01", Kind: "Z"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "notes too long",
			id:       "shift-1",
			body:     api.Shift{Date: "2024-05-01", Kind: "A", Notes: strings.Repeat("n", 4001)},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newShiftEnv(t, "alice")

			w := env.put("alice", tt.id, tt.body, "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Empty(t, env.feed.published("alice"))
		})
	}
}

func TestShiftHandler_OwnerIsolation(t *testing.T) {
	env := newShiftEnv(t, "alice", "bob")

	require.Equal(t, http.StatusCreated, env.put("alice", "shift-1", api.Shift{Date: "2024-05-01", Kind: "A"}, "").Code)

	// Bob не видит и не может перезаписать чужую смену
	assert.Equal(t, http.StatusNotFound, env.put("bob", "shift-1", api.Shift{Date: "2024-05-01", Kind: "B"}, "").Code)
	assert.Equal(t, http.StatusNotFound, env.delete("bob", "shift-1", "").Code)

	_, bobList := env.list("bob")
	assert.Empty(t, bobList.Shifts)

	_, aliceList := env.list("alice")
	require.Len(t, aliceList.Shifts, 1)
	assert.Equal(t, "A", aliceList.Shifts[0].Kind)
	assert.Empty(t, env.feed.published("bob"))
}

func TestShiftHandler_DuplicateDatesAreStored(t *testing.T) {
	env := newShiftEnv(t, "alice")

	require.Equal(t, http.StatusCreated, env.put("alice", "shift-1", api.Shift{Date: "2024-05-01", Kind: "A"}, "").Code)
	require.Equal(t, http.StatusCreated, env.put("alice", "shift-2", api.Shift{Date: "2024-05-01", Kind: "B"}, "").Code)

	_, list := env.list("alice")
	assert.Len(t, list.Shifts, 2)
}

func TestShiftHandler_Delete(t *testing.T) {
	env := newShiftEnv(t, "alice")

	require.Equal(t, http.StatusCreated, env.put("alice", "shift-1", api.Shift{Date: "2024-05-01", Kind: "A"}, "client-1").Code)

	w := env.delete("alice", "shift-1", "client-2")
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, list := env.list("alice")
	assert.Empty(t, list.Shifts)

	events := env.feed.published("alice")
	require.Len(t, events, 2)
	deleted := events[1]
	assert.Equal(t, api.ChangeDelete, deleted.Type)
	assert.Equal(t, "client-2", deleted.OriginClientID)
	require.NotNil(t, deleted.Record)
	assert.Equal(t, "2024-05-01", deleted.Record.Date)

	// Повторное удаление - 404, клиент считает это успехом
	assert.Equal(t, http.StatusNotFound, env.delete("alice", "shift-1", "").Code)
	assert.Len(t, env.feed.published("alice"), 2)
}

func TestShiftHandler_RequiresUser(t *testing.T) {
	env := newShiftEnv(t)

	w, _ := env.list("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusUnauthorized, env.put("", "shift-1", api.Shift{Date: "2024-05-01", Kind: "A"}, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.delete("", "shift-1", "").Code)

	rec := httptest.NewRecorder()
	env.handler.Changes(rec, authedRequest(http.MethodGet, "/api/v1/shifts/changes", "", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, env.feed.served)
}

func TestShiftHandler_ChangesServesOwnerFeed(t *testing.T) {
	env := newShiftEnv(t, "alice")

	rec := httptest.NewRecorder()
	env.handler.Changes(rec, authedRequest(http.MethodGet, "/api/v1/shifts/changes", "alice", nil))

	assert.Equal(t, []string{"alice"}, env.feed.served)
}

func TestShiftHandler_ListEmpty(t *testing.T) {
	env := newShiftEnv(t, "alice")

	w, _ := env.list("alice")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"shifts":[]}`, w.Body.String())
}
