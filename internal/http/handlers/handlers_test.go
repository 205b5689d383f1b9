package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/moodly-backend/internal/http/response"
	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/platform/ctxutil"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"github.com/yungbote/moodly-backend/internal/realtime"
	"github.com/yungbote/moodly-backend/internal/services"
)

type stubEntries struct {
	created   services.CreateEntryInput
	createErr error
	deleted   uuid.UUID
	deleteErr error
}

func (s *stubEntries) Create(_ context.Context, in services.CreateEntryInput) (*insights.Entry, error) {
	s.created = in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &insights.Entry{
		ID:        uuid.New(),
		Mood:      insights.MoodDefinition{Emoji: "😊", Label: in.MoodLabel, ColorTag: "bg-green-100 border-green-200"},
		Note:      in.Note,
		CreatedAt: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}, nil
}

func (s *stubEntries) List(dbctx.Context) ([]insights.Entry, error) { return []insights.Entry{}, nil }

func (s *stubEntries) Get(dbctx.Context, uuid.UUID) (*insights.Entry, error) {
	return nil, services.ErrEntryNotFound
}

func (s *stubEntries) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.deleteErr
}

func (s *stubEntries) Snapshot(dbctx.Context, uuid.UUID, *time.Location) (*services.EntriesSnapshot, error) {
	return &services.EntriesSnapshot{}, nil
}

func (s *stubEntries) Subscribe(context.Context, *time.Location) (*realtime.SSEClient, error) {
	return nil, services.ErrUnauthorized
}

func (s *stubEntries) Unsubscribe(*realtime.SSEClient) {}

type stubInsights struct {
	now time.Time
}

func (s *stubInsights) Summary(_ dbctx.Context, _ uuid.UUID, now time.Time) (*insights.Summary, error) {
	s.now = now
	return &insights.Summary{Badges: []insights.Badge{}}, nil
}

func (s *stubInsights) Summarize([]insights.Entry, *insights.Catalog, time.Time) insights.Summary {
	return insights.Summary{}
}

type stubReflections struct {
	err error
}

func (s stubReflections) Local(mood string) (*services.Reflection, error) {
	return &services.Reflection{Mood: mood, Text: "hello", Source: services.ReflectionSourceLocal}, nil
}

func (s stubReflections) Generate(_ context.Context, mood string) (*services.Reflection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.Reflection{Mood: mood, Text: "generated", Source: services.ReflectionSourceGenerated}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	t.Cleanup(log.Sync)
	return log
}

func newTestContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func withUser(c *gin.Context, userID uuid.UUID) {
	ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
	c.Request = c.Request.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error
}

func TestEntryHandlerCreate(t *testing.T) {
	entries := &stubEntries{}
	h := NewEntryHandler(entries, nil)

	c, rec := newTestContext(http.MethodPost, "/api/entries", `{"mood_label":"Happy","note":"sunny walk"}`)
	h.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, services.CreateEntryInput{MoodLabel: "Happy", Note: "sunny walk"}, entries.created)

	var body struct {
		Entry insights.Entry `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Happy", body.Entry.Mood.Label)
	assert.Equal(t, "sunny walk", body.Entry.Note)
}

func TestEntryHandlerCreateErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "malformed body", body: `{"mood_label":`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "not signed in", body: `{"mood_label":"Happy"}`, err: services.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "store down", body: `{"mood_label":"Happy"}`, err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewEntryHandler(&stubEntries{createErr: tc.err}, nil)
			c, rec := newTestContext(http.MethodPost, "/api/entries", tc.body)
			h.Create(c)
			require.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestEntryHandlerDelete(t *testing.T) {
	entries := &stubEntries{}
	h := NewEntryHandler(entries, nil)
	id := uuid.New()

	c, rec := newTestContext(http.MethodDelete, "/api/entries/"+id.String(), "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Delete(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, entries.deleted)

	entries.deleteErr = services.ErrEntryNotFound
	c, rec = newTestContext(http.MethodDelete, "/api/entries/"+id.String(), "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Delete(c)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "entry_not_found", decodeError(t, rec).Code)
}

func TestEntryHandlerRejectsBadID(t *testing.T) {
	entries := &stubEntries{}
	h := NewEntryHandler(entries, nil)

	c, rec := newTestContext(http.MethodDelete, "/api/entries/not-a-uuid", "")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	h.Delete(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_id", decodeError(t, rec).Code)
	assert.Equal(t, uuid.Nil, entries.deleted)
}

func TestInsightsHandlerUsesRequestLocation(t *testing.T) {
	stub := &stubInsights{}
	h := NewInsightsHandler(stub)
	h.now = func() time.Time { return time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC) }

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	c, rec := newTestContext(http.MethodGet, "/api/insights", "")
	withUser(c, uuid.New())
	c.Request = c.Request.WithContext(ctxutil.WithLocation(c.Request.Context(), tokyo))
	h.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, tokyo, stub.now.Location())
	assert.Equal(t, 12, stub.now.Hour())

	var body struct {
		Timezone string `json:"timezone"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Asia/Tokyo", body.Timezone)
}

func TestInsightsHandlerRequiresUser(t *testing.T) {
	h := NewInsightsHandler(&stubInsights{})
	c, rec := newTestContext(http.MethodGet, "/api/insights", "")
	h.Summary(c)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReflectionHandler(t *testing.T) {
	h := NewReflectionHandler(stubReflections{})
	c, rec := newTestContext(http.MethodGet, "/api/reflection?mood=Sad", "")
	h.Local(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mood":"Sad"`)

	h = NewReflectionHandler(stubReflections{err: services.ErrReflectionDisabled})
	c, rec = newTestContext(http.MethodPost, "/api/reflection/generate", `{"mood":"Sad"}`)
	h.Generate(c)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "reflection_generation_disabled", decodeError(t, rec).Code)

	h = NewReflectionHandler(stubReflections{err: services.ErrReflectionInFlight})
	c, rec = newTestContext(http.MethodPost, "/api/reflection/generate", `{"mood":"Sad"}`)
	h.Generate(c)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRealtimeHandlerReportsSubscribeError(t *testing.T) {
	h := NewRealtimeHandler(testLogger(t), realtime.NewSSEHub(testLogger(t)), &stubEntries{})
	c, rec := newTestContext(http.MethodGet, "/api/sse/stream", "")
	h.SSEStream(c)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(nil)
	c, rec := newTestContext(http.MethodGet, "/healthcheck", "")
	h.HealthCheck(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	h = NewHealthHandler(func(context.Context) error { return errors.New("db down") })
	c, rec = newTestContext(http.MethodGet, "/healthcheck", "")
	h.HealthCheck(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "unavailable"))
}
