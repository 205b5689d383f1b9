package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/moodly-backend/internal/domain"
	httpH "github.com/yungbote/moodly-backend/internal/http/handlers"
	httpMW "github.com/yungbote/moodly-backend/internal/http/middleware"
	"github.com/yungbote/moodly-backend/internal/platform/ctxutil"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"github.com/yungbote/moodly-backend/internal/services"
)

type stubAuth struct {
	userID uuid.UUID
}

func (s stubAuth) RegisterUser(context.Context, services.RegisterInput) (*types.User, error) {
	return nil, nil
}

func (s stubAuth) LoginUser(context.Context, string, string) (string, string, error) {
	return "", "", services.ErrInvalidCredentials
}

func (s stubAuth) RefreshUser(context.Context, string) (string, string, error) {
	return "", "", services.ErrInvalidToken
}

func (s stubAuth) LogoutUser(context.Context) error { return nil }

func (s stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if token != "good" {
		return nil, services.ErrInvalidToken
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: s.userID, TokenString: token}), nil
}

func (s stubAuth) PurgeExpiredTokens(context.Context) (int64, error) { return 0, nil }

func (s stubAuth) GetAccessTTL() time.Duration { return time.Hour }

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	require.NoError(t, err)
	auth := stubAuth{userID: uuid.New()}
	return NewRouter(RouterConfig{
		Log:             log,
		DefaultLocation: time.UTC,
		AuthHandler:     httpH.NewAuthHandler(auth),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, auth),
		HealthHandler:   httpH.NewHealthHandler(nil),
	})
}

func TestRouterHealthcheck(t *testing.T) {
	r := testRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterPublicAndProtectedRoutes(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		auth       string
		body       string
		wantStatus int
	}{
		{name: "login is public", method: http.MethodPost, path: "/api/login", body: `{"email":"a@example.com","password":"secret1"}`, wantStatus: http.StatusUnauthorized},
		{name: "logout needs a token", method: http.MethodPost, path: "/api/logout", wantStatus: http.StatusUnauthorized},
		{name: "logout with token", method: http.MethodPost, path: "/api/logout", auth: "Bearer good", wantStatus: http.StatusOK},
		{name: "bad token", method: http.MethodPost, path: "/api/logout", auth: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "bad time zone", method: http.MethodPost, path: "/api/logout?tz=Mars/Olympus", auth: "Bearer good", wantStatus: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/api/nope", wantStatus: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
