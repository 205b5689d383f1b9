package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/moodly-backend/internal/http/handlers"
	httpMW "github.com/yungbote/moodly-backend/internal/http/middleware"
	"github.com/yungbote/moodly-backend/internal/observability"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	Metrics         *observability.Metrics
	ServiceName     string
	AllowOrigins    []string
	DefaultLocation *time.Location

	AuthHandler       *httpH.AuthHandler
	AuthMiddleware    *httpMW.AuthMiddleware
	UserHandler       *httpH.UserHandler
	MoodHandler       *httpH.MoodHandler
	EntryHandler      *httpH.EntryHandler
	InsightsHandler   *httpH.InsightsHandler
	ReflectionHandler *httpH.ReflectionHandler
	RealtimeHandler   *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	api.Use(httpMW.AttachRequestContext(cfg.DefaultLocation))
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/user/theme", cfg.UserHandler.UpdateTheme)
		}

		// Mood catalog
		if cfg.MoodHandler != nil {
			protected.GET("/moods", cfg.MoodHandler.List)
			protected.POST("/moods", cfg.MoodHandler.Add)
			protected.DELETE("/moods/:label", cfg.MoodHandler.Remove)
		}

		// Entries
		if cfg.EntryHandler != nil {
			protected.GET("/entries", cfg.EntryHandler.List)
			protected.POST("/entries", cfg.EntryHandler.Create)
			protected.DELETE("/entries/:id", cfg.EntryHandler.Delete)
			protected.GET("/entries/:id/share", cfg.EntryHandler.ShareText)
			protected.GET("/entries/:id/share-card.png", cfg.EntryHandler.ShareCard)
		}

		// Insights
		if cfg.InsightsHandler != nil {
			protected.GET("/insights", cfg.InsightsHandler.Summary)
		}

		// Reflection
		if cfg.ReflectionHandler != nil {
			protected.GET("/reflection", cfg.ReflectionHandler.Local)
			protected.POST("/reflection/generate", cfg.ReflectionHandler.Generate)
		}
	}

	return r
}
