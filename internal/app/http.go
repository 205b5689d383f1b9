package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/moodly-backend/internal/http"
	httpH "github.com/yungbote/moodly-backend/internal/http/handlers"
	httpMW "github.com/yungbote/moodly-backend/internal/http/middleware"
	"github.com/yungbote/moodly-backend/internal/observability"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"github.com/yungbote/moodly-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Realtime   *httpH.RealtimeHandler
	Mood       *httpH.MoodHandler
	Entry      *httpH.EntryHandler
	Insights   *httpH.InsightsHandler
	Reflection *httpH.ReflectionHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(dbPing(db)),
		Auth:       httpH.NewAuthHandler(services.Auth),
		User:       httpH.NewUserHandler(services.User),
		Realtime:   httpH.NewRealtimeHandler(log, sseHub, services.Entries),
		Mood:       httpH.NewMoodHandler(services.Catalogs),
		Entry:      httpH.NewEntryHandler(services.Entries, services.Share),
		Insights:   httpH.NewInsightsHandler(services.Insights),
		Reflection: httpH.NewReflectionHandler(services.Reflections),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     serviceName,
		AllowOrigins:    cfg.CORSAllowOrigins,
		DefaultLocation: cfg.DefaultLocation,

		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		RealtimeHandler:   handlers.Realtime,
		MoodHandler:       handlers.Mood,
		EntryHandler:      handlers.Entry,
		InsightsHandler:   handlers.Insights,
		ReflectionHandler: handlers.Reflection,
	})
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func dbPing(db *gorm.DB) func(ctx context.Context) error {
	if db == nil {
		return nil
	}
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
