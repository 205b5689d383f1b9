package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"github.com/yungbote/moodly-backend/internal/realtime"
	"github.com/yungbote/moodly-backend/internal/services"
)

type Services struct {
	// Identity
	Auth services.AuthService
	User services.UserService

	// Journal
	Catalogs services.MoodCatalogService
	Entries  services.EntryService
	Insights services.InsightsService
	Journal  services.JournalPublisher

	// Extras
	Reflections services.ReflectionService
	Share       services.ShareService

	Notifier services.SnapshotNotifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, sseHub *realtime.SSEHub, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	var emitter services.SSEEmitter
	if clients.SSEBus != nil {
		// Multi-instance: publish to Redis; every instance's forwarder fans out locally.
		emitter = &services.RedisEmitter{Bus: clients.SSEBus, Log: log}
	} else {
		emitter = &services.HubEmitter{Hub: sseHub}
	}
	notifier := services.NewSnapshotNotifier(emitter)

	authService := services.NewAuthService(
		db, log,
		repos.User,
		repos.UserToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(db, log, repos.User, notifier)

	builtin := insights.BuiltinCatalog()
	catalogSource := services.NewCatalogSource(log, repos.CustomMood, builtin)
	insightsService := services.NewInsightsService(log, repos.MoodEntry, catalogSource)
	journal := services.NewJournalPublisher(log, repos.MoodEntry, repos.User, catalogSource, insightsService, notifier, cfg.DefaultLocation)
	catalogService := services.NewMoodCatalogService(log, repos.CustomMood, builtin, notifier, journal)
	entryService := services.NewEntryService(log, repos.MoodEntry, catalogService, journal, sseHub)

	guard := services.NewMemoryInFlightGuard()
	if clients.Redis != nil {
		g, err := services.NewRedisInFlightGuard(log, clients.Redis, "moodly:reflection:inflight", cfg.ReflectionLockTTL)
		if err != nil {
			return Services{}, fmt.Errorf("init reflection guard: %w", err)
		}
		guard = g
	}
	reflectionService := services.NewReflectionService(log, insights.DefaultQuotes(), nil, clients.OpenAI, guard)

	shareService, err := services.NewShareService(log, entryService, cfg.ShareCardFont)
	if err != nil {
		return Services{}, fmt.Errorf("init share service: %w", err)
	}

	return Services{
		Auth:        authService,
		User:        userService,
		Catalogs:    catalogService,
		Entries:     entryService,
		Insights:    insightsService,
		Journal:     journal,
		Reflections: reflectionService,
		Share:       shareService,
		Notifier:    notifier,
	}, nil
}
