package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/moodly-backend/internal/data/repos"
	types "github.com/yungbote/moodly-backend/internal/domain"
	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/platform/apierr"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

var (
	ErrBuiltinMood  = apierr.BadRequest("builtin_mood", errors.New("built-in moods cannot be removed"))
	ErrMoodNotFound = apierr.NotFound("mood_not_found", errors.New("mood not found"))
)

// CatalogSource resolves a user's mood catalog.
type CatalogSource interface {
	// Catalog is the built-in moods followed by the user's custom moods.
	Catalog(dbc dbctx.Context, userID uuid.UUID) (*insights.Catalog, error)
}

type MoodCatalogService interface {
	CatalogSource
	AddCustomMood(ctx context.Context, def insights.MoodDefinition) (insights.MoodDefinition, error)
	RemoveCustomMood(ctx context.Context, label string) error
}

type catalogSource struct {
	log            *logger.Logger
	customMoodRepo repos.CustomMoodRepo
	builtin        *insights.Catalog
}

func NewCatalogSource(log *logger.Logger, customMoodRepo repos.CustomMoodRepo, builtin *insights.Catalog) CatalogSource {
	if builtin == nil {
		builtin = insights.BuiltinCatalog()
	}
	return &catalogSource{
		log:            log.With("component", "CatalogSource"),
		customMoodRepo: customMoodRepo,
		builtin:        builtin,
	}
}

func (s *catalogSource) Catalog(dbc dbctx.Context, userID uuid.UUID) (*insights.Catalog, error) {
	catalog := s.builtin.Clone()
	if userID == uuid.Nil {
		return catalog, nil
	}
	custom, err := s.customMoodRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list custom moods: %w", err)
	}
	for _, m := range custom {
		def := insights.MoodDefinition{Emoji: m.Emoji, Label: m.Label, ColorTag: m.ColorTag}
		if err := catalog.Add(def); err != nil {
			// A custom row can shadow a built-in added after it was created.
			s.log.Warn("Skipping custom mood", "user_id", userID, "label", m.Label, "error", err)
		}
	}
	return catalog, nil
}

type moodCatalogService struct {
	CatalogSource
	log            *logger.Logger
	customMoodRepo repos.CustomMoodRepo
	builtin        *insights.Catalog
	notify         SnapshotNotifier
	journal        JournalPublisher
}

// NewMoodCatalogService builds the catalog service. journal may be nil, in
// which case removals do not republish the entries snapshot.
func NewMoodCatalogService(
	log *logger.Logger,
	customMoodRepo repos.CustomMoodRepo,
	builtin *insights.Catalog,
	notify SnapshotNotifier,
	journal JournalPublisher,
) MoodCatalogService {
	if builtin == nil {
		builtin = insights.BuiltinCatalog()
	}
	return &moodCatalogService{
		CatalogSource:  NewCatalogSource(log, customMoodRepo, builtin),
		log:            log.With("service", "MoodCatalogService"),
		customMoodRepo: customMoodRepo,
		builtin:        builtin,
		notify:         notify,
		journal:        journal,
	}
}

// validationError maps an insights validation failure onto a 400 with a
// field-specific code.
func validationError(err error) error {
	var ve *insights.ValidationError
	if errors.As(err, &ve) {
		return apierr.BadRequest("invalid_"+ve.Field, err)
	}
	return apierr.BadRequest("validation_failed", err)
}

func (s *moodCatalogService) AddCustomMood(ctx context.Context, def insights.MoodDefinition) (insights.MoodDefinition, error) {
	dbc := dbctx.Context{Ctx: ctx}
	userID, err := requestUserID(dbc)
	if err != nil {
		return def, err
	}
	catalog, err := s.Catalog(dbc, userID)
	if err != nil {
		s.log.Error("Failed to load catalog", "user_id", userID, "error", err)
		return def, storeUnavailable()
	}
	def, err = catalog.Validate(def)
	if err != nil {
		return def, validationError(err)
	}

	row := &types.CustomMood{
		UserID:   userID,
		Emoji:    def.Emoji,
		Label:    def.Label,
		ColorTag: def.ColorTag,
	}
	if _, err := s.customMoodRepo.Create(dbc, row); err != nil {
		if errors.Is(err, repos.ErrConflict) {
			return def, apierr.New(http.StatusBadRequest, "invalid_label", fmt.Errorf("mood %q already exists", def.Label))
		}
		s.log.Error("Failed to create custom mood", "user_id", userID, "error", err)
		return def, storeUnavailable()
	}

	if err := catalog.Add(def); err == nil && s.notify != nil {
		s.notify.CatalogChanged(ctx, userID, catalog.Definitions())
	}
	if s.journal != nil {
		s.journal.Changed(ctx, userID)
	}
	return def, nil
}

func (s *moodCatalogService) RemoveCustomMood(ctx context.Context, label string) error {
	dbc := dbctx.Context{Ctx: ctx}
	userID, err := requestUserID(dbc)
	if err != nil {
		return err
	}
	if s.builtin.Contains(label) {
		return ErrBuiltinMood
	}
	if err := s.customMoodRepo.DeleteByLabel(dbc, userID, label); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ErrMoodNotFound
		}
		s.log.Error("Failed to delete custom mood", "user_id", userID, "error", err)
		return storeUnavailable()
	}

	if s.notify != nil {
		catalog, err := s.Catalog(dbc, userID)
		if err != nil {
			s.log.Warn("Catalog reload after delete failed", "user_id", userID, "error", err)
		} else {
			s.notify.CatalogChanged(ctx, userID, catalog.Definitions())
		}
	}
	// Past entries keep their mood snapshot, but the top mood resolves
	// against the catalog, so the summary can change.
	if s.journal != nil {
		s.journal.Changed(ctx, userID)
	}
	return nil
}
