package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/moodly-backend/internal/data/repos"
	types "github.com/yungbote/moodly-backend/internal/domain"
	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/observability"
	"github.com/yungbote/moodly-backend/internal/platform/apierr"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"github.com/yungbote/moodly-backend/internal/realtime"
)

const MaxNoteRunes = 2000

var ErrEntryNotFound = apierr.NotFound("entry_not_found", errors.New("entry not found"))

type CreateEntryInput struct {
	MoodLabel string
	Note      string
}

type EntryService interface {
	Create(ctx context.Context, in CreateEntryInput) (*insights.Entry, error)
	List(dbc dbctx.Context) ([]insights.Entry, error)
	Get(dbc dbctx.Context, entryID uuid.UUID) (*insights.Entry, error)
	Delete(ctx context.Context, entryID uuid.UUID) error
	Snapshot(dbc dbctx.Context, userID uuid.UUID, loc *time.Location) (*EntriesSnapshot, error)
	// Subscribe registers a stream client on the caller's channel and queues
	// the current snapshot. Callers must Unsubscribe when done.
	Subscribe(ctx context.Context, loc *time.Location) (*realtime.SSEClient, error)
	Unsubscribe(client *realtime.SSEClient)
}

type entryService struct {
	log       *logger.Logger
	entryRepo repos.MoodEntryRepo
	catalogs  CatalogSource
	journal   JournalPublisher
	hub       *realtime.SSEHub
	now       func() time.Time
}

func NewEntryService(
	log *logger.Logger,
	entryRepo repos.MoodEntryRepo,
	catalogs CatalogSource,
	journal JournalPublisher,
	hub *realtime.SSEHub,
) EntryService {
	return &entryService{
		log:       log.With("service", "EntryService"),
		entryRepo: entryRepo,
		catalogs:  catalogs,
		journal:   journal,
		hub:       hub,
		now:       time.Now,
	}
}

func (s *entryService) Create(ctx context.Context, in CreateEntryInput) (*insights.Entry, error) {
	dbc := dbctx.Context{Ctx: ctx}
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	label := strings.TrimSpace(in.MoodLabel)
	if label == "" {
		return nil, apierr.BadRequest("mood_required", errors.New("mood_label is required"))
	}
	// The note is stored exactly as written.
	note := in.Note
	if utf8.RuneCountInString(note) > MaxNoteRunes {
		return nil, apierr.BadRequest("note_too_long", fmt.Errorf("note must be at most %d characters", MaxNoteRunes))
	}

	catalog, err := s.catalogs.Catalog(dbc, userID)
	if err != nil {
		s.log.Error("Failed to load catalog", "user_id", userID, "error", err)
		return nil, storeUnavailable()
	}
	def, ok := catalog.Lookup(label)
	if !ok {
		return nil, apierr.BadRequest("unknown_mood", fmt.Errorf("mood %q is not in your catalog", label))
	}

	row := &types.MoodEntry{
		UserID:    userID,
		Mood:      datatypes.NewJSONType(types.MoodSnapshot{Emoji: def.Emoji, Label: def.Label, ColorTag: def.ColorTag}),
		Note:      note,
		CreatedAt: s.now().UTC(),
	}
	_, err = s.entryRepo.Create(dbc, []*types.MoodEntry{row})
	observability.Current().ObserveEntryWrite("create", err)
	if err != nil {
		s.log.Error("Failed to create mood entry", "user_id", userID, "error", err)
		return nil, storeUnavailable()
	}

	s.journal.Changed(ctx, userID)
	out := toInsightsEntry(row)
	return &out, nil
}

func (s *entryService) List(dbc dbctx.Context) ([]insights.Entry, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	rows, err := s.entryRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return toInsightsEntries(rows), nil
}

func (s *entryService) Get(dbc dbctx.Context, entryID uuid.UUID) (*insights.Entry, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	row, err := s.entryRepo.GetByIDForUser(dbc, userID, entryID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	out := toInsightsEntry(row)
	return &out, nil
}

func (s *entryService) Delete(ctx context.Context, entryID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	userID, err := requestUserID(dbc)
	if err != nil {
		return err
	}
	err = s.entryRepo.DeleteForUser(dbc, userID, entryID)
	if !errors.Is(err, repos.ErrNotFound) {
		observability.Current().ObserveEntryWrite("delete", err)
	}
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ErrEntryNotFound
		}
		s.log.Error("Failed to delete mood entry", "user_id", userID, "entry_id", entryID, "error", err)
		return storeUnavailable()
	}
	s.journal.Changed(ctx, userID)
	return nil
}

func (s *entryService) Snapshot(dbc dbctx.Context, userID uuid.UUID, loc *time.Location) (*EntriesSnapshot, error) {
	return s.journal.Snapshot(dbc, userID, loc)
}

func (s *entryService) Subscribe(ctx context.Context, loc *time.Location) (*realtime.SSEClient, error) {
	dbc := dbctx.Context{Ctx: ctx}
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	if s.hub == nil {
		return nil, fmt.Errorf("realtime hub not configured")
	}
	client := s.hub.NewSSEClient(userID)
	client.Location = loc
	channel := userID.String()
	s.hub.AddChannel(client, channel)

	snap, err := s.Snapshot(dbc, userID, loc)
	if err != nil {
		s.hub.CloseClient(client)
		s.log.Error("Initial snapshot failed", "user_id", userID, "error", err)
		return nil, storeUnavailable()
	}
	// A broadcast that landed after AddChannel carries a version at least as
	// high, so the mailbox keeps whichever is newer.
	client.Mailbox.Put(realtime.SSEMessage{
		Channel: channel,
		Event:   realtime.SSEEventMoodEntriesSnapshot,
		Data:    snap,
	})
	return client, nil
}

func (s *entryService) Unsubscribe(client *realtime.SSEClient) {
	if client == nil || s.hub == nil {
		return
	}
	s.hub.CloseClient(client)
}
