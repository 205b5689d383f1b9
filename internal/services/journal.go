package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moodly-backend/internal/data/repos"
	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"github.com/yungbote/moodly-backend/internal/realtime"
)

// EntriesSnapshot is the full journal state pushed to subscribers.
type EntriesSnapshot struct {
	// Version orders snapshots of the same user; a higher one is newer.
	Version  int64                     `json:"version"`
	Entries  []insights.Entry          `json:"entries"`
	Moods    []insights.MoodDefinition `json:"moods"`
	Summary  insights.Summary          `json:"summary"`
	Timezone string                    `json:"timezone"`

	clock func() time.Time
}

func (s *EntriesSnapshot) SnapshotVersion() int64 {
	if s == nil {
		return 0
	}
	return s.Version
}

// InLocation recomputes the summary in loc. The entries are shared with s.
func (s *EntriesSnapshot) InLocation(loc *time.Location) any {
	if s == nil || loc == nil || s.Timezone == loc.String() {
		return s
	}
	now := time.Now
	if s.clock != nil {
		now = s.clock
	}
	out := *s
	out.Summary, _ = insights.Summarize(s.Entries, catalogOf(s.Moods), now().In(loc))
	out.Timezone = loc.String()
	return &out
}

func catalogOf(defs []insights.MoodDefinition) *insights.Catalog {
	c, _ := insights.NewCatalog()
	for _, d := range defs {
		_ = c.Add(d)
	}
	return c
}

func emptySnapshot(loc *time.Location) *EntriesSnapshot {
	return &EntriesSnapshot{
		Entries:  []insights.Entry{},
		Moods:    []insights.MoodDefinition{},
		Summary:  insights.Summary{Badges: []insights.Badge{}},
		Timezone: loc.String(),
	}
}

// DecodeBusMessage restores typed payloads on messages that crossed the bus,
// so the hub can version and localize them. Other messages pass through.
func DecodeBusMessage(msg realtime.SSEMessage) realtime.SSEMessage {
	if msg.Event != realtime.SSEEventMoodEntriesSnapshot {
		return msg
	}
	if _, ok := msg.Data.(*EntriesSnapshot); ok {
		return msg
	}
	raw, err := json.Marshal(msg.Data)
	if err != nil {
		return msg
	}
	var snap EntriesSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return msg
	}
	msg.Data = &snap
	return msg
}

// JournalPublisher versions a user's journal and pushes snapshots of it.
type JournalPublisher interface {
	// Snapshot reads the current state with its summary in loc (the default
	// zone when nil).
	Snapshot(dbc dbctx.Context, userID uuid.UUID, loc *time.Location) (*EntriesSnapshot, error)
	// Changed advances the version after a confirmed write and publishes a
	// fresh snapshot. Failures are logged; the write already succeeded.
	Changed(ctx context.Context, userID uuid.UUID)
}

type journalPublisher struct {
	log        *logger.Logger
	entryRepo  repos.MoodEntryRepo
	userRepo   repos.UserRepo
	catalogs   CatalogSource
	insights   InsightsService
	notify     SnapshotNotifier
	defaultLoc *time.Location
	now        func() time.Time
}

func NewJournalPublisher(
	log *logger.Logger,
	entryRepo repos.MoodEntryRepo,
	userRepo repos.UserRepo,
	catalogs CatalogSource,
	insightsService InsightsService,
	notify SnapshotNotifier,
	defaultLoc *time.Location,
) JournalPublisher {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &journalPublisher{
		log:        log.With("service", "JournalPublisher"),
		entryRepo:  entryRepo,
		userRepo:   userRepo,
		catalogs:   catalogs,
		insights:   insightsService,
		notify:     notify,
		defaultLoc: defaultLoc,
		now:        time.Now,
	}
}

func (p *journalPublisher) Snapshot(dbc dbctx.Context, userID uuid.UUID, loc *time.Location) (*EntriesSnapshot, error) {
	if loc == nil {
		loc = p.defaultLoc
	}
	if userID == uuid.Nil {
		return emptySnapshot(loc), nil
	}
	// The version is read first: the state read after it is at least as new.
	version, err := p.userRepo.GetJournalVersion(dbc.Ctx, dbc.Tx, userID)
	if err != nil && !errors.Is(err, repos.ErrNotFound) {
		return nil, fmt.Errorf("journal version: %w", err)
	}
	rows, err := p.entryRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	catalog, err := p.catalogs.Catalog(dbc, userID)
	if err != nil {
		return nil, err
	}
	entries := toInsightsEntries(rows)
	return &EntriesSnapshot{
		Version:  version,
		Entries:  entries,
		Moods:    catalog.Definitions(),
		Summary:  p.insights.Summarize(entries, catalog, p.now().In(loc)),
		Timezone: loc.String(),
		clock:    p.now,
	}, nil
}

func (p *journalPublisher) Changed(ctx context.Context, userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	if _, err := p.userRepo.BumpJournalVersion(ctx, nil, userID); err != nil {
		p.log.Warn("Journal version bump failed", "user_id", userID, "error", err)
		return
	}
	if p.notify == nil {
		return
	}
	snap, err := p.Snapshot(dbctx.Context{Ctx: ctx}, userID, p.defaultLoc)
	if err != nil {
		p.log.Warn("Snapshot after write failed", "user_id", userID, "error", err)
		return
	}
	p.notify.EntriesSnapshot(ctx, userID, snap)
}
