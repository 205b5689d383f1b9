package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moodly-backend/internal/data/repos"
	types "github.com/yungbote/moodly-backend/internal/domain"
	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

type InsightsService interface {
	Summary(dbc dbctx.Context, userID uuid.UUID, now time.Time) (*insights.Summary, error)
	// Summarize derives each insight independently; a failing derivation
	// leaves its field at the zero value and never blocks the others.
	Summarize(entries []insights.Entry, catalog *insights.Catalog, now time.Time) insights.Summary
}

type insightsService struct {
	log       *logger.Logger
	entryRepo repos.MoodEntryRepo
	catalogs  CatalogSource
}

func NewInsightsService(log *logger.Logger, entryRepo repos.MoodEntryRepo, catalogs CatalogSource) InsightsService {
	return &insightsService{
		log:       log.With("service", "InsightsService"),
		entryRepo: entryRepo,
		catalogs:  catalogs,
	}
}

func (s *insightsService) Summary(dbc dbctx.Context, userID uuid.UUID, now time.Time) (*insights.Summary, error) {
	rows, err := s.entryRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	catalog, err := s.catalogs.Catalog(dbc, userID)
	if err != nil {
		return nil, err
	}
	sum := s.Summarize(toInsightsEntries(rows), catalog, now)
	return &sum, nil
}

func (s *insightsService) Summarize(entries []insights.Entry, catalog *insights.Catalog, now time.Time) insights.Summary {
	sum, failed := insights.Summarize(entries, catalog, now)
	for _, name := range failed {
		s.log.Error("Insight derivation panicked", "insight", name)
	}
	return sum
}

func toInsightsEntries(rows []*types.MoodEntry) []insights.Entry {
	out := make([]insights.Entry, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, toInsightsEntry(row))
	}
	return out
}

func toInsightsEntry(row *types.MoodEntry) insights.Entry {
	snap := row.Mood.Data()
	return insights.Entry{
		ID:        row.ID,
		Mood:      insights.MoodDefinition{Emoji: snap.Emoji, Label: snap.Label, ColorTag: snap.ColorTag},
		Note:      row.Note,
		CreatedAt: row.CreatedAt,
	}
}
