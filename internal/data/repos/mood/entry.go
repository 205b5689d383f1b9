package mood

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/moodly-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/moodly-backend/internal/domain"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

type MoodEntryRepo interface {
	Create(dbc dbctx.Context, entries []*types.MoodEntry) ([]*types.MoodEntry, error)
	// ListByUser returns the user's entries newest first.
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MoodEntry, error)
	GetByIDForUser(dbc dbctx.Context, userID, entryID uuid.UUID) (*types.MoodEntry, error)
	// DeleteForUser returns repoerr.ErrNotFound when the entry is missing or owned by someone else.
	DeleteForUser(dbc dbctx.Context, userID, entryID uuid.UUID) error
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type moodEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMoodEntryRepo(db *gorm.DB, baseLog *logger.Logger) MoodEntryRepo {
	repoLog := baseLog.With("repo", "MoodEntryRepo")
	return &moodEntryRepo{db: db, log: repoLog}
}

func (r *moodEntryRepo) Create(dbc dbctx.Context, entries []*types.MoodEntry) ([]*types.MoodEntry, error) {
	if len(entries) == 0 {
		return []*types.MoodEntry{}, nil
	}
	if err := dbc.DB(r.db).Create(&entries).Error; err != nil {
		return nil, repoerr.Translate(err)
	}
	return entries, nil
}

func (r *moodEntryRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MoodEntry, error) {
	results := []*types.MoodEntry{}
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moodEntryRepo) GetByIDForUser(dbc dbctx.Context, userID, entryID uuid.UUID) (*types.MoodEntry, error) {
	var row types.MoodEntry
	err := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", entryID, userID).
		Take(&row).Error
	if err != nil {
		return nil, repoerr.Translate(err)
	}
	return &row, nil
}

func (r *moodEntryRepo) DeleteForUser(dbc dbctx.Context, userID, entryID uuid.UUID) error {
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&types.MoodEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repoerr.ErrNotFound
	}
	return nil
}

func (r *moodEntryRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.MoodEntry{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
