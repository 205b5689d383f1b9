package mood

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/moodly-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/moodly-backend/internal/domain"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

type CustomMoodRepo interface {
	// Create appends m at the end of the user's list. A label clash returns repoerr.ErrConflict.
	Create(dbc dbctx.Context, m *types.CustomMood) (*types.CustomMood, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.CustomMood, error)
	DeleteByLabel(dbc dbctx.Context, userID uuid.UUID, label string) error
}

type customMoodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomMoodRepo(db *gorm.DB, baseLog *logger.Logger) CustomMoodRepo {
	repoLog := baseLog.With("repo", "CustomMoodRepo")
	return &customMoodRepo{db: db, log: repoLog}
}

func labelKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func (r *customMoodRepo) Create(dbc dbctx.Context, m *types.CustomMood) (*types.CustomMood, error) {
	if m == nil {
		return nil, nil
	}
	m.LabelKey = labelKey(m.Label)

	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&types.CustomMood{}).
			Where("user_id = ?", m.UserID).
			Select("COALESCE(MAX(position), -1)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		m.Position = maxPos + 1
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, repoerr.Translate(err)
	}
	return m, nil
}

func (r *customMoodRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.CustomMood, error) {
	results := []*types.CustomMood{}
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "position"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *customMoodRepo) DeleteByLabel(dbc dbctx.Context, userID uuid.UUID, label string) error {
	res := dbc.DB(r.db).
		Where("user_id = ? AND label_key = ?", userID, labelKey(label)).
		Delete(&types.CustomMood{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repoerr.ErrNotFound
	}
	return nil
}
