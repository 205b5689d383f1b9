package mood

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/moodly-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MoodSnapshot is the copy of a mood definition taken when an entry is logged.
// Later catalog edits never rewrite it.
type MoodSnapshot struct {
	Emoji    string `json:"emoji"`
	Label    string `json:"label"`
	ColorTag string `json:"color_tag"`
}

// MoodEntry is immutable once created; it can only be deleted.
type MoodEntry struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_mood_entry_user_created,priority:1" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

	Mood datatypes.JSONType[MoodSnapshot] `gorm:"column:mood;not null" json:"mood"`
	Note string                           `gorm:"column:note;type:text;not null;default:''" json:"note"`

	CreatedAt time.Time      `gorm:"not null;index:idx_mood_entry_user_created,priority:2,sort:desc" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MoodEntry) TableName() string { return "mood_entry" }

func (e *MoodEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
