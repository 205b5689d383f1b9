package mood

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/moodly-backend/internal/domain/user"
	"gorm.io/gorm"
)

// CustomMood is a user-defined addition to the built-in catalog.
// LabelKey is the lower-cased label; (user_id, label_key) is unique.
type CustomMood struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_custom_mood_user_label,priority:1" json:"user_id"`
	User     *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Emoji    string     `gorm:"not null;column:emoji" json:"emoji"`
	Label    string     `gorm:"not null;column:label" json:"label"`
	LabelKey string     `gorm:"not null;column:label_key;uniqueIndex:idx_custom_mood_user_label,priority:2" json:"-"`
	ColorTag string     `gorm:"not null;column:color_tag" json:"color_tag"`
	Position int        `gorm:"not null;default:0;column:position" json:"position"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CustomMood) TableName() string { return "custom_mood" }

func (m *CustomMood) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
