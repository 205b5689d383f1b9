package repos

import (
	"github.com/yungbote/moodly-backend/internal/data/repos/auth"
	"github.com/yungbote/moodly-backend/internal/data/repos/mood"
	"github.com/yungbote/moodly-backend/internal/data/repos/repoerr"
	"github.com/yungbote/moodly-backend/internal/data/repos/user"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"gorm.io/gorm"
)

var (
	ErrNotFound = repoerr.ErrNotFound
	ErrConflict = repoerr.ErrConflict
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type MoodEntryRepo = mood.MoodEntryRepo
type CustomMoodRepo = mood.CustomMoodRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewMoodEntryRepo(db *gorm.DB, baseLog *logger.Logger) MoodEntryRepo {
	return mood.NewMoodEntryRepo(db, baseLog)
}
func NewCustomMoodRepo(db *gorm.DB, baseLog *logger.Logger) CustomMoodRepo {
	return mood.NewCustomMoodRepo(db, baseLog)
}
