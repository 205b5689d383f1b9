package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/moodly-backend/internal/data/repos"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

type Repos struct {
	User       repos.UserRepo
	UserToken  repos.UserTokenRepo
	MoodEntry  repos.MoodEntryRepo
	CustomMood repos.CustomMoodRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		UserToken:  repos.NewUserTokenRepo(db, log),
		MoodEntry:  repos.NewMoodEntryRepo(db, log),
		CustomMood: repos.NewCustomMoodRepo(db, log),
	}
}
