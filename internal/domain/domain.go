package domain

import (
	"github.com/yungbote/moodly-backend/internal/domain/auth"
	"github.com/yungbote/moodly-backend/internal/domain/mood"
	"github.com/yungbote/moodly-backend/internal/domain/user"
)

const (
	ThemeLight  = user.ThemeLight
	ThemeDark   = user.ThemeDark
	ThemeSystem = user.ThemeSystem
)

func ValidTheme(theme string) bool { return user.ValidTheme(theme) }

type User = user.User
type UserToken = auth.UserToken

type MoodEntry = mood.MoodEntry
type MoodSnapshot = mood.MoodSnapshot
type CustomMood = mood.CustomMood
