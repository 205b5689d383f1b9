package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodly-backend/internal/data/repos"
	types "github.com/yungbote/moodly-backend/internal/domain"
	"github.com/yungbote/moodly-backend/internal/platform/apierr"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

var ErrInvalidTheme = apierr.BadRequest("invalid_theme", errors.New("preferred_theme must be one of light, dark, system"))

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdatePreferredTheme(ctx context.Context, preferredTheme string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	notify   SnapshotNotifier
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, notify SnapshotNotifier) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
		notify:   notify,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	return us.loadUser(dbc, userID)
}

func (us *userService) loadUser(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{userID})
	if err != nil {
		us.log.Error("Failed to load user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user_not_found", errors.New("user not found"))
	}
	return users[0], nil
}

func (us *userService) UpdatePreferredTheme(ctx context.Context, preferredTheme string) (*types.User, error) {
	theme := strings.ToLower(strings.TrimSpace(preferredTheme))
	if !types.ValidTheme(theme) {
		return nil, ErrInvalidTheme
	}
	dbc := dbctx.Context{Ctx: ctx}
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}

	var updated *types.User
	err = inTx(dbc, us.db, func(dbc dbctx.Context) error {
		if err := us.userRepo.UpdatePreferredTheme(dbc.Ctx, dbc.Tx, userID, theme); err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return apierr.NotFound("user_not_found", errors.New("user not found"))
			}
			return fmt.Errorf("update preferred theme: %w", err)
		}
		u, err := us.loadUser(dbc, userID)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if us.notify != nil {
		us.notify.ThemeChanged(ctx, userID, updated.PreferredTheme)
	}
	return updated, nil
}
