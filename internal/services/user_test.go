package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/moodly-backend/internal/domain"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
)

func TestUserServiceThemeUpdate(t *testing.T) {
	users := newFakeUserRepo()
	notify := &recordingNotifier{}
	svc := NewUserService(nil, testLogger(t), users, notify)

	u := &types.User{ID: uuid.New(), Email: "ada@example.com", PreferredTheme: types.ThemeSystem}
	_, err := users.Create(context.Background(), nil, []*types.User{u})
	require.NoError(t, err)
	ctx := userContext(u.ID)

	me, err := svc.GetMe(dbctx.Context{Ctx: ctx})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Label())

	_, err = svc.UpdatePreferredTheme(ctx, "sepia")
	assert.ErrorIs(t, err, ErrInvalidTheme)
	assert.Empty(t, notify.themes)

	updated, err := svc.UpdatePreferredTheme(ctx, " Dark ")
	require.NoError(t, err)
	assert.Equal(t, types.ThemeDark, updated.PreferredTheme)
	assert.Equal(t, []string{types.ThemeDark}, notify.themes)

	_, err = svc.GetMe(dbctx.Context{Ctx: context.Background()})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.UpdatePreferredTheme(userContext(uuid.New()), "light")
	requireAPICode(t, err, "user_not_found")
}
