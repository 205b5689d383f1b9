package services

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
)

func TestShareServiceTextAndCard(t *testing.T) {
	f := newMoodFixture(t)
	ctx := userContext(uuid.New())
	e, err := f.svc.Create(ctx, CreateEntryInput{MoodLabel: "Grateful", Note: "Coffee with an old friend"})
	require.NoError(t, err)

	share, err := NewShareService(testLogger(t), f.svc, "")
	require.NoError(t, err)
	dbc := dbctx.Context{Ctx: ctx}

	text, err := share.Text(dbc, e.ID, time.UTC)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "🙏 Feeling Grateful today"))
	assert.Contains(t, text, "\"Coffee with an old friend\"")
	assert.NotContains(t, text, "days of checking in")

	card, err := share.Card(dbc, e.ID, time.UTC)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(card))
	require.NoError(t, err)
	assert.Equal(t, shareCardWidth, img.Bounds().Dx())
	assert.Equal(t, shareCardHeight, img.Bounds().Dy())

	_, err = share.Text(dbctx.Context{Ctx: userContext(uuid.New())}, e.ID, time.UTC)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestShareServiceMissingFont(t *testing.T) {
	_, err := NewShareService(testLogger(t), nil, "/nonexistent/font.ttf")
	assert.Error(t, err)
}

func TestColorForTag(t *testing.T) {
	assert.Equal(t, tagColors["green"], colorForTag("bg-green-100 border-green-200"))
	assert.Equal(t, tagColors["purple"], colorForTag("border-red-200 bg-purple-100"))
	assert.Equal(t, tagColors["slate"], colorForTag("bg-chartreuse-100"))
	assert.Equal(t, tagColors["slate"], colorForTag(""))
}
