package services

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodly-backend/internal/platform/apierr"
	"github.com/yungbote/moodly-backend/internal/platform/ctxutil"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
)

var (
	ErrUnauthorized = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("unauthorized"))
	// ErrStoreUnavailable is the generic, retryable write failure. Nothing was changed.
	ErrStoreUnavailable = errors.New("journal store unavailable, please try again")
)

func storeUnavailable() error {
	return apierr.New(http.StatusServiceUnavailable, "store_unavailable", ErrStoreUnavailable)
}

// requestUserID returns the authenticated user's id from dbc.Ctx.
func requestUserID(dbc dbctx.Context) (uuid.UUID, error) {
	if dbc.Ctx == nil {
		return uuid.Nil, ErrUnauthorized
	}
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, ErrUnauthorized
	}
	return rd.UserID, nil
}

// inTx runs fn inside a transaction unless dbc already carries one or no
// database is configured.
func inTx(dbc dbctx.Context, db *gorm.DB, fn func(dbc dbctx.Context) error) error {
	if dbc.Tx != nil || db == nil {
		return fn(dbc)
	}
	return dbc.DB(db).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
	})
}
