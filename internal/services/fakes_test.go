package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/moodly-backend/internal/data/repos"
	types "github.com/yungbote/moodly-backend/internal/domain"
	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/platform/ctxutil"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func userContext(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*types.User
	versions map[uuid.UUID]int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*types.User), versions: make(map[uuid.UUID]int64)}
}

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range users {
		for _, existing := range r.users {
			if existing.Email == u.Email {
				return nil, repos.ErrConflict
			}
		}
		cp := *u
		r.users[u.ID] = &cp
	}
	return users, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.User
	for _, u := range r.users {
		for _, e := range emails {
			if u.Email == e {
				cp := *u
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	found, _ := r.GetByEmails(ctx, tx, []string{email})
	return len(found) > 0, nil
}

func (r *fakeUserRepo) UpdateDisplayName(ctx context.Context, tx *gorm.DB, id uuid.UUID, name string) error {
	return r.update(id, func(u *types.User) { u.DisplayName = name })
}

func (r *fakeUserRepo) UpdatePreferredTheme(ctx context.Context, tx *gorm.DB, id uuid.UUID, theme string) error {
	return r.update(id, func(u *types.User) { u.PreferredTheme = theme })
}

func (r *fakeUserRepo) BumpJournalVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions[id]++
	return r.versions[id], nil
}

func (r *fakeUserRepo) GetJournalVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.versions[id], nil
}

func (r *fakeUserRepo) update(id uuid.UUID, fn func(*types.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repos.ErrNotFound
	}
	fn(u)
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*types.UserToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[uuid.UUID]*types.UserToken)}
}

func (r *fakeTokenRepo) Create(dbc dbctx.Context, tokens []*types.UserToken) ([]*types.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tokens {
		cp := *t
		r.tokens[t.ID] = &cp
	}
	return tokens, nil
}

func (r *fakeTokenRepo) filter(keep func(*types.UserToken) bool) []*types.UserToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.UserToken
	for _, t := range r.tokens {
		if keep(t) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out
}

func (r *fakeTokenRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.UserToken, error) {
	return r.filter(func(t *types.UserToken) bool { return containsID(ids, t.ID) }), nil
}

func (r *fakeTokenRepo) GetByUserIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.UserToken, error) {
	return r.filter(func(t *types.UserToken) bool { return containsID(ids, t.UserID) }), nil
}

func (r *fakeTokenRepo) GetByAccessTokens(dbc dbctx.Context, values []string) ([]*types.UserToken, error) {
	return r.filter(func(t *types.UserToken) bool { return containsString(values, t.AccessToken) }), nil
}

func (r *fakeTokenRepo) GetByRefreshTokens(dbc dbctx.Context, values []string) ([]*types.UserToken, error) {
	return r.filter(func(t *types.UserToken) bool { return containsString(values, t.RefreshToken) }), nil
}

func (r *fakeTokenRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.tokens, id)
	}
	return nil
}

func (r *fakeTokenRepo) FullDeleteExpired(dbc dbctx.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type fakeEntryRepo struct {
	mu        sync.Mutex
	entries   []*types.MoodEntry
	createErr error
	// afterList runs once ListByUser has read its rows, outside the lock.
	afterList func()
}

func (r *fakeEntryRepo) Create(dbc dbctx.Context, rows []*types.MoodEntry) ([]*types.MoodEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		cp := *row
		r.entries = append(r.entries, &cp)
	}
	return rows, nil
}

func (r *fakeEntryRepo) list(userID uuid.UUID) ([]*types.MoodEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*types.MoodEntry{}
	for _, e := range r.entries {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeEntryRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MoodEntry, error) {
	out, err := r.list(userID)
	if r.afterList != nil {
		r.afterList()
	}
	return out, err
}

func (r *fakeEntryRepo) GetByIDForUser(dbc dbctx.Context, userID, entryID uuid.UUID) (*types.MoodEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == entryID && e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repos.ErrNotFound
}

func (r *fakeEntryRepo) DeleteForUser(dbc dbctx.Context, userID, entryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == entryID && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repos.ErrNotFound
}

func (r *fakeEntryRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	rows, _ := r.list(userID)
	return int64(len(rows)), nil
}

type fakeCustomMoodRepo struct {
	mu    sync.Mutex
	moods []*types.CustomMood
}

func (r *fakeCustomMoodRepo) Create(dbc dbctx.Context, m *types.CustomMood) (*types.CustomMood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.LabelKey = strings.ToLower(strings.TrimSpace(m.Label))
	pos := 0
	for _, existing := range r.moods {
		if existing.UserID != m.UserID {
			continue
		}
		if existing.LabelKey == m.LabelKey {
			return nil, repos.ErrConflict
		}
		pos = existing.Position + 1
	}
	m.ID = uuid.New()
	m.Position = pos
	cp := *m
	r.moods = append(r.moods, &cp)
	return m, nil
}

func (r *fakeCustomMoodRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.CustomMood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.CustomMood
	for _, m := range r.moods {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCustomMoodRepo) DeleteByLabel(dbc dbctx.Context, userID uuid.UUID, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(strings.TrimSpace(label))
	for i, m := range r.moods {
		if m.UserID == userID && m.LabelKey == key {
			r.moods = append(r.moods[:i], r.moods[i+1:]...)
			return nil
		}
	}
	return repos.ErrNotFound
}

// recordingNotifier records snapshots and forwards them to next when set.
type recordingNotifier struct {
	mu        sync.Mutex
	snapshots []*EntriesSnapshot
	catalogs  [][]insights.MoodDefinition
	themes    []string
	next      SnapshotNotifier
}

func (n *recordingNotifier) EntriesSnapshot(ctx context.Context, userID uuid.UUID, snap *EntriesSnapshot) {
	n.mu.Lock()
	n.snapshots = append(n.snapshots, snap)
	n.mu.Unlock()
	if n.next != nil {
		n.next.EntriesSnapshot(ctx, userID, snap)
	}
}

func (n *recordingNotifier) lastSnapshot() *EntriesSnapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.snapshots) == 0 {
		return nil
	}
	return n.snapshots[len(n.snapshots)-1]
}

func (n *recordingNotifier) CatalogChanged(ctx context.Context, userID uuid.UUID, defs []insights.MoodDefinition) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.catalogs = append(n.catalogs, defs)
}

func (n *recordingNotifier) ThemeChanged(ctx context.Context, userID uuid.UUID, theme string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.themes = append(n.themes, theme)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
