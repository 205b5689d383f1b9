package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/moodly-backend/internal/modules/insights"
)

type firstSource struct{}

func (firstSource) Intn(int) int { return 0 }

type stubTextClient struct {
	text    string
	err     error
	started chan struct{}
	unblock chan struct{}
}

func (c *stubTextClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.unblock != nil {
		<-c.unblock
	}
	return c.text, c.err
}

func TestReflectionLocalUsesMoodCategory(t *testing.T) {
	svc := NewReflectionService(testLogger(t), nil, firstSource{}, nil, nil)
	r, err := svc.Local("Happy")
	require.NoError(t, err)
	require.NotNil(t, r.Quote)
	assert.Equal(t, insights.CategoryManifesting, r.Quote.Category)
	assert.Equal(t, ReflectionSourceLocal, r.Source)
	assert.Contains(t, r.Text, r.Quote.Text)
	assert.Contains(t, r.Text, insights.OpeningMessage("Happy"))

	_, err = NewReflectionService(testLogger(t), []insights.Quote{}, firstSource{}, nil, nil).Local("Happy")
	assert.ErrorIs(t, err, insights.ErrEmptyQuoteTable)
}

func TestReflectionGenerateDisabled(t *testing.T) {
	svc := NewReflectionService(testLogger(t), nil, nil, nil, nil)
	_, err := svc.Generate(userContext(uuid.New()), "Sad")
	requireAPICode(t, err, "reflection_generation_disabled")
}

func TestReflectionGenerateSurfacesUpstreamError(t *testing.T) {
	client := &stubTextClient{err: errors.New("openai http 429: rate limited")}
	svc := NewReflectionService(testLogger(t), nil, nil, client, nil)

	_, err := svc.Generate(userContext(uuid.New()), "Sad")
	requireAPICode(t, err, "reflection_failed")
	assert.ErrorIs(t, err, ErrReflectionFailed)
	assert.Contains(t, err.Error(), "openai http 429: rate limited")
}

func TestReflectionGenerateOneInFlightPerUser(t *testing.T) {
	client := &stubTextClient{text: " Be gentle with yourself. ", started: make(chan struct{}, 1), unblock: make(chan struct{})}
	svc := NewReflectionService(testLogger(t), nil, nil, client, nil)
	userID := uuid.New()

	type result struct {
		r   *Reflection
		err error
	}
	done := make(chan result, 1)
	go func() {
		r, err := svc.Generate(userContext(userID), "Tired")
		done <- result{r, err}
	}()
	select {
	case <-client.started:
	case <-time.After(time.Second):
		t.Fatal("generation did not start")
	}

	_, err := svc.Generate(userContext(userID), "Tired")
	assert.ErrorIs(t, err, ErrReflectionInFlight)

	close(client.unblock)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "Be gentle with yourself.", res.r.Text)
	assert.Equal(t, ReflectionSourceGenerated, res.r.Source)

	client.started = nil
	r, err := svc.Generate(userContext(userID), "Tired")
	require.NoError(t, err)
	assert.Equal(t, "Be gentle with yourself.", r.Text)
}

func TestMemoryInFlightGuardReleaseIsIdempotent(t *testing.T) {
	g := NewMemoryInFlightGuard()
	ctx := context.Background()
	id := uuid.New()

	release, ok, err := g.Acquire(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, _ = g.Acquire(ctx, id)
	assert.False(t, ok)
	_, ok, _ = g.Acquire(ctx, uuid.New())
	assert.True(t, ok)

	release()
	release()
	_, ok, _ = g.Acquire(ctx, id)
	assert.True(t, ok)
}

func TestRedisInFlightGuard(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis guard tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	g, err := NewRedisInFlightGuard(testLogger(t), rdb, "moodly-test:"+uuid.NewString(), 5*time.Second)
	require.NoError(t, err)
	ctx := context.Background()
	id := uuid.New()

	release, ok, err := g.Acquire(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = g.Acquire(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	release2, ok, err := g.Acquire(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	release2()
}
