package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpiredTokens(context.Context) (int64, error) {
	p.calls.Add(1)
	return 2, p.err
}

func TestTokenJanitorRunsUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	log, err := logger.New("development")
	require.NoError(t, err)

	for _, purgeErr := range []error{nil, errors.New("db down")} {
		purger := &countingPurger{err: purgeErr}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			runTokenJanitor(ctx, log, purger, 5*time.Millisecond)
		}()

		require.Eventually(t, func() bool { return purger.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("janitor did not stop after cancel")
		}
	}
}

func TestTokenJanitorDisabled(t *testing.T) {
	log, err := logger.New("development")
	require.NoError(t, err)

	purger := &countingPurger{}
	// Returns immediately rather than blocking on the ticker.
	runTokenJanitor(context.Background(), log, purger, 0)
	require.Zero(t, purger.calls.Load())
}
