package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/observability"
	"github.com/yungbote/moodly-backend/internal/platform/apierr"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"github.com/yungbote/moodly-backend/internal/platform/openai"
)

const (
	ReflectionSourceLocal     = "local"
	ReflectionSourceGenerated = "generated"
)

var (
	ErrReflectionInFlight = apierr.Conflict("reflection_in_flight", errors.New("a reflection is already being generated"))
	ErrReflectionDisabled = apierr.New(http.StatusServiceUnavailable, "reflection_generation_disabled", errors.New("reflection generation is not configured"))
	// ErrReflectionFailed wraps the upstream message unchanged.
	ErrReflectionFailed = errors.New("reflection generation failed")
)

type Reflection struct {
	Mood   string          `json:"mood"`
	Text   string          `json:"text"`
	Quote  *insights.Quote `json:"quote,omitempty"`
	Source string          `json:"source"`
}

type ReflectionService interface {
	Local(mood string) (*Reflection, error)
	Generate(ctx context.Context, mood string) (*Reflection, error)
}

type reflectionService struct {
	log    *logger.Logger
	quotes []insights.Quote
	rng    insights.RandomSource
	client openai.Client
	guard  InFlightGuard
}

// NewReflectionService builds the service. A nil client disables Generate.
func NewReflectionService(log *logger.Logger, quotes []insights.Quote, rng insights.RandomSource, client openai.Client, guard InFlightGuard) ReflectionService {
	if quotes == nil {
		quotes = insights.DefaultQuotes()
	}
	if guard == nil {
		guard = NewMemoryInFlightGuard()
	}
	return &reflectionService{
		log:    log.With("service", "ReflectionService"),
		quotes: quotes,
		rng:    rng,
		client: client,
		guard:  guard,
	}
}

func (s *reflectionService) Local(mood string) (*Reflection, error) {
	mood = strings.TrimSpace(mood)
	q, err := insights.SelectReflection(mood, s.quotes, s.rng)
	observability.Current().ObserveReflection(ReflectionSourceLocal, err, 0)
	if err != nil {
		return nil, fmt.Errorf("select reflection: %w", err)
	}
	return &Reflection{
		Mood:   mood,
		Text:   insights.ComposeReflection(mood, q),
		Quote:  &q,
		Source: ReflectionSourceLocal,
	}, nil
}

// Generate sends one request to the text-generation API. There is no retry
// and no local fallback; the caller sees the upstream error message.
func (s *reflectionService) Generate(ctx context.Context, mood string) (*Reflection, error) {
	userID, err := requestUserID(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, err
	}
	if s.client == nil {
		return nil, ErrReflectionDisabled
	}
	mood = strings.TrimSpace(mood)

	release, ok, err := s.guard.Acquire(ctx, userID)
	if err != nil {
		s.log.Error("Reflection guard unavailable", "user_id", userID, "error", err)
		return nil, fmt.Errorf("acquire reflection guard: %w", err)
	}
	if !ok {
		return nil, ErrReflectionInFlight
	}
	defer release()

	system, user := insights.GenerationPrompt(mood)
	start := time.Now()
	text, err := s.client.GenerateText(ctx, system, user)
	observability.Current().ObserveReflection(ReflectionSourceGenerated, err, time.Since(start))
	if err != nil {
		s.log.Warn("Reflection generation failed", "user_id", userID, "error", err)
		return nil, apierr.New(http.StatusBadGateway, "reflection_failed", fmt.Errorf("%w: %s", ErrReflectionFailed, err.Error()))
	}
	return &Reflection{
		Mood:   mood,
		Text:   strings.TrimSpace(text),
		Source: ReflectionSourceGenerated,
	}, nil
}

// InFlightGuard admits at most one pending generation per user.
type InFlightGuard interface {
	// Acquire reports ok=false when a request for userID is already pending.
	// release must be called exactly once after a successful acquire.
	Acquire(ctx context.Context, userID uuid.UUID) (release func(), ok bool, err error)
}

type memoryInFlightGuard struct {
	mu      sync.Mutex
	pending map[uuid.UUID]struct{}
}

func NewMemoryInFlightGuard() InFlightGuard {
	return &memoryInFlightGuard{pending: make(map[uuid.UUID]struct{})}
}

func (g *memoryInFlightGuard) Acquire(ctx context.Context, userID uuid.UUID) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[userID]; busy {
		return nil, false, nil
	}
	g.pending[userID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.pending, userID)
			g.mu.Unlock()
		})
	}, true, nil
}

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another request is left alone.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisInFlightGuard struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisInFlightGuard shares the guard across instances. ttl bounds how
// long a crashed holder can block the user.
func NewRedisInFlightGuard(log *logger.Logger, rdb goredis.UniversalClient, prefix string, ttl time.Duration) (InFlightGuard, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = "moodly:reflection:inflight"
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &redisInFlightGuard{
		log:    log.With("component", "RedisInFlightGuard"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (g *redisInFlightGuard) Acquire(ctx context.Context, userID uuid.UUID) (func(), bool, error) {
	key := g.prefix + ":" + userID.String()
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, g.rdb, []string{key}, token).Err(); err != nil {
				g.log.Warn("Failed to release reflection guard", "key", key, "error", err)
			}
		})
	}, true, nil
}
