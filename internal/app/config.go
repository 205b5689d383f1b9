package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/moodly-backend/internal/data/db"
	"github.com/yungbote/moodly-backend/internal/http/middleware"
	"github.com/yungbote/moodly-backend/internal/observability"
	"github.com/yungbote/moodly-backend/internal/platform/envutil"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"github.com/yungbote/moodly-backend/internal/platform/openai"
)

const configPathEnv = "MOODLY_CONFIG_PATH"

type Config struct {
	Port string
	DB   db.Config

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	TokenPurgeEvery time.Duration

	RedisAddr     string
	RedisPassword string
	RedisChannel  string

	// OpenAI.APIKey empty disables generated reflections.
	OpenAI            openai.Config
	ReflectionLockTTL time.Duration

	DefaultTimezone  string
	DefaultLocation  *time.Location
	CORSAllowOrigins []string
	ShareCardFont    string

	MetricsAddr string
	Otel        observability.OtelConfig
}

// LoadConfig reads the environment. When MOODLY_CONFIG_PATH names a YAML file
// its keys (same names as the variables) become the defaults the environment
// overrides.
func LoadConfig(log *logger.Logger) (Config, error) {
	file, err := loadConfigFile(os.Getenv(configPathEnv))
	if err != nil {
		return Config{}, err
	}
	str := func(name, def string) string {
		if v, ok := file[name]; ok {
			def = v
		}
		return envutil.String(name, def, log)
	}
	num := func(name string, def int) int {
		if v, ok := file[name]; ok {
			if i, err := strconv.Atoi(v); err == nil {
				def = i
			}
		}
		return envutil.Int(name, def, log)
	}
	flag := func(name string, def bool) bool {
		if v, ok := file[name]; ok {
			if b, err := strconv.ParseBool(v); err == nil {
				def = b
			}
		}
		return envutil.Bool(name, def, log)
	}
	list := func(name string, def []string) []string {
		if v, ok := file[name]; ok {
			def = splitList(v)
		}
		return envutil.List(name, def, log)
	}

	cfg := Config{
		Port: str("PORT", "8080"),
		DB: db.Config{
			Driver:           str("DB_DRIVER", db.DriverPostgres),
			PostgresHost:     str("POSTGRES_HOST", "localhost"),
			PostgresPort:     str("POSTGRES_PORT", "5432"),
			PostgresUser:     str("POSTGRES_USER", "postgres"),
			PostgresPassword: str("POSTGRES_PASSWORD", ""),
			PostgresName:     str("POSTGRES_NAME", "moodly"),
			SQLitePath:       str("SQLITE_PATH", "moodly.db"),
		},
		JWTSecretKey:    str("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  time.Duration(num("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(num("REFRESH_TOKEN_TTL", 86400)) * time.Second,
		TokenPurgeEvery: time.Duration(num("TOKEN_PURGE_INTERVAL_SECONDS", 600)) * time.Second,

		RedisAddr:     str("REDIS_ADDR", ""),
		RedisPassword: str("REDIS_PASSWORD", ""),
		RedisChannel:  str("REDIS_CHANNEL", "moodly:sse"),

		OpenAI: openai.Config{
			APIKey:  str("OPENAI_API_KEY", ""),
			BaseURL: str("OPENAI_BASE_URL", "https://api.openai.com"),
			Model:   str("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: time.Duration(num("OPENAI_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		ReflectionLockTTL: time.Duration(num("REFLECTION_LOCK_TTL_SECONDS", 60)) * time.Second,

		DefaultTimezone:  str("DEFAULT_TIMEZONE", "UTC"),
		CORSAllowOrigins: list("CORS_ALLOW_ORIGINS", middleware.DefaultAllowOrigins),
		ShareCardFont:    str("SHARE_CARD_FONT", ""),

		MetricsAddr: str("METRICS_ADDR", ":9090"),
		Otel: observability.OtelConfig{
			Enabled:     flag("OTEL_ENABLED", false),
			ServiceName: str("OTEL_SERVICE_NAME", "moodly"),
			Environment: str("OTEL_ENVIRONMENT", "development"),
			Version:     str("OTEL_SERVICE_VERSION", "dev"),
			Endpoint:    str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     str("OTEL_EXPORTER_OTLP_HEADERS", ""),
			Insecure:    flag("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: float64(num("OTEL_SAMPLE_PERCENT", 100)) / 100,
		},
	}

	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return Config{}, fmt.Errorf("DEFAULT_TIMEZONE %q: %w", cfg.DefaultTimezone, err)
	}
	cfg.DefaultLocation = loc
	if cfg.JWTSecretKey == "defaultsecret" && log != nil {
		log.Warn("JWT_SECRET_KEY is the built-in default; set it outside local development")
	}
	return cfg, nil
}

// loadConfigFile returns the file's scalar keys as strings. Lists are joined
// with commas so they parse like the environment form.
func loadConfigFile(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	out := make(map[string]string, len(doc))
	for k, v := range doc {
		key := strings.ToUpper(strings.TrimSpace(k))
		switch val := v.(type) {
		case nil:
			continue
		case []any:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, fmt.Sprint(p))
			}
			out[key] = strings.Join(parts, ",")
		case map[string]any:
			return nil, fmt.Errorf("parse config %s: key %s must be a scalar or list", path, k)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return out, nil
}

func splitList(v string) []string {
	out := make([]string, 0, 4)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
