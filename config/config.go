package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EmptyQueryPolicy decides what an empty committed search does
type EmptyQueryPolicy string

const (
	// EmptyClear clears the displayed results without a request
	EmptyClear EmptyQueryPolicy = "clear"
	// EmptyDefault searches for Config.DefaultQuery instead
	EmptyDefault EmptyQueryPolicy = "default"
)

// Config holds every runtime setting. It is built once at startup by Load
// and passed by value; nothing mutates it afterwards.
type Config struct {
	APIURL string
	Port   string
	DBPath string

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration

	S3Bucket string
	S3Region string

	KafkaBrokers []string

	SourcesFile string
	IngestCron  string

	DebounceDelay time.Duration
	EmptyPolicy   EmptyQueryPolicy
	DefaultQuery  string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := Config{
		APIURL:        strings.TrimRight(getEnvOrDefault("API_URL", DefaultAPIURL), "/"),
		Port:          getEnvOrDefault("PORT", DefaultPort),
		DBPath:        getEnvOrDefault("DB_PATH", "fullpicture.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		CacheTTL:      DefaultCacheTTL,
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      os.Getenv("S3_REGION"),
		SourcesFile:   os.Getenv("SOURCES_FILE"),
		IngestCron:    os.Getenv("INGEST_CRON"),
		DebounceDelay: DefaultDebounceDelay,
		EmptyPolicy:   EmptyClear,
		DefaultQuery:  getEnvOrDefault("DEFAULT_QUERY", DefaultQuery),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}

	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("invalid CACHE_TTL_SECONDS %q", v)
		}
		cfg.CacheTTL = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if v := os.Getenv("DEBOUNCE_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEBOUNCE_MS %q: %w", v, err)
		}
		cfg.DebounceDelay = ClampDebounce(time.Duration(ms) * time.Millisecond)
	}

	if v := os.Getenv("EMPTY_QUERY_POLICY"); v != "" {
		policy, err := ParseEmptyQueryPolicy(v)
		if err != nil {
			return Config{}, err
		}
		cfg.EmptyPolicy = policy
	}

	return cfg, nil
}

// ParseEmptyQueryPolicy accepts "clear" or "default"
func ParseEmptyQueryPolicy(s string) (EmptyQueryPolicy, error) {
	switch p := EmptyQueryPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case EmptyClear, EmptyDefault:
		return p, nil
	}
	return "", fmt.Errorf("invalid empty query policy %q (want %q or %q)", s, EmptyClear, EmptyDefault)
}

// ClampDebounce keeps d within [MinDebounceDelay, MaxDebounceDelay]
func ClampDebounce(d time.Duration) time.Duration {
	if d < MinDebounceDelay {
		return MinDebounceDelay
	}
	if d > MaxDebounceDelay {
		return MaxDebounceDelay
	}
	return d
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
