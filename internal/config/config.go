package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable with DESK_STORE.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout enforced by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store   string // "sqlite" | "redis" | "memory"
	DataDir string // directory holding desk.db when Store=sqlite

	ViewportHeight int // desktop height assumed when the server places icons (default: 600 = 8 small rows)

	SeedFile     string        // optional Homepage services.yaml merged into the desktop
	SeedInterval time.Duration // interval to re-merge the seed file (default: 24h)

	BackupDir      string        // optional directory for periodic JSON exports
	BackupInterval time.Duration // interval between exports (default: 1h)
	BackupKeep     int           // number of exports kept (default: 10)

	// Redis (only when Store=redis)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // optional, origins allowed to call /api/config from a browser ("*" for any)

	RateLimitBurst  int // PUT /api/config burst per client IP
	RateLimitPerMin int // PUT /api/config sustained rate per client IP
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("DESK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("DESK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("DESK_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("DESK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DESK_PRETTY_LOG", true),

		// Storage
		Store:   mustOneOf("DESK_STORE", StoreSQLite, StoreSQLite, StoreRedis, StoreMemory),
		DataDir: getenv("DESK_DATA_DIR", "/data"),

		// Layout
		ViewportHeight: getenvInt("DESK_VIEWPORT_HEIGHT", 600),

		// Seed & backups
		SeedFile:       getenv("DESK_SEED_FILE", ""),
		SeedInterval:   mustDuration("DESK_SEED_INTERVAL", 24*time.Hour),
		BackupDir:      getenv("DESK_BACKUP_DIR", ""),
		BackupInterval: mustDuration("DESK_BACKUP_INTERVAL", time.Hour),
		BackupKeep:     getenvInt("DESK_BACKUP_KEEP", 10),

		// Redis settings
		RedisAddr:           getenv("DESK_REDIS_ADDR", "localhost:6379"),
		RedisUser:           getenv("DESK_REDIS_USERNAME", ""),
		RedisPassword:       getenv("DESK_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("DESK_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("DESK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("DESK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("DESK_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("DESK_CORS_ORIGINS", "")),

		RateLimitBurst:  getenvInt("DESK_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("DESK_RATE_LIMIT_PER_MIN", 120),
	}

	if cfg.ViewportHeight <= 0 {
		panic(fmt.Sprintf("❌ FATAL: DESK_VIEWPORT_HEIGHT must be > 0, got %d", cfg.ViewportHeight))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// mustOneOf returns the value of key, def when unset, and panics when the
// value is not in allowed.
func mustOneOf(key, def string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(getenv(key, def)))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	panic(fmt.Sprintf("❌ FATAL: %s must be one of %s, got %q", key, strings.Join(allowed, "|"), v))
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
