package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        `validate:"required"` // ex: ":8080"
	ShutdownTimeout time.Duration `validate:"gt=0"`     // ex: 5s

	LogLevel  string `validate:"oneof=debug info warn error"`
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)
	LogFile   string // optional, rotated with lumberjack

	PersonalizerEndpoint string        `validate:"required"`      // personalization service address, placeholder until configured
	ConditionsFile       string        `validate:"required"`      // path to conditions.yaml
	DefaultWeather       string        `validate:"required"`      // weather used when no location is given (ex: Sunny)
	Timezone             string        `validate:"required"`      // IANA zone used to derive the day of week (ex: Europe/Paris)
	ReloadInterval       time.Duration `validate:"gt=0"`          // interval to reload conditions.yaml (default: 1h)
	GCInterval           time.Duration `validate:"gt=0"`          // interval to run garbage collection (default: 24h)
	MaxCandidates        int           `validate:"gte=0"`         // max number of location candidates considered (0 = no limit)
	RateLimitBurst       int           `validate:"gte=1"`         // requests allowed in a burst per client IP
	RateLimitPerMin      int           `validate:"gte=1"`         // refill rate per client IP per minute
	AllowedHosts         []string      `validate:"dive,required"` // optional, restrict access to specific Host headers

	// Redis, disabled when RedisAddr is empty
	RedisAddr             string        `validate:"omitempty,hostname_port"` // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           `validate:"gte=0"`
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration `validate:"gt=0"` // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration `validate:"gt=0"` // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           `validate:"gte=1"`
	RedisConnectTimeout   time.Duration `validate:"gt=0"` // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration `validate:"gt=0"` // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           `validate:"gte=0"`

	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// Load reads the configuration from the environment, after merging an
// optional .env file. It panics on missing or invalid settings.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] failed to load .env: %v", err)
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("RLF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("RLF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("RLF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("RLF_PRETTY_LOG", true),
		LogFile:   getenv("RLF_LOG_FILE", ""),

		// Feature records
		PersonalizerEndpoint: getenv("RLF_PERSONALIZER_ENDPOINT", "<Personalizer Azure Service Endpoint>"),
		ConditionsFile:       getenv("RLF_CONDITIONS_FILE", "/app/conditions.yaml"),
		DefaultWeather:       getenv("RLF_DEFAULT_WEATHER", "Sunny"),
		Timezone:             getenv("RLF_TIMEZONE", "UTC"),
		ReloadInterval:       mustDuration("RLF_RELOAD_INTERVAL", time.Hour),
		GCInterval:           mustDuration("RLF_GC_INTERVAL", 24*time.Hour),
		MaxCandidates:        getenvInt("RLF_MAX_CANDIDATES", 3),
		RateLimitBurst:       getenvInt("RLF_RATE_LIMIT_BURST", 20),
		RateLimitPerMin:      getenvInt("RLF_RATE_LIMIT_PER_MIN", 120),

		// Redis settings
		RedisAddr:             getenv("RLF_REDIS_ADDR", ""),
		RedisUser:             getenv("RLF_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("RLF_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("RLF_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("RLF_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("RLF_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("RLF_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("RLF_TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: invalid configuration: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.RedisEnabled() && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("RLF_REDIS_PASSWORD is required when RLF_REDIS_PASSWORD_REQUIRED=true")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("RLF_TIMEZONE: %w", err)
	}
	return nil
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cfgCopy := *c
	cfgCopy.RedisPassword = "***REDACTED***"
	if c.RedisUser != "" {
		cfgCopy.RedisUser = "***REDACTED***"
	}
	return cfgCopy
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
