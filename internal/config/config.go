package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration for both the portal client and the
// slot API service.
type Config struct {
	Env       string
	LogLevel  string
	LogFormat string

	// Portal (client) settings.
	APIBaseURL      string
	HTTPTimeout     time.Duration
	PrefsBackend    string
	PrefsPath       string
	PrefsWriteQuiet time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisTLS        bool

	// Slot service settings.
	Port               string
	SlotsTableName     string
	UseMemoryRepo      bool
	CORSAllowedOrigins []string
	SlotsCacheEnabled  bool
	SlotsCacheTTL      time.Duration

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; a missing file is not an
// error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		APIBaseURL:      strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 20*time.Second),
		PrefsBackend:    strings.ToLower(getEnv("PREFS_BACKEND", "file")),
		PrefsPath:       getEnv("PREFS_PATH", defaultPrefsPath()),
		PrefsWriteQuiet: getEnvAsDuration("PREFS_WRITE_QUIET", 300*time.Millisecond),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisTLS:        getEnvAsBool("REDIS_TLS", false),

		Port:               getEnv("PORT", "8080"),
		SlotsTableName:     getEnv("SLOTS_TABLE_NAME", "Appointments"),
		UseMemoryRepo:      getEnvAsBool("USE_MEMORY_REPO", false),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SlotsCacheEnabled:  getEnvAsBool("SLOTS_CACHE_ENABLED", false),
		SlotsCacheTTL:      getEnvAsDuration("SLOTS_CACHE_TTL", 60*time.Second),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

func defaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".booking-portal.json"
	}
	return home + string(os.PathSeparator) + ".booking-portal.json"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
