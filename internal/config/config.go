package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Preference persistence backends.
const (
	BackendMongo = "mongo"
	BackendRedis = "redis"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	AppEnv               string
	Addr                 string
	MongoURI             string
	MongoDatabase        string
	SurveyCollection     string
	StopCollection       string
	PreferenceCollection string
	ResponseCollection   string
	CounterCollection    string
	Timeout              time.Duration
	PreferenceBackend    string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RedisKeyPrefix       string
	RLEnabled            bool
	RLLimit              int
	RLWindow             time.Duration
	JWTConfigs           []JWTConfig
	JWTAudience          string
	AllowedOrigins       []string
	LogLevel             string
}

// Load reads .env (when present) and environment variables and returns a fully populated Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	timeout := getDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second)

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_ADMIN_JWT_ISSUER", "transit-survey-admin"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		return Config{}, fmt.Errorf("JWT secret not configured: set AUTH_ADMIN_JWT_SECRET")
	}

	backend := strings.ToLower(envOrDefault("PREFERENCE_BACKEND", BackendMongo))
	if backend != BackendMongo && backend != BackendRedis {
		return Config{}, fmt.Errorf("invalid PREFERENCE_BACKEND %q: want %q or %q", backend, BackendMongo, BackendRedis)
	}

	rlEnabled, err := getBool("RL_ENABLED", true)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:               envOrDefault("APP_ENV", "dev"),
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        envOrDefault("MONGO_DB", "transit-survey"),
		SurveyCollection:     envOrDefault("SURVEY_COLLECTION", "surveys"),
		StopCollection:       envOrDefault("STOP_COLLECTION", "stops"),
		PreferenceCollection: envOrDefault("PREFERENCE_COLLECTION", "survey_preferences"),
		ResponseCollection:   envOrDefault("RESPONSE_COLLECTION", "survey_responses"),
		CounterCollection:    envOrDefault("COUNTER_COLLECTION", "counters"),
		Timeout:              timeout,
		PreferenceBackend:    backend,
		RedisAddr:            envOrDefault("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:        strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		RedisDB:              getInt("REDIS_DB", 0),
		RedisKeyPrefix:       envOrDefault("REDIS_KEY_PREFIX", "survey:prefs:"),
		RLEnabled:            rlEnabled,
		RLLimit:              getInt("RL_REQUESTS_LIMIT", 120),
		RLWindow:             time.Duration(getInt("RL_WINDOW_SECONDS", 60)) * time.Second,
		JWTConfigs:           jwtConfigs,
		JWTAudience:          strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		AllowedOrigins:       parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:             envOrDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean env %s=%q", key, v)
	}
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
