package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultStartingBudget = 625
	DefaultPatch          = "7.39d"
	DefaultMaxImageBytes  = 8 * 1024 * 1024
)

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	CORSAllowOrigin    []string
	LLMProvider        string
	LLMModel           string
	LLMReasoningEffort string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAITimeout      time.Duration
	RequestTimeout     time.Duration
	StartingBudget     int
	CurrentPatch       string
	ItemCatalogPath    string
	MaxImageBytes      int64
	RateLimitRPS       float64
	RateLimitBurst     int
	DatabaseURL        string
	AuditMemory        bool
	TracingEnabled     bool
	TracingEndpoint    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	apiKey := os.Getenv("OPENAI_API_KEY")
	provider := normalizeProvider(getEnv("LLM_PROVIDER", "openai"))

	if env == "production" && provider == "openai" && apiKey == "" {
		log.Printf("OPENAI_API_KEY is required in production")
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", getEnv("ALLOWED_ORIGIN", "http://localhost:5173"))),
		LLMProvider:        provider,
		LLMModel:           getEnv("LLM_MODEL", getEnv("OPENAI_MODEL", "gpt-5")),
		LLMReasoningEffort: strings.ToLower(strings.TrimSpace(getEnv("LLM_REASONING_EFFORT", "minimal"))),
		OpenAIAPIKey:       apiKey,
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		OpenAITimeout:      getSeconds("OPENAI_TIMEOUT_SECONDS", 60*time.Second),
		RequestTimeout:     getSeconds("REQUEST_TIMEOUT_SECONDS", 90*time.Second),
		StartingBudget:     getInt("STARTING_BUDGET", DefaultStartingBudget),
		CurrentPatch:       getEnv("CURRENT_PATCH", DefaultPatch),
		ItemCatalogPath:    getEnv("ITEM_CATALOG_PATH", ""),
		MaxImageBytes:      int64(getInt("MAX_IMAGE_BYTES", DefaultMaxImageBytes)),
		RateLimitRPS:       getFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 5),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		AuditMemory:        getBool("AUDIT_MEMORY"),
		TracingEnabled:     getBool("OTEL_TRACES_ENABLED"),
		TracingEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// IsDevLike reports whether env is a local development environment.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getBool(key string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), "true")
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid number %q, using %v", key, raw, def)
		return def
	}
	return val
}

func getSeconds(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return time.Duration(parsed) * time.Second
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "placeholder", "none":
		return "placeholder"
	default:
		return "openai"
	}
}
