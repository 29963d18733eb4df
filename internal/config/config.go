package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	OpenAI    OpenAIConfig
	Messaging MessagingConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	SyncLogFilePath    string
	CorsAllowedOrigins string
	CheckMigrations    bool
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret          string
	CsrfSecret         string
	SessionCookieName  string
	CsrfCookieName     string
	CsrfHeaderName     string
	SessionTTL         time.Duration
	CsrfTTL            time.Duration
	CookieSecure       bool
	CookieSameSite     string
	InternalAudioToken string
}

type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      time.Duration
}

type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	RegistryPath string
}

type MessagingConfig struct {
	NatsURL    string
	RedisURL   string
	EventTopic string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			SyncLogFilePath:    getEnv("SYNC_LOG_FILE_PATH", "logs/sync.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"),
			CheckMigrations:    getEnvAsBool("CHECK_MIGRATIONS", true),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:          getEnv("JWT_SECRET", "change-me"),
			CsrfSecret:         getEnv("CSRF_SECRET", "change-me-too"),
			SessionCookieName:  getEnv("SESSION_COOKIE_NAME", "session"),
			CsrfCookieName:     getEnv("CSRF_COOKIE_NAME", "csrf_token"),
			CsrfHeaderName:     getEnv("CSRF_HEADER_NAME", "X-CSRF-Token"),
			SessionTTL:         getEnvAsDuration("ACCESS_TOKEN_TTL", 7*24*time.Hour),
			CsrfTTL:            getEnvAsDuration("CSRF_TOKEN_TTL", 2*time.Hour),
			CookieSecure:       getEnvAsBool("SESSION_COOKIE_SECURE", false),
			CookieSameSite:     getEnv("SESSION_COOKIE_SAMESITE", "Lax"),
			InternalAudioToken: getEnv("INTERNAL_TOKEN", ""),
		},
		Storage: StorageConfig{
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			Region:          getEnv("AWS_S3_REGION", "us-east-1"),
			Endpoint:        getEnv("AWS_S3_ENDPOINT_URL", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			PresignTTL:      getEnvAsDuration("AWS_S3_PRESIGN_TTL", 15*time.Minute),
		},
		OpenAI: OpenAIConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			BaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Timeout:      getEnvAsDuration("OPENAI_TIMEOUT", 120*time.Second),
			RegistryPath: getEnv("AI_REGISTRY_PATH", "config/ai_models.toml"),
		},
		Messaging: MessagingConfig{
			NatsURL:    getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
			EventTopic: getEnv("EVENT_TOPIC_NAME", "studyhub.domain_events"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "ai-web-backend"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("15m") or plain seconds ("900").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs := getEnvAsInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
