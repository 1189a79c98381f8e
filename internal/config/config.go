package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bridge.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Redis    RedisConfig
	Intercom IntercomConfig
	Twilio   TwilioConfig
	Phone    PhoneConfig
	Dedup    DedupConfig
	Notify   NotifyConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// RedisConfig holds Redis connection values. An empty Addr disables the
// inbound dedup guard entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// IntercomConfig holds credentials and knobs for the support-platform client.
type IntercomConfig struct {
	Token        string
	BaseURL      string
	PageSize     int
	LogoURL      string
	LogoFilename string
}

// TwilioConfig holds credentials for the SMS provider client.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
}

// PhoneConfig fixes the region phone numbers are parsed against.
type PhoneConfig struct {
	Region string
}

// DedupConfig controls the optional idempotency window for inbound SMS.
type DedupConfig struct {
	WindowSeconds int
}

// NotifyConfig holds the optional ops webhook endpoint.
type NotifyConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where
// possible and rejecting a startup without provider credentials.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var missing []string
	for _, key := range []string{"INTERCOM_TOKEN", "TWILIO_SID", "TWILIO_TOKEN", "TWILIO_NUMBER"} {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required env vars missing: %s", strings.Join(missing, ", "))
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	logoURL := getEnv("INTERCOM_LOGO_URL", "https://static.example.com/logo.png")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "sms-bridge"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Intercom: IntercomConfig{
			Token:        os.Getenv("INTERCOM_TOKEN"),
			BaseURL:      getEnv("INTERCOM_BASE_URL", "https://api.intercom.io"),
			PageSize:     getEnvAsInt("INTERCOM_PAGE_SIZE", 50),
			LogoURL:      logoURL,
			LogoFilename: getEnv("INTERCOM_LOGO_FILENAME", filenameFromURL(logoURL)),
		},
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_SID"),
			AuthToken:  os.Getenv("TWILIO_TOKEN"),
			FromNumber: os.Getenv("TWILIO_NUMBER"),
			BaseURL:    getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		},
		Phone: PhoneConfig{
			Region: getEnv("PHONE_REGION", "US"),
		},
		Dedup: DedupConfig{
			WindowSeconds: getEnvAsInt("SMS_DEDUP_WINDOW_SECONDS", 0),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Window returns the dedup window duration; zero disables the guard.
func (d DedupConfig) Window() time.Duration {
	if d.WindowSeconds <= 0 {
		return 0
	}
	return time.Duration(d.WindowSeconds) * time.Second
}

func filenameFromURL(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
