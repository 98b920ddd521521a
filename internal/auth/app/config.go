package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/reelbase/reelbase/internal/auth/service"
)

type Config struct {
	Issuer   string   `env:"AUTH_ISSUER" envDefault:"reelbase-auth"`
	Audience []string `env:"AUTH_AUDIENCE" envDefault:"reelbase"`

	// Symmetric key for access token signing. Must be at least 32 bytes.
	AccessTokenKID    string `env:"AUTH_ACCESS_TOKEN_KID" envDefault:"primary"`
	AccessTokenSecret string `env:"AUTH_ACCESS_TOKEN_SECRET,required"`

	AccessTTL  time.Duration `env:"AUTH_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"720h"`
	OTPTTL     time.Duration `env:"AUTH_OTP_TTL" envDefault:"5m"`

	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`
	PepperFile   string `env:"AUTH_PEPPER_FILE" envDefault:"pepper"`

	// Optional: when set, OTP entries live in Redis instead of SQLite.
	RedisAddr string `env:"AUTH_REDIS_ADDR"`

	// SMTP delivery for OTP mail. When Host is empty, codes are logged
	// instead of sent, which is only useful for local development.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@reelbase.local"`

	// JSON object keyed by provider slug, see service.ProviderConfig.
	ProvidersJSON string `env:"AUTH_PROVIDERS"`

	FrontendRedirectURL string `env:"AUTH_FRONTEND_REDIRECT_URL"`
	CookieSecure        bool   `env:"AUTH_COOKIE_SECURE" envDefault:"true"`

	Env                  string        `env:"ENV" envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                 int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	Providers map[string]service.ProviderConfig `env:"-"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.ProvidersJSON != "" {
		if err := json.Unmarshal([]byte(cfg.ProvidersJSON), &cfg.Providers); err != nil {
			return Config{}, fmt.Errorf("failed to parse AUTH_PROVIDERS: %w", err)
		}
	}

	return cfg, nil
}
