package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env            string        `env:"APP_ENV" env-default:"development"`
		Port           int           `env:"APP_PORT" env-default:"8080"`
		SentryUrl      string        `env:"SENTRY_URL"`
		CommandTimeout time.Duration `env:"APP_COMMAND_TIMEOUT" env-default:"30s"`
	}
	Postgres struct {
		Port     int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
		User     string `env:"POSTGRES_USER"`
		Pass     string `env:"POSTGRES_PASS"`
		Name     string `env:"POSTGRES_NAME"`
		SslMode  string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
		MaxConns int32  `env:"POSTGRES_MAX_CONNS" env-default:"10"`
	}
	Redis struct {
		Addr     string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
		Pass     string        `env:"REDIS_PASS"`
		DB       int           `env:"REDIS_DB" env-default:"0"`
		TTL      time.Duration `env:"REDIS_PROFILE_TTL" env-default:"1h"`
		Disabled bool          `env:"REDIS_DISABLED" env-default:"false"`
	}
	Telegram struct {
		User    int64  `env:"TELEGRAM_USER"`
		Token   string `env:"TELEGRAM_TOKEN"`
		Timeout int    `env:"TELEGRAM_UPDATE_TIMEOUT" env-default:"60"`
	}
	Auth struct {
		JWTSecret   string        `env:"AUTH_JWT_SECRET"`
		Issuer      string        `env:"AUTH_JWT_ISSUER" env-default:"elixir"`
		TokenTTL    time.Duration `env:"AUTH_TOKEN_TTL" env-default:"168h"`
		SessionPath string        `env:"AUTH_SESSION_PATH" env-default:"./elixir-session"`
		BcryptCost  int           `env:"AUTH_BCRYPT_COST" env-default:"12"`
	}
	Storage struct {
		Bucket         string `env:"STORAGE_BUCKET" env-default:"taskimages"`
		PublicBaseURL  string `env:"STORAGE_PUBLIC_BASE_URL" env-default:"http://localhost:8080"`
		MaxUploadBytes int64  `env:"STORAGE_MAX_UPLOAD_BYTES" env-default:"10485760"`
	}
	Feed struct {
		PageSize int `env:"FEED_PAGE_SIZE" env-default:"10"`
	}
	Janitor struct {
		Retention time.Duration `env:"JANITOR_RETENTION" env-default:"24h"`
		Hour      uint          `env:"JANITOR_HOUR" env-default:"3"`
		Timezone  string        `env:"JANITOR_TIMEZONE" env-default:"UTC"`
	}
	RateLimit struct {
		Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"1"`
		Per      time.Duration `env:"RATE_LIMIT_PER" env-default:"2s"`
		Burst    int           `env:"RATE_LIMIT_BURST" env-default:"5"`
	}
}

// GetDSN returns the lib/pq style connection string used by goose.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// GetURL returns the postgres:// connection string used by pgxpool.
func (c *Config) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
