package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"30"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Backend struct {
		BaseURL        string `env:"BASE_URL" envDefault:"https://api.smenube.ru"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"15"`
		OAuthProvider  string `env:"OAUTH_PROVIDER" envDefault:"yandex"`
		// origin the browser uses for OAuth navigation, e.g. "/__api"; empty means BaseURL
		PublicURL      string `env:"PUBLIC_URL"`
	} `envPrefix:"BACKEND_"`
	Upload struct {
		MaxPhotos   int   `env:"MAX_PHOTOS" envDefault:"3"`
		MaxFileSize int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"` // 10 MiB
	} `envPrefix:"UPLOAD_"`
	Suggest struct {
		Debounce int `env:"DEBOUNCE" envDefault:"300"` // ms
	} `envPrefix:"SUGGEST_"`
	Draft struct {
		Expiration  int `env:"EXPIRATION" envDefault:"86400"` // 1 day
		BusyTimeout int `env:"BUSY_TIMEOUT" envDefault:"30"`
	} `envPrefix:"DRAFT_"`
	JWT struct {
		Secret string `env:"SECRET,required,notEmpty"`
	} `envPrefix:"JWT_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	Seed struct {
		SessionCookie string `env:"SESSION_COOKIE"`
		Objects       int    `env:"OBJECTS" envDefault:"3"`
		Days          int    `env:"DAYS" envDefault:"7"`
	} `envPrefix:"SEED_"`
}

// LoadConfig reads the environment. A .env file in the working directory is
// loaded first when present; variables already set win over it.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else {
		slog.Info("loaded .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only the first error keeps the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")
	cfg.Backend.PublicURL = strings.TrimRight(cfg.Backend.PublicURL, "/")
	if cfg.Backend.PublicURL == "" {
		cfg.Backend.PublicURL = cfg.Backend.BaseURL
	}

	return cfg, nil
}
