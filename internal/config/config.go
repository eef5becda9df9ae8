// Package config загружает конфигурацию сервисов news и notes из YAML и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config — корневая конфигурация.
// Приоритет источников:
//  1. явный путь (флаг -config);
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml;
//  4. только переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP     HTTPConfig    `yaml:"http"`
	Storage  StorageConfig `yaml:"storage"`
	Auth     AuthConfig    `yaml:"auth"`
	News     NewsConfig    `yaml:"news"`
	Notes    NotesConfig   `yaml:"notes"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig — адрес HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// StorageConfig — выбор хранилища и строка подключения.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn" env:"DATABASE_URL" env-default:"file:news_notes.db"`
}

// AuthConfig — параметры сессионных токенов.
type AuthConfig struct {
	Secret     string        `yaml:"secret" env:"AUTH_SECRET"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env:"AUTH_COOKIE_NAME" env-default:"session"`
	Issuer     string        `yaml:"issuer" env:"AUTH_ISSUER" env-default:"news_notes"`
}

// NewsConfig — настройки новостного сайта.
type NewsConfig struct {
	// Количество новостей на главной странице.
	HomePageCount int `yaml:"home_page_count" env:"NEWS_COUNT_ON_HOME_PAGE" env-default:"10"`
	// Запрещённые слова в комментариях.
	BannedWords []string `yaml:"banned_words" env:"BANNED_WORDS" env-separator:"," env-default:"редиска,негодяй"`
	// По умолчанию сравнение чувствительно к регистру.
	BannedCaseInsensitive bool `yaml:"banned_case_insensitive" env:"BANNED_CASE_INSENSITIVE" env-default:"false"`
	// RSS-ленты для импорта новостей; пустой список отключает импорт.
	RSSFeeds     []string      `yaml:"rss_feeds" env:"RSS_FEEDS" env-separator:","`
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL" env-default:"5m"`
}

// NotesConfig — настройки заметок.
type NotesConfig struct {
	SlugMaxLength int `yaml:"slug_max_length" env:"SLUG_MAX_LENGTH" env-default:"100"`
}

// TimeoutConfig — таймауты обработки запроса и остановки.
type TimeoutConfig struct {
	Request  time.Duration `yaml:"request" env:"REQUEST_TIMEOUT" env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load читает конфигурацию по приоритету источников и проверяет её.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if _, err := os.Stat("local.yaml"); err == nil {
			path = "local.yaml"
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения конфигурации.
func (cfg *Config) Validate() error {
	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", cfg.Env)
	}

	if cfg.HTTP.Port == "" {
		return errors.New("http.port is required")
	}

	switch cfg.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.DSN == "" {
		return errors.New("storage.dsn is required")
	}

	if len(cfg.Auth.Secret) < 16 {
		return errors.New("auth.secret must be at least 16 characters")
	}
	if cfg.Auth.TokenTTL < time.Minute {
		return errors.New("auth.token_ttl must be at least 1m")
	}
	if cfg.Auth.CookieName == "" {
		return errors.New("auth.cookie_name is required")
	}

	if cfg.News.HomePageCount < 1 || cfg.News.HomePageCount > 100 {
		return errors.New("news.home_page_count must be within 1..100")
	}
	for _, w := range cfg.News.BannedWords {
		if strings.TrimSpace(w) == "" {
			return errors.New("news.banned_words must not contain empty words")
		}
	}
	for _, u := range cfg.News.RSSFeeds {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("invalid RSS URL: %s", u)
		}
	}
	if len(cfg.News.RSSFeeds) > 0 && cfg.News.PollInterval < 5*time.Second {
		return errors.New("poll interval must be ≥ 5 seconds")
	}

	if cfg.Notes.SlugMaxLength < 1 || cfg.Notes.SlugMaxLength > 255 {
		return errors.New("notes.slug_max_length must be within 1..255")
	}

	if cfg.Timeouts.Request <= 0 {
		return errors.New("timeouts.request must be > 0")
	}
	return nil
}
