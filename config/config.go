package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Postgres    PostgresConfig
	HTTP        HTTPConfig
	Render      RenderConfig
	Log         LogConfig
	StorageType string `validate:"oneof=memory postgres"`
	// SeedFile is a YAML list of posts. Empty means the built-in seed.
	SeedFile string
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type HTTPConfig struct {
	Port      string `validate:"required,numeric"`
	AssetsDir string
}

type RenderConfig struct {
	Title         string
	ContainerID   string `validate:"required"`
	SearchInput   bool
	StaggerMillis int    `validate:"min=0"`
	Locale        string `validate:"required,bcp47_language_tag"`
}

type LogConfig struct {
	Level  string `validate:"omitempty,oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
}

func LoadConfig() Config {
	storageType := getEnv("STORAGE_TYPE", StorageMemory)

	cfg := Config{
		StorageType: storageType,
		SeedFile:    os.Getenv("SEED_FILE"),
		HTTP: HTTPConfig{
			Port:      getEnv("HTTP_PORT", "8080"),
			AssetsDir: os.Getenv("HTTP_ASSETS_DIR"),
		},
		Render: RenderConfig{
			Title:         getEnv("RENDER_TITLE", "Blog"),
			ContainerID:   getEnv("RENDER_CONTAINER", "blogGrid"),
			SearchInput:   getBool("RENDER_SEARCH_INPUT", false),
			StaggerMillis: getInt("RENDER_STAGGER_MS", 100),
			Locale:        getEnv("RENDER_LOCALE", "en"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if storageType == StoragePostgres {
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv("POSTGRES_USER"),
			Password: mustGetEnv("POSTGRES_PASSWORD"),
			DB:       mustGetEnv("POSTGRES_DB"),
			Host:     mustGetEnv("POSTGRES_HOST"),
			Port:     mustGetInt("POSTGRES_PORT"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		}
	}

	return cfg
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	if os.Getenv(key) == "" {
		return def
	}
	return mustGetInt(key)
}

func getBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		panic("invalid bool for env var " + key + ": " + val)
	}
	return b
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(key string) int {
	val := mustGetEnv(key)
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}
