package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr        string `env:"SERVER_ADDR,notEmpty"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	OpenAICfg      OpenAIConfig      `envPrefix:"OPENAI_"`
	VectorStoreCfg VectorStoreConfig `envPrefix:"WEAVIATE_"`

	// Auth provider session configuration
	AuthCfg AuthConfig `envPrefix:"AUTH_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

// OpenAIConfig holds chat completion and embedding model settings
type OpenAIConfig struct {
	APIKey         string `env:"API_KEY"`
	ChatModel      string `env:"CHAT_MODEL" envDefault:"gpt-3.5-turbo"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-ada-002"`
}

// VectorStoreConfig holds the Weaviate connection and index settings.
// Class is the single logical index; per-file namespaces live inside it.
type VectorStoreConfig struct {
	URL    string `env:"URL"`
	APIKey string `env:"API_KEY"`
	Class  string `env:"CLASS" envDefault:"Quill"`
}

// AuthConfig holds the session cookie settings
type AuthConfig struct {
	SessionSecret string `env:"SESSION_SECRET"`
	CookieName    string `env:"COOKIE_NAME" envDefault:"quill_session"`
	MockUserID    string `env:"MOCK_USER_ID"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	// With mocks enabled all external credentials are optional
	if cfg.EnableMocks {
		return nil
	}

	if cfg.OpenAICfg.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set when mocks are disabled")
	}

	if cfg.VectorStoreCfg.URL == "" {
		return fmt.Errorf("WEAVIATE_URL must be set when mocks are disabled")
	}

	if cfg.AuthCfg.SessionSecret == "" {
		return fmt.Errorf("AUTH_SESSION_SECRET must be set when mocks are disabled")
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
