package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPageDisplaySize là số address hiển thị trên một display page
	DefaultPageDisplaySize = 16
	// DefaultFetchSize là số address lấy về trong một lần gọi catalog API
	DefaultFetchSize = 48

	BackendAPI      = "api"
	BackendPostgres = "postgres"

	GeneratorAPI   = "api"
	GeneratorGenAI = "genai"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App        AppConfig
	CatalogAPI CatalogAPIConfig
	Backend    BackendConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Pagination PaginationConfig
	Generation GenerationConfig
	Tags       TagsConfig
	Settings   SettingsConfig
	Session    SessionConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type CatalogAPIConfig struct {
	BaseURL string        // https://catalog.example.com/api
	Timeout time.Duration // transport timeout, no retries on top
	// ServiceToken dùng cho các call nền (warm tag cache) không có operator token
	ServiceToken string
}

// BackendConfig chọn nơi đọc/ghi address và generator dùng cho LLM
type BackendConfig struct {
	Catalog   string // api | postgres
	Generator string // api | genai
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
	// AllowedOperators giới hạn id/email được vào console; rỗng = mọi token hợp lệ
	AllowedOperators []string
}

type PaginationConfig struct {
	DisplaySize int
	FetchSize   int
}

type GenerationConfig struct {
	DefaultModel    string
	DefaultEffort   string // low, medium, high
	DefaultCount    int
	MaxCount        int
	GeminiAPIKey    string
	RequestsPerMin  float64
	BurstPerSession int
}

type TagsConfig struct {
	CacheTTL        time.Duration
	RefreshInterval time.Duration
	Languages       []string
}

type SettingsConfig struct {
	DefaultLanguage string
	DefaultTheme    string
	FlushDelay      time.Duration
}

// SessionConfig điều khiển vòng đời page cache của operator
type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

type RateLimitConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Address Console"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		CatalogAPI: CatalogAPIConfig{
			BaseURL:      strings.TrimRight(getEnv("CATALOG_API_URL", "http://localhost:9090/api"), "/"),
			Timeout:      getEnvDuration("CATALOG_API_TIMEOUT", 30*time.Second),
			ServiceToken: getEnv("CATALOG_SERVICE_TOKEN", ""),
		},
		Backend: BackendConfig{
			Catalog:   getEnv("CATALOG_BACKEND", BackendAPI),
			Generator: getEnv("GENERATOR_BACKEND", GeneratorAPI),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "catalog"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
			MinConns: getEnvInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Issuer:           getEnv("JWT_ISSUER", ""),
			AllowedOperators: getEnvList("ALLOWED_OPERATORS", nil),
		},
		Pagination: PaginationConfig{
			DisplaySize: getEnvInt("PAGE_DISPLAY_SIZE", DefaultPageDisplaySize),
			FetchSize:   getEnvInt("PAGE_FETCH_SIZE", DefaultFetchSize),
		},
		Generation: GenerationConfig{
			DefaultModel:    getEnv("GENERATION_MODEL", "gemini-2.5-flash"),
			DefaultEffort:   getEnv("GENERATION_EFFORT", "medium"),
			DefaultCount:    getEnvInt("GENERATION_COUNT", 5),
			MaxCount:        getEnvInt("GENERATION_MAX_COUNT", 20),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			RequestsPerMin:  float64(getEnvInt("GENERATION_PER_MINUTE", 6)),
			BurstPerSession: getEnvInt("GENERATION_BURST", 2),
		},
		Tags: TagsConfig{
			CacheTTL:        getEnvDuration("TAGS_CACHE_TTL", 10*time.Minute),
			RefreshInterval: getEnvDuration("TAGS_REFRESH_INTERVAL", 5*time.Minute),
			Languages:       getEnvList("TAGS_LANGUAGES", []string{"en"}),
		},
		Settings: SettingsConfig{
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
			DefaultTheme:    getEnv("DEFAULT_THEME", "light"),
			FlushDelay:      getEnvDuration("SETTINGS_FLUSH_DELAY", 500*time.Millisecond),
		},
		Session: SessionConfig{
			IdleTTL:       getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
			SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Pagination.DisplaySize < 1 {
		return fmt.Errorf("PAGE_DISPLAY_SIZE must be >= 1, got %d", c.Pagination.DisplaySize)
	}
	if c.Pagination.FetchSize < 1 {
		return fmt.Errorf("PAGE_FETCH_SIZE must be >= 1, got %d", c.Pagination.FetchSize)
	}

	switch c.Backend.Catalog {
	case BackendAPI:
		if c.CatalogAPI.BaseURL == "" {
			return fmt.Errorf("CATALOG_API_URL must be set when CATALOG_BACKEND=api")
		}
	case BackendPostgres:
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q", c.Backend.Catalog)
	}

	switch c.Backend.Generator {
	case GeneratorAPI:
		if c.Backend.Catalog != BackendAPI {
			return fmt.Errorf("GENERATOR_BACKEND=api requires CATALOG_BACKEND=api")
		}
	case GeneratorGenAI:
		if c.Generation.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY must be set when GENERATOR_BACKEND=genai")
		}
	default:
		return fmt.Errorf("unknown GENERATOR_BACKEND %q", c.Backend.Generator)
	}

	if c.Session.IdleTTL > 0 && c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0 when SESSION_IDLE_TTL is set")
	}

	if c.Generation.DefaultCount < 1 || c.Generation.DefaultCount > c.Generation.MaxCount {
		return fmt.Errorf("GENERATION_COUNT must be within [1, %d]", c.Generation.MaxCount)
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Backend.Catalog == BackendPostgres && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList đọc danh sách phân tách bằng dấu phẩy, bỏ phần tử rỗng
func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
