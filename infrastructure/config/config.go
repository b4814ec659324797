package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Dataset
	DataPath       string `yaml:"data_path"`
	DataSheet      string `yaml:"data_sheet"`
	DefaultCountry string `yaml:"default_country"`

	// Lambda configuration
	IsLambda           bool   `yaml:"is_lambda"`
	LambdaFunctionName string `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Caching
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	// Tracing
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	// CORS
	AllowedOrigins []string `yaml:"allowed_origins"`

	// RenderRateLimit caps PNG renders per client per minute; zero disables it
	RenderRateLimit int `yaml:"render_rate_limit"`

	// Feature flags
	EnableCache   bool `yaml:"enable_cache"`
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`

	// ConfigFile is the YAML overlay this configuration was read from, if any.
	ConfigFile string `yaml:"-"`
}

// LoadConfig loads configuration from the optional CONFIG_FILE overlay and then
// environment variables, which take precedence.
func LoadConfig() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom loads defaults, then the YAML file at path (skipped when empty), then
// environment variables.
func LoadFrom(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}

	applyEnv(cfg)

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:   ":8080",
		Environment:     "development",
		DataPath:        "GDP-clean.csv",
		DefaultCountry:  "PHL",
		LogLevel:        "info",
		CacheTTLSeconds: 300,
		AllowedOrigins:  []string{"*"},
		RenderRateLimit: 60,
		EnableCache:     true,
		EnableMetrics:   true,
		EnableTracing:   false,
		EnableCORS:      true,
	}
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays environment variables; unset variables keep the current value.
func applyEnv(cfg *Config) {
	addr := cfg.ServerAddress
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	cfg.ServerAddress = getEnv("SERVER_ADDRESS", addr)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)

	cfg.DataPath = getEnv("DATA_PATH", cfg.DataPath)
	cfg.DataSheet = getEnv("DATA_SHEET", cfg.DataSheet)
	cfg.DefaultCountry = strings.ToUpper(getEnv("DEFAULT_COUNTRY", cfg.DefaultCountry))

	// Lambda configuration
	cfg.IsLambda = getEnvBool("IS_LAMBDA", cfg.IsLambda)
	cfg.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", "")

	// Logging and features
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.CacheTTLSeconds = getEnvInt("CACHE_TTL_SECONDS", cfg.CacheTTLSeconds)
	cfg.OTLPEndpoint = getEnv("OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.AllowedOrigins = getEnvList("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.RenderRateLimit = getEnvInt("RENDER_RATE_LIMIT", cfg.RenderRateLimit)
	cfg.EnableCache = getEnvBool("ENABLE_CACHE", cfg.EnableCache)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableTracing = getEnvBool("ENABLE_TRACING", cfg.EnableTracing)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("DATA_PATH is required")
	}
	if c.DefaultCountry == "" {
		return fmt.Errorf("DEFAULT_COUNTRY is required")
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must not be negative, got %d", c.CacheTTLSeconds)
	}
	if c.RenderRateLimit < 0 {
		return fmt.Errorf("RENDER_RATE_LIMIT must not be negative, got %d", c.RenderRateLimit)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated environment variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
