package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/mybestodds/mybestodds-go/internal/utils"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Telegram    TelegramConfig  `mapstructure:"telegram"`
	Scoring     ScoringConfig   `mapstructure:"scoring"`
	Overlay     OverlayConfig   `mapstructure:"overlay"`
	Export      ExportConfig    `mapstructure:"export"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Security    SecurityConfig  `mapstructure:"security"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	DatabaseURL     string `mapstructure:"database_url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TelegramConfig struct {
	BotToken   string `mapstructure:"bot_token"`
	WebhookURL string `mapstructure:"webhook_url"`
}

// ScoringConfig holds the confidence-scoring weights and thresholds. Weights
// do not need to sum to 1.0; the scorer normalizes internally. Band thresholds
// apply to the adjusted confidence and must decrease green >= yellow >= tan.
type ScoringConfig struct {
	PositionWeight  float64 `mapstructure:"position_weight"`
	DigitWeight     float64 `mapstructure:"digit_weight"`
	SumWeight       float64 `mapstructure:"sum_weight"`
	RecencyWeight   float64 `mapstructure:"recency_weight"`
	MaxOverlayDelta float64 `mapstructure:"max_overlay_delta"`
	GreenThreshold  float64 `mapstructure:"green_threshold"`
	YellowThreshold float64 `mapstructure:"yellow_threshold"`
	TanThreshold    float64 `mapstructure:"tan_threshold"`
	LookbackDays    int     `mapstructure:"lookback_days"`
	OddsSentinel    int     `mapstructure:"odds_sentinel"`
}

type OverlayConfig struct {
	Provider string `mapstructure:"provider"` // "ephemeris" or "fallback"
	CacheTTL string `mapstructure:"cache_ttl"`
}

type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Exporter     string `mapstructure:"exporter"` // "stdout" or "otlp"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type SecurityConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret" json:"-" yaml:"-"`
	JWTExpiry   string `mapstructure:"jwt_expiry"`
	BcryptCost  int    `mapstructure:"bcrypt_cost"`
	AdminAPIKey string `mapstructure:"admin_api_key" json:"-" yaml:"-"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("security.jwt_secret", "JWT_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind JWT_SECRET environment variable: %w", err)
	}
	if err := viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind TELEGRAM_BOT_TOKEN environment variable: %w", err)
	}
	if err := viper.BindEnv("security.admin_api_key", "ADMIN_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind ADMIN_API_KEY environment variable: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	environment := strings.ToLower(config.Environment)

	if environment != "development" && config.Security.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required in non-development environments")
	}

	if config.Security.JWTExpiry != "" {
		if _, err := time.ParseDuration(config.Security.JWTExpiry); err != nil {
			return nil, fmt.Errorf("invalid JWT expiry duration: %w", err)
		}
	}

	if config.Security.BcryptCost < bcrypt.MinCost || config.Security.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, config.Security.BcryptCost)
	}

	if err := config.Scoring.Validate(); err != nil {
		return nil, err
	}

	if config.Overlay.CacheTTL != "" {
		if _, err := time.ParseDuration(config.Overlay.CacheTTL); err != nil {
			return nil, fmt.Errorf("invalid overlay cache TTL: %w", err)
		}
	}

	config.Environment = environment

	return &config, nil
}

// Validate rejects structurally broken scoring configuration. This is the one
// error class that stops a run before any candidate is scored; dirty input
// data downstream only ever degrades per-row.
func (s ScoringConfig) Validate() error {
	weights := map[string]float64{
		"position_weight": s.PositionWeight,
		"digit_weight":    s.DigitWeight,
		"sum_weight":      s.SumWeight,
		"recency_weight":  s.RecencyWeight,
	}
	total := 0.0
	for name, w := range weights {
		if w < 0 {
			return utils.NewConfigurationErrorf("scoring weight %s must be non-negative, got %v", name, w)
		}
		total += w
	}
	if total <= 0 {
		return utils.NewConfigurationError("scoring weights must not all be zero")
	}
	if s.MaxOverlayDelta < 0 || s.MaxOverlayDelta > 1 {
		return utils.NewConfigurationErrorf("max_overlay_delta must be in [0,1], got %v", s.MaxOverlayDelta)
	}
	for name, th := range map[string]float64{
		"green_threshold":  s.GreenThreshold,
		"yellow_threshold": s.YellowThreshold,
		"tan_threshold":    s.TanThreshold,
	} {
		if th < 0 || th > 1 {
			return utils.NewConfigurationErrorf("%s must be in [0,1], got %v", name, th)
		}
	}
	if s.GreenThreshold < s.YellowThreshold || s.YellowThreshold < s.TanThreshold {
		return utils.NewConfigurationError("band thresholds must be ordered green >= yellow >= tan")
	}
	if s.LookbackDays < 0 {
		return utils.NewConfigurationErrorf("lookback_days must be non-negative, got %d", s.LookbackDays)
	}
	if s.OddsSentinel <= 0 {
		return utils.NewConfigurationErrorf("odds_sentinel must be positive, got %d", s.OddsSentinel)
	}
	return nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "mybestodds")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.database_url", "")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "300s")
	viper.SetDefault("database.conn_max_idle_time", "60s")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Telegram
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.webhook_url", "")

	// Scoring
	viper.SetDefault("scoring.position_weight", 0.38)
	viper.SetDefault("scoring.digit_weight", 0.32)
	viper.SetDefault("scoring.sum_weight", 0.18)
	viper.SetDefault("scoring.recency_weight", 0.12)
	viper.SetDefault("scoring.max_overlay_delta", 0.08)
	viper.SetDefault("scoring.green_threshold", 0.20)
	viper.SetDefault("scoring.yellow_threshold", 0.12)
	viper.SetDefault("scoring.tan_threshold", 0.06)
	viper.SetDefault("scoring.lookback_days", 365)
	viper.SetDefault("scoring.odds_sentinel", 9999)

	// Overlay
	viper.SetDefault("overlay.provider", "ephemeris")
	viper.SetDefault("overlay.cache_ttl", "24h")

	// Export
	viper.SetDefault("export.output_dir", "./exports")

	// Telemetry
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.exporter", "stdout")
	viper.SetDefault("telemetry.otlp_endpoint", "localhost:4318")

	// Security
	viper.SetDefault("security.jwt_secret", "")
	viper.SetDefault("security.jwt_expiry", "24h")
	viper.SetDefault("security.bcrypt_cost", 12)
	viper.SetDefault("security.admin_api_key", "")
}
