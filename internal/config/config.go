package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DashboardConfig holds the initial pipeline parameters.
type DashboardConfig struct {
	SubjectID string  `yaml:"subject_id" mapstructure:"subject_id"`
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
	TopK      int     `yaml:"top_k" mapstructure:"top_k"`
	Explain   bool    `yaml:"explain" mapstructure:"explain"`
}

// ScoringConfig configures the score source.
type ScoringConfig struct {
	Delay        time.Duration `yaml:"delay" mapstructure:"delay"`
	ModelVersion string        `yaml:"model_version" mapstructure:"model_version"`
}

// ExportConfig configures file export and upload ingestion.
type ExportConfig struct {
	OutputDir      string `yaml:"output_dir" mapstructure:"output_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ADTARGET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dashboard.subject_id", "user_12345")
	v.SetDefault("dashboard.threshold", 0.05)
	v.SetDefault("dashboard.top_k", 5)
	v.SetDefault("dashboard.explain", true)
	v.SetDefault("scoring.delay", "600ms")
	v.SetDefault("scoring.model_version", "v0.9.1-demo")
	v.SetDefault("export.output_dir", ".")
	v.SetDefault("export.max_upload_bytes", 10<<20)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_rps", 5.0)
	v.SetDefault("server.rate_limit_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Mode is the command name:
// "predict", "export", "dashboard" or "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Dashboard.Threshold < 0 || c.Dashboard.Threshold > 1 {
		problems = append(problems, "dashboard.threshold must be between 0 and 1")
	}
	if c.Dashboard.TopK < 1 || c.Dashboard.TopK > 20 {
		problems = append(problems, "dashboard.top_k must be between 1 and 20")
	}
	if c.Scoring.Delay < 0 {
		problems = append(problems, "scoring.delay must be >= 0")
	}

	switch mode {
	case "predict", "dashboard":
	case "export":
		if c.Export.OutputDir == "" {
			problems = append(problems, "export.output_dir is required")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimitRPS <= 0 {
			problems = append(problems, "server.rate_limit_rps must be > 0")
		}
		if c.Server.RateLimitBurst < 1 {
			problems = append(problems, "server.rate_limit_burst must be >= 1")
		}
		if c.Export.MaxUploadBytes <= 0 {
			problems = append(problems, "export.max_upload_bytes must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
