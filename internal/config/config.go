package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Merge  MergeConfig  `yaml:"merge" mapstructure:"merge"`
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// MergeConfig configures conflict handling.
type MergeConfig struct {
	Policy    string `yaml:"policy" mapstructure:"policy"`
	Verbosity int    `yaml:"verbosity" mapstructure:"verbosity"`
}

// InputConfig configures how input files are read.
type InputConfig struct {
	Format    string `yaml:"format" mapstructure:"format"`
	SheetName string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// OutputConfig configures the merged row and report.
type OutputConfig struct {
	Format       string `yaml:"format" mapstructure:"format"`
	ReportFormat string `yaml:"report_format" mapstructure:"report_format"`
	Header       bool   `yaml:"header" mapstructure:"header"`
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
	v.SetEnvPrefix("FOOTPRINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("merge.policy", "keep-second")
	v.SetDefault("merge.verbosity", 0)
	v.SetDefault("input.format", "us")
	v.SetDefault("input.sheet_name", "")
	v.SetDefault("output.format", "us")
	v.SetDefault("output.report_format", "yaml")
	v.SetDefault("output.header", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Merge.Policy) {
	case "keep-second", "keep2nd", "keep_second", "interactive":
	default:
		errs = append(errs, fmt.Sprintf("merge.policy %q is not keep-second or interactive", c.Merge.Policy))
	}
	if c.Merge.Verbosity < 0 || c.Merge.Verbosity > 2 {
		errs = append(errs, "merge.verbosity must be between 0 and 2")
	}
	formats := []struct{ key, val string }{
		{"input.format", c.Input.Format},
		{"output.format", c.Output.Format},
	}
	for _, f := range formats {
		switch strings.ToLower(f.val) {
		case "us", "eu", "fr":
		default:
			errs = append(errs, fmt.Sprintf("%s %q is not us or eu", f.key, f.val))
		}
	}
	switch strings.ToLower(c.Output.ReportFormat) {
	case "yaml", "yml", "json":
	default:
		errs = append(errs, fmt.Sprintf("output.report_format %q is not yaml or json", c.Output.ReportFormat))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Sprintf("log.format %q is not console or json", c.Log.Format))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %q is not a zap level", c.Log.Level))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger. Console output goes to
// stderr so stdout stays free for rendered rows.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		// Warnings carry no stack traces.
		zapCfg.DisableStacktrace = true
	case "json":
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return eris.Errorf("config: unknown log format %q", cfg.Format)
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
