package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// Config holds the full application configuration.
type Config struct {
	Rubrics RubricsConfig `yaml:"rubrics" mapstructure:"rubrics"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// RubricsConfig configures where case-type rubrics come from.
type RubricsConfig struct {
	// Dir holds extra rubric YAML files. A file whose name matches a
	// builtin case type replaces it.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// DisplayConfig configures currency rendering.
type DisplayConfig struct {
	Locale         string `yaml:"locale" mapstructure:"locale"`
	CurrencySymbol string `yaml:"currency_symbol" mapstructure:"currency_symbol"`
}

// BatchConfig configures batch estimation.
type BatchConfig struct {
	MaxRows int `yaml:"max_rows" mapstructure:"max_rows"`
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
	v.SetEnvPrefix("COMPCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("rubrics.dir", "")
	v.SetDefault("display.locale", "en-US")
	v.SetDefault("display.currency_symbol", "$")
	v.SetDefault("batch.max_rows", 10000)
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

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if _, err := language.Parse(c.Display.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("display.locale %q is not a valid language tag", c.Display.Locale))
	}
	if c.Batch.MaxRows < 0 {
		errs = append(errs, "batch.max_rows must be >= 0")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or console (got %q)", c.Log.Format))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
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
