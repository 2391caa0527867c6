// Package config loads walker tool settings from defaults, an optional YAML
// file and WALKER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/clip"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/logger"
)

// EnvPrefix prefixes every environment override, e.g. WALKER_MODEL_PATH.
const EnvPrefix = "WALKER"

// #region config

// Config is the full tool configuration.
type Config struct {
	ModelPath string         `mapstructure:"model_path"`
	DBPath    string         `mapstructure:"db_path"`
	Evaluator string         `mapstructure:"evaluator"`
	GRPCAddr  string         `mapstructure:"grpc_addr"`
	Workers   int            `mapstructure:"workers"`
	Traits    gait.Traits    `mapstructure:"traits"`
	Render    clip.Settings  `mapstructure:"render"`
	Log       logger.Options `mapstructure:"log"`
}

// SetDefaults registers every key so env overrides and Unmarshal see it.
func SetDefaults(v *viper.Viper) {
	r := clip.DefaultSettings()
	t := gait.Neutral()

	v.SetDefault("model_path", "data.json")
	v.SetDefault("db_path", "walk_cycle.db")
	v.SetDefault("evaluator", gait.NameDirect)
	v.SetDefault("grpc_addr", "localhost:50061")
	v.SetDefault("workers", 4)

	v.SetDefault("traits.gender", t.Gender)
	v.SetDefault("traits.weight", t.Weight)
	v.SetDefault("traits.nervousness", t.Nervousness)
	v.SetDefault("traits.happiness", t.Happiness)
	v.SetDefault("traits.speed", t.Speed)
	v.SetDefault("traits.customness", t.Customness)

	v.SetDefault("render.start", r.Start)
	v.SetDefault("render.end", r.End)
	v.SetDefault("render.resolution", r.Resolution)
	v.SetDefault("render.fps", r.FPS)
	v.SetDefault("render.scale", r.Scale)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
}

// Load reads file (or ./walker.yaml when file is empty and it exists) on top
// of the defaults and environment.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("walker")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ModelPath) == "" {
		return errors.New("config: model_path is required")
	}
	if _, err := gait.ByName(c.Evaluator); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// #endregion config
