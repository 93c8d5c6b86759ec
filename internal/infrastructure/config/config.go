package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ModelConfig holds model resolution and inference settings.
type ModelConfig struct {
	// ID is the hub repository identifier of the pretrained classifier.
	ID string `mapstructure:"id"`
	// LocalDir is checked before the hub; used when it holds a complete
	// model (weights, tokenizer and label mapping).
	LocalDir string `mapstructure:"local_dir"`
	// CacheDir is where hub downloads are stored.
	CacheDir  string `mapstructure:"cache_dir"`
	Device    string `mapstructure:"device"`
	BatchSize int    `mapstructure:"batch_size"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// ServerConfig holds the web form / API server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// FeedConfig holds RSS fetching settings.
type FeedConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the application configuration.
type Config struct {
	Model  ModelConfig  `mapstructure:"model"`
	Server ServerConfig `mapstructure:"server"`
	Feed   FeedConfig   `mapstructure:"feed"`
	Log    LogConfig    `mapstructure:"log"`
}

// Load reads configuration from the environment (FNC_ prefix, nested keys
// joined with underscores, e.g. FNC_MODEL_DEVICE) on top of built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("FNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// AutomaticEnv alone does not surface env vars through Unmarshal;
	// touching every known key registers them.
	for _, key := range v.AllKeys() {
		if val := v.Get(key); val != nil {
			v.Set(key, val)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.id", "TADSTech/financial-news-classifier")
	v.SetDefault("model.local_dir", "models/finbert")
	v.SetDefault("model.cache_dir", "models/hub")
	v.SetDefault("model.device", "cpu")
	v.SetDefault("model.batch_size", 32)
	v.SetDefault("model.max_tokens", 512)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7860)
	v.SetDefault("server.mode", "release")

	v.SetDefault("feed.timeout", 10*time.Second)
	v.SetDefault("feed.max_entries", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
