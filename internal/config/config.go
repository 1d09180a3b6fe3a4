package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override,
// e.g. ABSVIZ_INSIGHT_MODEL for insight.model.
const EnvPrefix = "ABSVIZ"

// Config represents the complete absviz configuration
type Config struct {
	Insight InsightConfig `mapstructure:"insight"`
	Logging LoggingConfig `mapstructure:"logging"`
	TUI     TUIConfig     `mapstructure:"tui"`
}

// InsightConfig controls the generative-text insight pipeline
type InsightConfig struct {
	// Enabled turns the pipeline off entirely when false
	Enabled bool `mapstructure:"enabled"`
	// APIKey is the Gemini credential. Empty means "not configured": the
	// pipeline then shows a fixed message and never touches the network.
	APIKey string `mapstructure:"api_key"`
	// Model is the generative model identifier
	Model string `mapstructure:"model"`
	// Temperature is the sampling temperature sent with each request
	Temperature float64 `mapstructure:"temperature"`
	// MaxOutputTokens bounds the length of each insight
	MaxOutputTokens int `mapstructure:"max_output_tokens"`
	// Debounce is the quiet period after the last parameter change before a
	// request is issued
	Debounce time.Duration `mapstructure:"debounce"`
	// RequestTimeout bounds a single request
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR
	Level string `mapstructure:"level"`
	// Dir is where debug.log is written; empty disables logging
	Dir string `mapstructure:"dir"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// AltScreen runs the program in the terminal's alternate screen buffer
	AltScreen bool `mapstructure:"alt_screen"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Insight: InsightConfig{
			Enabled:         true,
			APIKey:          "",
			Model:           "gemini-3-flash-preview",
			Temperature:     0.7,
			MaxOutputTokens: 100,
			Debounce:        time.Second,
			RequestTimeout:  15 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "INFO",
			Dir:   defaultLogDir(),
		},
		TUI: TUIConfig{
			AltScreen: true,
		},
	}
}

// SetDefaults registers defaults and environment bindings on the global viper
// instance.
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers defaults and environment bindings on v.
func SetDefaultsOn(v *viper.Viper) {
	d := Default()

	v.SetDefault("insight.enabled", d.Insight.Enabled)
	v.SetDefault("insight.api_key", d.Insight.APIKey)
	v.SetDefault("insight.model", d.Insight.Model)
	v.SetDefault("insight.temperature", d.Insight.Temperature)
	v.SetDefault("insight.max_output_tokens", d.Insight.MaxOutputTokens)
	v.SetDefault("insight.debounce", d.Insight.Debounce)
	v.SetDefault("insight.request_timeout", d.Insight.RequestTimeout)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)

	v.SetDefault("tui.alt_screen", d.TUI.AltScreen)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The credential is also picked up under the names other Gemini tools use.
	_ = v.BindEnv("insight.api_key", EnvPrefix+"_INSIGHT_API_KEY", "GEMINI_API_KEY", "API_KEY")
}

// Load unmarshals the global viper state into a validated Config.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals v into a validated Config.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "absviz")
	}
	return filepath.Join(".", ".absviz")
}

func defaultLogDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "absviz")
	}
	return ""
}
