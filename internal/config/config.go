// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// HTTPConfig configures the outbound HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// ResolverConfig governs the lookup race and metadata waves.
type ResolverConfig struct {
	MaxConcurrent     int            `mapstructure:"max_concurrent"`
	WavePDFFoundMs    int            `mapstructure:"wave_pdf_found_ms"`
	WaveInitialMs     int            `mapstructure:"wave_initial_ms"`
	WaveSecondMs      int            `mapstructure:"wave_second_ms"`
	DefaultIntervalMs int            `mapstructure:"default_interval_ms"`
	SourceIntervalsMs map[string]int `mapstructure:"source_intervals_ms"`
}

// ProvidersConfig holds per-provider credentials and toggles.
type ProvidersConfig struct {
	COREAPIKey        string `mapstructure:"core_api_key"`
	UnpaywallEmail    string `mapstructure:"unpaywall_email"`
	GoogleBooksAPIKey string `mapstructure:"google_books_api_key"`
	BASEEnabled       bool   `mapstructure:"base_enabled"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment. A .env file in the
// working directory is folded into the environment first so provider
// keys can live outside the config file.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PAPERHOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("http.timeout_seconds", 5)
	v.SetDefault("http.user_agent", "paperhound/0.1")
	v.SetDefault("resolver.max_concurrent", 10)
	v.SetDefault("resolver.wave_pdf_found_ms", 3000)
	v.SetDefault("resolver.wave_initial_ms", 6000)
	v.SetDefault("resolver.wave_second_ms", 2000)
	v.SetDefault("resolver.default_interval_ms", 100)
	v.SetDefault("providers.base_enabled", false)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Resolver.MaxConcurrent <= 0 {
		return fmt.Errorf("resolver.max_concurrent must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	return nil
}

// HTTPTimeout converts the outbound client timeout into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// DefaultInterval returns the fallback spacing between calls to a
// single provider.
func (c Config) DefaultInterval() time.Duration {
	return time.Duration(c.Resolver.DefaultIntervalMs) * time.Millisecond
}

// SourceIntervals converts the per-provider spacing map into durations.
func (c Config) SourceIntervals() map[string]time.Duration {
	if len(c.Resolver.SourceIntervalsMs) == 0 {
		return nil
	}
	out := make(map[string]time.Duration, len(c.Resolver.SourceIntervalsMs))
	for name, ms := range c.Resolver.SourceIntervalsMs {
		out[name] = time.Duration(ms) * time.Millisecond
	}
	return out
}
