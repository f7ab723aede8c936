// Package config loads vocabdrill settings from vocabdrill.yaml, VOCABDRILL_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/japaniel/vocabdrill/pkg/enrich"
	"github.com/japaniel/vocabdrill/pkg/store"
	"github.com/japaniel/vocabdrill/pkg/words"
)

// EnvPrefix is prepended to every environment variable, e.g. VOCABDRILL_COUNT.
const EnvPrefix = "VOCABDRILL"

// Config holds everything a training run needs.
type Config struct {
	Count     int          `mapstructure:"count"`
	Offline   bool         `mapstructure:"offline"`
	UseCache  bool         `mapstructure:"use_cache"`
	Direction string       `mapstructure:"direction"`
	StorePath string       `mapstructure:"store_path"`
	Sources   SourceConfig `mapstructure:"sources"`
	Remote    RemoteConfig `mapstructure:"remote"`
	Enrich    EnrichConfig `mapstructure:"enrich"`
	Log       LogConfig    `mapstructure:"log"`
}

// SourceConfig selects the harvest sources. Empty values disable a source.
type SourceConfig struct {
	PagesDir       string `mapstructure:"pages_dir"`
	Login          string `mapstructure:"login"`
	Password       string `mapstructure:"password"`
	Account        string `mapstructure:"account"`
	DictionaryPath string `mapstructure:"dictionary_path"`
}

// RemoteConfig points at the vocabulary service.
type RemoteConfig struct {
	AuthURL       string        `mapstructure:"auth_url"`
	APIURL        string        `mapstructure:"api_url"`
	DictionaryURL string        `mapstructure:"dictionary_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	LoginTimeout  time.Duration `mapstructure:"login_timeout"`
}

// EnrichConfig controls sentence and synonym lookups.
type EnrichConfig struct {
	Provider     string        `mapstructure:"provider"`
	BaseURL      string        `mapstructure:"base_url"`
	ProbeURL     string        `mapstructure:"probe_url"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	MaxSentences int           `mapstructure:"max_sentences"`
	Transcribe   bool          `mapstructure:"transcribe"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration into v. Flags bound to v before the call take
// precedence. A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetConfigName("vocabdrill")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "vocabdrill"))
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults registers every key so that environment variables are picked up
// even when no config file mentions them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("count", 20)
	v.SetDefault("offline", false)
	v.SetDefault("use_cache", true)
	v.SetDefault("direction", words.NativeToForeign.String())
	v.SetDefault("store_path", store.DefaultPath)

	v.SetDefault("sources.pages_dir", "")
	v.SetDefault("sources.login", "")
	v.SetDefault("sources.password", "")
	v.SetDefault("sources.account", "")
	v.SetDefault("sources.dictionary_path", "")

	v.SetDefault("remote.auth_url", "https://id.skyeng.ru/api/v1")
	v.SetDefault("remote.api_url", "https://api.words.skyeng.ru/api/for-vimbox/v1")
	v.SetDefault("remote.dictionary_url", "https://dictionary.skyeng.ru/api/for-services/v2")
	v.SetDefault("remote.timeout", 30*time.Second)
	v.SetDefault("remote.login_timeout", 30*time.Second)

	v.SetDefault("enrich.provider", enrich.ProviderSentenceStack)
	v.SetDefault("enrich.base_url", "")
	v.SetDefault("enrich.probe_url", enrich.DefaultProbeURL)
	v.SetDefault("enrich.probe_timeout", enrich.DefaultProbeTimeout)
	v.SetDefault("enrich.max_sentences", enrich.DefaultMaxSentences)
	v.SetDefault("enrich.transcribe", true)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// Validate rejects settings a run cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Count <= 0 {
		errs = append(errs, fmt.Errorf("count must be positive, got %d", c.Count))
	}
	if _, err := words.ParseDirection(c.Direction); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Enrich.Provider) {
	case "", enrich.ProviderSentenceStack, enrich.ProviderFreeDictionary, enrich.ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("unknown enrichment provider %q", c.Enrich.Provider))
	}
	if c.Sources.Login != "" {
		if c.Sources.Password == "" {
			errs = append(errs, errors.New("sources.password is required with sources.login"))
		}
		if c.Sources.Account == "" {
			errs = append(errs, errors.New("sources.account is required with sources.login"))
		}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DirectionValue returns the parsed direction. Call Validate first.
func (c *Config) DirectionValue() words.Direction {
	d, _ := words.ParseDirection(c.Direction)
	return d
}

// NewLogger builds the logger described by the log section.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	logger.SetLevel(lvl)
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
