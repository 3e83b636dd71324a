// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors AppConfig for the YAML file layer. Pointer fields
// distinguish "unset" from zero values when merging.
type FileConfig struct {
	Listen          *string `yaml:"listen"`
	ShutdownTimeout *string `yaml:"shutdownTimeout"` // Go duration string, e.g. "10s"

	RateLimit *struct {
		Enabled *bool `yaml:"enabled"`
		RPS     *int  `yaml:"rps"`
		Burst   *int  `yaml:"burst"`
	} `yaml:"rateLimit"`

	DataDir      *string `yaml:"dataDir"`
	Store        *string `yaml:"store"`
	SnapshotPath *string `yaml:"snapshotPath"`
	RedisAddr    *string `yaml:"redisAddr"`

	Journal *struct {
		Enabled *bool   `yaml:"enabled"`
		Path    *string `yaml:"path"`
	} `yaml:"journal"`

	StrictTransitions *bool   `yaml:"strictTransitions"`
	LogLevel          *string `yaml:"logLevel"`

	Tracing *struct {
		Enabled  *bool    `yaml:"enabled"`
		Exporter *string  `yaml:"exporter"`
		Endpoint *string  `yaml:"endpoint"`
		Sampling *float64 `yaml:"sampling"`
	} `yaml:"tracing"`
}

// Loader resolves configuration with precedence ENV > file > defaults.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a configuration loader. An empty configPath skips the
// file layer entirely.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Load resolves the configuration: defaults first, then the YAML file if
// one was given, then environment overrides, then validation.
func (l *Loader) Load() (AppConfig, error) {
	cfg := defaults()
	cfg.Version = l.version

	if l.configPath != "" {
		fileCfg, err := loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFile(&cfg, fileCfg)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaults() AppConfig {
	return AppConfig{
		ListenAddr:      ":8080",
		ShutdownTimeout: 10 * time.Second,

		RateLimitEnabled: true,
		RateLimitRPS:     50,
		RateLimitBurst:   100,

		DataDir:      "/var/lib/lifecount",
		StoreBackend: StoreBadger,
		SnapshotPath: "",
		RedisAddr:    "",

		JournalEnabled: true,
		JournalPath:    "", // derived from DataDir when empty

		StrictTransitions: false,
		LogLevel:          "info",

		TracingEnabled:  false,
		TracingExporter: "grpc",
		TracingEndpoint: "localhost:4317",
		TracingSampling: 1.0,
	}
}

// ResolveJournalPath returns the effective journal location, defaulting to
// journal.db inside the data directory.
func (c AppConfig) ResolveJournalPath() string {
	if c.JournalPath != "" {
		return c.JournalPath
	}
	return filepath.Join(c.DataDir, "journal.db")
}

func loadFile(path string) (*FileConfig, error) {
	buf, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	dec := yaml.Unmarshal(buf, &fc)
	if dec != nil {
		return nil, fmt.Errorf("parse yaml: %w", dec)
	}
	return &fc, nil
}

func mergeFile(cfg *AppConfig, fc *FileConfig) {
	if fc == nil {
		return
	}
	setIf(&cfg.ListenAddr, fc.Listen)
	if fc.ShutdownTimeout != nil {
		if d, err := time.ParseDuration(*fc.ShutdownTimeout); err == nil {
			cfg.ShutdownTimeout = d
		}
	}
	if fc.RateLimit != nil {
		setIf(&cfg.RateLimitEnabled, fc.RateLimit.Enabled)
		setIf(&cfg.RateLimitRPS, fc.RateLimit.RPS)
		setIf(&cfg.RateLimitBurst, fc.RateLimit.Burst)
	}
	setIf(&cfg.DataDir, fc.DataDir)
	setIf(&cfg.StoreBackend, fc.Store)
	setIf(&cfg.SnapshotPath, fc.SnapshotPath)
	setIf(&cfg.RedisAddr, fc.RedisAddr)
	if fc.Journal != nil {
		setIf(&cfg.JournalEnabled, fc.Journal.Enabled)
		setIf(&cfg.JournalPath, fc.Journal.Path)
	}
	setIf(&cfg.StrictTransitions, fc.StrictTransitions)
	setIf(&cfg.LogLevel, fc.LogLevel)
	if fc.Tracing != nil {
		setIf(&cfg.TracingEnabled, fc.Tracing.Enabled)
		setIf(&cfg.TracingExporter, fc.Tracing.Exporter)
		setIf(&cfg.TracingEndpoint, fc.Tracing.Endpoint)
		setIf(&cfg.TracingSampling, fc.Tracing.Sampling)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func applyEnv(cfg *AppConfig) {
	cfg.ListenAddr = ParseString("LIFECOUNT_LISTEN", cfg.ListenAddr)
	cfg.ShutdownTimeout = ParseDuration("LIFECOUNT_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	cfg.RateLimitEnabled = ParseBool("LIFECOUNT_RATELIMIT_ENABLED", cfg.RateLimitEnabled)
	cfg.RateLimitRPS = ParseInt("LIFECOUNT_RATELIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = ParseInt("LIFECOUNT_RATELIMIT_BURST", cfg.RateLimitBurst)

	cfg.DataDir = ParseString("LIFECOUNT_DATA", cfg.DataDir)
	cfg.StoreBackend = ParseString("LIFECOUNT_STORE", cfg.StoreBackend)
	cfg.SnapshotPath = ParseString("LIFECOUNT_SNAPSHOT_PATH", cfg.SnapshotPath)
	cfg.RedisAddr = ParseString("LIFECOUNT_REDIS_ADDR", cfg.RedisAddr)

	cfg.JournalEnabled = ParseBool("LIFECOUNT_JOURNAL_ENABLED", cfg.JournalEnabled)
	cfg.JournalPath = ParseString("LIFECOUNT_JOURNAL_PATH", cfg.JournalPath)

	cfg.StrictTransitions = ParseBool("LIFECOUNT_STRICT_TRANSITIONS", cfg.StrictTransitions)
	cfg.LogLevel = ParseString("LIFECOUNT_LOG_LEVEL", cfg.LogLevel)

	cfg.TracingEnabled = ParseBool("LIFECOUNT_TRACING_ENABLED", cfg.TracingEnabled)
	cfg.TracingExporter = ParseString("LIFECOUNT_TRACING_EXPORTER", cfg.TracingExporter)
	cfg.TracingEndpoint = ParseString("LIFECOUNT_TRACING_ENDPOINT", cfg.TracingEndpoint)
	cfg.TracingSampling = ParseFloat("LIFECOUNT_TRACING_SAMPLING", cfg.TracingSampling)
}
