// SPDX-License-Identifier: MIT

// Package config loads and validates the lifecount configuration with
// precedence ENV > file > defaults.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Store backends selectable via LIFECOUNT_STORE.
const (
	StoreBadger = "badger"
	StoreRedis  = "redis"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// AppConfig is the fully resolved runtime configuration.
type AppConfig struct {
	// HTTP
	ListenAddr      string
	ShutdownTimeout time.Duration

	// Rate limiting for the notification surface.
	RateLimitEnabled bool
	RateLimitRPS     int
	RateLimitBurst   int

	// Persistence
	DataDir      string
	StoreBackend string // badger | redis | file | memory
	SnapshotPath string // file backend only
	RedisAddr    string // redis backend only

	// Journal
	JournalEnabled bool
	JournalPath    string

	// Behaviour
	StrictTransitions bool

	// Logging
	LogLevel string

	// Telemetry
	TracingEnabled  bool
	TracingExporter string // grpc | http
	TracingEndpoint string
	TracingSampling float64

	// Build metadata, injected by main.
	Version string
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true,
}

// Validate checks the resolved configuration and accumulates all
// violations into a single error.
func (c AppConfig) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		errs = append(errs, fmt.Errorf("listen address %q: %w", c.ListenAddr, err))
	}

	switch c.StoreBackend {
	case StoreBadger, StoreMemory:
	case StoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, errors.New("redis store selected but no redis address configured"))
		}
	case StoreFile:
		if strings.TrimSpace(c.SnapshotPath) == "" {
			errs = append(errs, errors.New("file store selected but no snapshot path configured"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.StoreBackend))
	}

	if c.StoreBackend == StoreBadger && strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("badger store requires a data directory"))
	}

	if c.JournalEnabled && strings.TrimSpace(c.JournalPath) == "" {
		errs = append(errs, errors.New("journal enabled but no journal path configured"))
	}

	if c.RateLimitEnabled {
		if c.RateLimitRPS <= 0 {
			errs = append(errs, fmt.Errorf("rate limit rps must be positive, got %d", c.RateLimitRPS))
		}
		if c.RateLimitBurst < c.RateLimitRPS {
			errs = append(errs, fmt.Errorf("rate limit burst %d below rps %d", c.RateLimitBurst, c.RateLimitRPS))
		}
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}

	if c.TracingEnabled {
		switch c.TracingExporter {
		case "grpc", "http":
		default:
			errs = append(errs, fmt.Errorf("unknown tracing exporter %q (supported: grpc, http)", c.TracingExporter))
		}
		if c.TracingSampling < 0 || c.TracingSampling > 1 {
			errs = append(errs, fmt.Errorf("tracing sampling rate %v outside [0,1]", c.TracingSampling))
		}
	}

	return errors.Join(errs...)
}
