// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type InkpressConfig struct {
	// Server: where the shell API listens
	Server ServerConfig `yaml:"server"`

	// Storage: the embedded database behind session persistence
	Storage StorageConfig `yaml:"storage"`

	// Session: authentication behavior knobs
	Session SessionConfig `yaml:"session"`

	// Logging: destinations and verbosity
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr          string  `yaml:"addr"`           // e.g. 127.0.0.1:8470
	TrustedOrigin string  `yaml:"trusted_origin"` // origin oauth messages must carry
	LoginRate     float64 `yaml:"login_rate"`     // login attempts per second
	LoginBurst    int     `yaml:"login_burst"`
}

type StorageConfig struct {
	Path       string `yaml:"path"` // e.g. ~/.inkpress/data
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
}

type SessionConfig struct {
	LoginDelayMS   int `yaml:"login_delay_ms"`   // simulated exchange latency
	PollIntervalMS int `yaml:"poll_interval_ms"` // oauth surface dismissal poll
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Dir    string `yaml:"dir"`    // empty disables file logging
	Format string `yaml:"format"` // auto, text, json
	Quiet  bool   `yaml:"quiet"`
}

// LoginDelay converts the configured milliseconds to a duration.
func (s SessionConfig) LoginDelay() time.Duration {
	return time.Duration(s.LoginDelayMS) * time.Millisecond
}

// PollInterval converts the configured milliseconds to a duration.
func (s SessionConfig) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMS) * time.Millisecond
}

func DefaultConfig() InkpressConfig {
	dataDir := ".inkpress/data"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".inkpress", "data")
	}
	return InkpressConfig{
		Server: ServerConfig{
			Addr:          "127.0.0.1:8470",
			TrustedOrigin: "https://app.inkpress.dev",
			LoginRate:     1,
			LoginBurst:    5,
		},
		Storage: StorageConfig{
			Path:       dataDir,
			SyncWrites: true,
		},
		Session: SessionConfig{
			LoginDelayMS:   1000,
			PollIntervalMS: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Validate rejects configurations the server cannot start with.
func (c *InkpressConfig) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.TrustedOrigin == "" {
		return fmt.Errorf("server.trusted_origin must not be empty")
	}
	if c.Server.LoginRate <= 0 {
		return fmt.Errorf("server.login_rate must be positive, got %v", c.Server.LoginRate)
	}
	if c.Server.LoginBurst <= 0 {
		return fmt.Errorf("server.login_burst must be positive, got %d", c.Server.LoginBurst)
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage.path must be set unless storage.in_memory is true")
	}
	if c.Session.LoginDelayMS < 0 || c.Session.PollIntervalMS < 0 {
		return fmt.Errorf("session durations must not be negative")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// applyEnv overlays INKPRESS_* environment variables onto the config.
// Unset variables leave the file values alone.
func (c *InkpressConfig) applyEnv() {
	if v := os.Getenv("INKPRESS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("INKPRESS_TRUSTED_ORIGIN"); v != "" {
		c.Server.TrustedOrigin = v
	}
	if v := os.Getenv("INKPRESS_DATA_DIR"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("INKPRESS_IN_MEMORY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Storage.InMemory = b
		}
	}
	if v := os.Getenv("INKPRESS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("INKPRESS_LOG_DIR"); v != "" {
		c.Logging.Dir = v
	}
}
