// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the admin
// server. It is populated by merging values from environment variables,
// command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds session token parameters, the bootstrap superuser and the
	// application version.
	App App `envPrefix:"APP_"`

	// Storage holds the database and uploaded-media settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify session tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every session token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a login session stays valid
	// (e.g. "12h").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// AdminEmail and AdminPassword describe a superuser created at startup
	// when no account with that email exists yet. Both empty disables it.
	// Env: APP_ADMIN_EMAIL, APP_ADMIN_PASSWORD
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the settings for uploaded media files.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN selects the driver by its scheme: "postgres://" or
	// "postgresql://" opens PostgreSQL through pgx, anything else is treated
	// as a SQLite file name (":memory:" included).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds settings for uploaded media.
type Files struct {
	// MediaDir is the directory uploaded files are written to.
	// Env: STORAGE_FILES_MEDIA_DIR
	MediaDir string `env:"MEDIA_DIR"`

	// MediaURL is the URL prefix uploaded files are served under
	// (e.g. "/media/").
	// Env: STORAGE_FILES_MEDIA_URL
	MediaURL string `env:"MEDIA_URL"`

	// MaxMemory is the number of bytes of a multipart body kept in memory;
	// the rest spills to temporary files.
	// Env: STORAGE_FILES_MAX_MEMORY
	MaxMemory int64 `env:"MAX_MEMORY"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SessionCleanupInterval controls how often expired sessions are purged.
	// Zero disables the cleanup worker.
	// Env: WORKERS_SESSION_CLEANUP_INTERVAL
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL"`
}

// Defaults applied by [GetStructuredConfig] to fields left empty by every
// source.
const (
	DefaultTokenIssuer   = "go-admin-mixins"
	DefaultTokenDuration = 12 * time.Hour
	DefaultMediaDir      = "media"
	DefaultMediaURL      = "/media/"
	DefaultMaxMemory     = 32 << 20
)

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

func (cfg *StructuredConfig) setDefaults() {
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = DefaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = DefaultTokenDuration
	}
	if cfg.Storage.Files.MediaDir == "" {
		cfg.Storage.Files.MediaDir = DefaultMediaDir
	}
	if cfg.Storage.Files.MediaURL == "" {
		cfg.Storage.Files.MediaURL = DefaultMediaURL
	}
	if cfg.Storage.Files.MaxMemory == 0 {
		cfg.Storage.Files.MaxMemory = DefaultMaxMemory
	}
}
