package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates a missing database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates a missing token signing key.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidAdminConfigs indicates that only one of the bootstrap
	// superuser email and password was provided.
	ErrInvalidAdminConfigs = errors.New("invalid admin configuration")
	// ErrInvalidServerConfigs indicates a missing HTTP listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
