package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrInvalidSession = errors.New("session is invalid")
	ErrSessionExpired = errors.New("session is expired")

	ErrTokenCreationFailed = errors.New("session token creation failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
