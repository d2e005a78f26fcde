package services

import "errors"

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrPresetNotFound     = errors.New("preset not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid password")

	ErrAuthenticationFailed = errors.New("authentication failed")
)
