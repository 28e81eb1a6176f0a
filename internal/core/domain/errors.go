package domain

import (
	"errors"
	"fmt"
)

// Authentication errors.
var (
	ErrNoToken            = errors.New("not authorized, no token provided")
	ErrInvalidToken       = errors.New("not authorized, token failed")
	ErrExpiredToken       = errors.New("not authorized, token expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Authorization errors. Every resource-specific not-found error wraps ErrNotFound.
var (
	ErrNotFound        = errors.New("not found")
	ErrNotOwner        = errors.New("not authorized to modify this resource")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrProgramNotFound = fmt.Errorf("program %w", ErrNotFound)
)

// Upload pipeline errors.
var (
	ErrUnsupportedMediaType = errors.New("only image files are allowed")
	ErrPayloadTooLarge      = errors.New("file exceeds the maximum upload size")
	ErrUploadFailed         = errors.New("failed to upload file")
)

var (
	ErrUserExists = errors.New("user already exists with this email")
	ErrValidation = errors.New("validation failed")
)

// Startup configuration errors.
var (
	ErrMissingSecret      = errors.New("token signing secret is required")
	ErrMissingCredentials = errors.New("remote storage credentials are incomplete")
)
