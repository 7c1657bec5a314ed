package model

import "errors"

var (
	// ErrInvalidInput marks malformed URLs, ids or missing required fields
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a video that does not exist upstream
	ErrNotFound = errors.New("not found")
	// ErrSourceUnavailable is returned when no video source has been configured
	ErrSourceUnavailable = errors.New("video source not configured")
)
