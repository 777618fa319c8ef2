package services

import "errors"

var (
	ErrInvalidBounds   = errors.New("invalid bounds")
	ErrNoUploader      = errors.New("no upload target configured")
	ErrRefreshInFlight = errors.New("refresh already in progress")
)
