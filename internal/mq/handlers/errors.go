package handlers

import "errors"

var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrMessageIsNil   = errors.New("message is nil")
	ErrInvalidMessage = errors.New("invalid message")
)
