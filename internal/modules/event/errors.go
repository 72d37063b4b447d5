package event

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("event not found")
)
