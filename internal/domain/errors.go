package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("name already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidInput      = errors.New("invalid input")
)
