package domain

import "errors"

var (
	ErrNotFound      = errors.New("product not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternalDb    = errors.New("internal database error")
	ErrInternalCache = errors.New("internal cache error")

	// ErrCacheMiss marks an absent cache entry. A miss is always a valid
	// state and must never surface to callers of the service layer.
	ErrCacheMiss = errors.New("cache miss")
)
