package shared

import "errors"

var (
	// Configuration errors
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// Collection errors
	ErrCollectionNotFound = errors.New("collection file not found")
	ErrInvalidCollection  = errors.New("invalid collection file")
	ErrCollectionLocked   = errors.New("collection is locked by another run")
	ErrSongNotFound       = errors.New("song not found")
	ErrInvalidDate        = errors.New("invalid release date")
	ErrRunNotFound        = errors.New("run not found")

	// API and service errors
	ErrAPIRequest          = errors.New("API request failed")
	ErrPersistentRateLimit = errors.New("persistent rate limit")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrNoResults           = errors.New("no results")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFlag     = errors.New("invalid flag value")
)
