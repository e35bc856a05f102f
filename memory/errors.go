package memory

import "errors"

// Sentinel errors for store operations.
var (
	ErrLoadFailed     = errors.New("load failed")
	ErrSaveFailed     = errors.New("save failed")
	ErrUnknownBackend = errors.New("unknown memory backend")
)
