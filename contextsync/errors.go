package contextsync

import "errors"

var (
	ErrUnknownAgent    = errors.New("unknown agent")
	ErrUnknownCategory = errors.New("unknown broadcast category")
	ErrSyncFailed      = errors.New("context synchronization failed")
)
