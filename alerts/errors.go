package alerts

import "errors"

var (
	ErrCheckFailed = errors.New("opportunity check failed")
	ErrStoreFailed = errors.New("alert storage failed")
)
