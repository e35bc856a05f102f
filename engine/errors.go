package engine

import "errors"

var (
	// ErrNoCompanies is returned when monitoring is requested but the
	// configuration lists no companies to sweep.
	ErrNoCompanies = errors.New("no companies configured for monitoring")
)
