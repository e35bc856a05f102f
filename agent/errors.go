package agent

import "errors"

var (
	ErrAgentNotFound  = errors.New("agent not found")
	ErrAgentExists    = errors.New("agent already registered")
	ErrEmptyAgentName = errors.New("agent name cannot be empty")
	ErrNoProvider     = errors.New("agent requires a provider")
)
