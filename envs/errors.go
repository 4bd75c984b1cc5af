package envs

import "errors"

var (
	// ErrEnvironment marks collaborator faults, fatal to the episode.
	ErrEnvironment = errors.New("environment fault")

	ErrNoMatchingTask     = errors.New("no task found")
	ErrUnknownEnvironment = errors.New("unknown environment type")
)
