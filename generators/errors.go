package generators

import "errors"

// ErrRetryable marks failures worth another attempt, like rate limiting.
var ErrRetryable = errors.New("retryable")

// ErrBadArguments marks a tool call whose arguments are not a JSON object.
var ErrBadArguments = errors.New("bad tool call arguments")
