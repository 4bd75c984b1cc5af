package agents

import "errors"

var ErrUnknownVariant = errors.New("unknown agent variant")
