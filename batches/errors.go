package batches

import "errors"

var (
	ErrNoAttributeFiles = errors.New("no attribute files")
	ErrNoVariants       = errors.New("no agent variants")
)
