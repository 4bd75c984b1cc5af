package decisions

import "errors"

var ErrReasoning = errors.New("reasoning failure")
