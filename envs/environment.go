package envs

import (
	"context"
	"fmt"
)

type Info struct {
	AdmissibleCommands [][]string `json:"admissible_commands"`
}

// Environment is a batched text world. Callers always use batch size 1.
type Environment interface {
	Reset(ctx context.Context) (observations []string, info Info, err error)
	Step(ctx context.Context, actions []string) (observations []string, scores []float64, dones []bool, info Info, err error)
	Close() error
}

// TaskRestrictor is implemented by environments that pick episodes from a task list.
type TaskRestrictor interface {
	Tasks(ctx context.Context) ([]string, error)
	SetTasks(ctx context.Context, tasks []string) error
}

// CheckBatch verifies the collaborator answered for exactly one slot.
func CheckBatch(observations []string, info Info, extra ...int) error {
	if len(observations) != 1 {
		return fmt.Errorf("%w: expecting 1 observation, got %d", ErrEnvironment, len(observations))
	}
	if len(info.AdmissibleCommands) != 1 {
		return fmt.Errorf("%w: expecting 1 admissible command list, got %d", ErrEnvironment, len(info.AdmissibleCommands))
	}
	for _, n := range extra {
		if n != 1 {
			return fmt.Errorf("%w: expecting batch size 1, got %d", ErrEnvironment, n)
		}
	}
	return nil
}
