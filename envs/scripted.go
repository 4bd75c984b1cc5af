package envs

import (
	"context"
	"fmt"
	"slices"
)

type Frame struct {
	Observation string
	Admissible  []string
	Score       float64
	Done        bool
}

// Scripted replays fixed frames regardless of the actions taken.
// Steps past the last frame repeat it.
type Scripted struct {
	TaskList []string
	Initial  Frame
	Frames   []Frame
	// StepErr fails the step with this index
	StepErr   error
	ErrAtStep int

	// Actions records executed actions
	Actions []string
	Resets  int
	Closed  bool
}

var _ Environment = new(Scripted)

var _ TaskRestrictor = new(Scripted)

func (s *Scripted) Reset(ctx context.Context) ([]string, Info, error) {
	s.Resets++
	s.Actions = s.Actions[:0]
	return []string{s.Initial.Observation}, Info{
		AdmissibleCommands: [][]string{slices.Clone(s.Initial.Admissible)},
	}, nil
}

func (s *Scripted) Step(ctx context.Context, actions []string) ([]string, []float64, []bool, Info, error) {
	if len(actions) != 1 {
		return nil, nil, nil, Info{}, fmt.Errorf("%w: expecting 1 action, got %d", ErrEnvironment, len(actions))
	}
	if s.StepErr != nil && len(s.Actions) == s.ErrAtStep {
		return nil, nil, nil, Info{}, s.StepErr
	}
	s.Actions = append(s.Actions, actions[0])
	var frame Frame
	if len(s.Frames) > 0 {
		frame = s.Frames[min(len(s.Actions), len(s.Frames))-1]
	} else {
		frame = s.Initial
	}
	return []string{frame.Observation},
		[]float64{frame.Score},
		[]bool{frame.Done},
		Info{
			AdmissibleCommands: [][]string{slices.Clone(frame.Admissible)},
		},
		nil
}

func (s *Scripted) Close() error {
	s.Closed = true
	return nil
}

func (s *Scripted) Tasks(ctx context.Context) ([]string, error) {
	return slices.Clone(s.TaskList), nil
}

func (s *Scripted) SetTasks(ctx context.Context, tasks []string) error {
	s.TaskList = slices.Clone(tasks)
	return nil
}
