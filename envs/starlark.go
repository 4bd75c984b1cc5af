package envs

import (
	"context"
	"fmt"
	"slices"

	"github.com/reusee/sleuth/debugs"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Starlark is a household scripted in starlark.
//
// The script defines:
//
//	tasks = ["...FloorPlan1/trial_1", ...]
//	def reset(state, task): return {"observation": ..., "admissible_commands": [...]}
//	def step(state, action): return {"observation": ..., "score": 0, "done": False, "admissible_commands": [...]}
//
// state is a fresh dict for every episode; module globals are frozen after loading.
type Starlark struct {
	name   string
	thread *starlark.Thread
	reset  starlark.Callable
	step   starlark.Callable
	tasks  []string
	next   int
	state  *starlark.Dict
}

var _ Environment = new(Starlark)

var _ TaskRestrictor = new(Starlark)

func NewStarlark(filename string, src any, logger logs.Logger) (*Starlark, error) {
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Debug("starlark print", "file", filename, "msg", msg)
		},
	}
	predeclared := starlark.StringDict{
		"log": starlarkutil.MakeFunc("log", func(msg string) {
			logger.Info("household", "file", filename, "msg", msg)
		}),
	}
	globals, err := starlark.ExecFileOptions(
		&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
		},
		thread,
		filename,
		src,
		predeclared,
	)
	if err != nil {
		return nil, wrap(fmt.Errorf("%w: load %s: %w", ErrEnvironment, filename, err))
	}

	ret := &Starlark{
		name:   filename,
		thread: thread,
	}

	var ok bool
	ret.reset, ok = globals["reset"].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%w: %s: reset not defined", ErrEnvironment, filename)
	}
	ret.step, ok = globals["step"].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%w: %s: step not defined", ErrEnvironment, filename)
	}

	if value, ok := globals["tasks"]; ok {
		tasks, err := debugs.FromStarlarkValue(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: tasks: %w", ErrEnvironment, filename, err)
		}
		list, ok := tasks.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: tasks is not a list", ErrEnvironment, filename)
		}
		for _, task := range list {
			str, ok := task.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s: bad task %v", ErrEnvironment, filename, task)
			}
			ret.tasks = append(ret.tasks, str)
		}
	}

	return ret, nil
}

func (s *Starlark) call(ctx context.Context, fn starlark.Callable, args ...starlark.Value) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		s.thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	value, err := starlark.Call(s.thread, fn, args, nil)
	if err != nil {
		return nil, wrap(fmt.Errorf("%w: %s: %w", ErrEnvironment, fn.Name(), err))
	}
	result, err := debugs.FromStarlarkValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEnvironment, fn.Name(), err)
	}
	m, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", ErrEnvironment, fn.Name(), result)
	}
	return m, nil
}

func (s *Starlark) Reset(ctx context.Context) ([]string, Info, error) {
	task := ""
	if len(s.tasks) > 0 {
		task = s.tasks[s.next%len(s.tasks)]
		s.next++
	}
	s.state = starlark.NewDict(8)
	m, err := s.call(ctx, s.reset, s.state, starlark.String(task))
	if err != nil {
		return nil, Info{}, err
	}
	frame, err := parseFrame(m)
	if err != nil {
		return nil, Info{}, err
	}
	return []string{frame.Observation}, Info{
		AdmissibleCommands: [][]string{frame.Admissible},
	}, nil
}

func (s *Starlark) Step(ctx context.Context, actions []string) ([]string, []float64, []bool, Info, error) {
	if s.state == nil {
		return nil, nil, nil, Info{}, fmt.Errorf("%w: step before reset", ErrEnvironment)
	}
	if len(actions) != 1 {
		return nil, nil, nil, Info{}, fmt.Errorf("%w: expecting 1 action, got %d", ErrEnvironment, len(actions))
	}
	m, err := s.call(ctx, s.step, s.state, starlark.String(actions[0]))
	if err != nil {
		return nil, nil, nil, Info{}, err
	}
	frame, err := parseFrame(m)
	if err != nil {
		return nil, nil, nil, Info{}, err
	}
	return []string{frame.Observation},
		[]float64{frame.Score},
		[]bool{frame.Done},
		Info{
			AdmissibleCommands: [][]string{frame.Admissible},
		},
		nil
}

func (s *Starlark) Close() error {
	s.state = nil
	return nil
}

func (s *Starlark) Tasks(ctx context.Context) ([]string, error) {
	return slices.Clone(s.tasks), nil
}

func (s *Starlark) SetTasks(ctx context.Context, tasks []string) error {
	s.tasks = slices.Clone(tasks)
	s.next = 0
	return nil
}

func parseFrame(m map[string]any) (ret Frame, err error) {
	var ok bool
	ret.Observation, ok = m["observation"].(string)
	if !ok {
		return ret, fmt.Errorf("%w: observation: expecting string, got %T", ErrEnvironment, m["observation"])
	}

	cmds, ok := m["admissible_commands"].([]any)
	if !ok {
		return ret, fmt.Errorf("%w: admissible_commands: expecting list, got %T", ErrEnvironment, m["admissible_commands"])
	}
	ret.Admissible = make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		str, ok := cmd.(string)
		if !ok {
			return ret, fmt.Errorf("%w: admissible command: expecting string, got %T", ErrEnvironment, cmd)
		}
		ret.Admissible = append(ret.Admissible, str)
	}

	switch score := m["score"].(type) {
	case nil:
	case int64:
		ret.Score = float64(score)
	case float64:
		ret.Score = score
	default:
		return ret, fmt.Errorf("%w: score: expecting number, got %T", ErrEnvironment, score)
	}

	switch done := m["done"].(type) {
	case nil:
	case bool:
		ret.Done = done
	default:
		return ret, fmt.Errorf("%w: done: expecting bool, got %T", ErrEnvironment, done)
	}

	return ret, nil
}
