package episodes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/reusee/sleuth/decisions"
	"github.com/reusee/sleuth/envs"
	"github.com/reusee/sleuth/evidences"
	"github.com/reusee/sleuth/histories"
	"github.com/reusee/sleuth/logs"
)

// Agent is what the controller needs from an agent variant.
type Agent interface {
	Decide(ctx context.Context, observation string, evidence []string, admissible []string) decisions.Decision
	HasMap() bool
	UpdateMap(observation string, executedAction string)
}

// RecentActions is how many executed actions the repetition check looks back.
const RecentActions = 3

type Controller struct {
	Threshold float64
	// nil uses the global source
	Rand *rand.Rand
	// nil uses slog.Default
	Logger logs.Logger
	// zero means unlimited
	MaxSteps int
	Observer func(Turn)
}

func (c *Controller) intN(n int) int {
	if c.Rand != nil {
		return c.Rand.IntN(n)
	}
	return rand.IntN(n)
}

func environmentFault(err error) error {
	if errors.Is(err, envs.ErrEnvironment) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", envs.ErrEnvironment, err)
}

// Run drives one episode until a stop condition or the environment finishes.
// The environment is not closed.
func (c *Controller) Run(ctx context.Context, env envs.Environment, agent Agent, catalog evidences.Catalog) (result Result, err error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	observations, info, err := env.Reset(ctx)
	if err != nil {
		return result, environmentFault(err)
	}
	if err := envs.CheckBatch(observations, info); err != nil {
		return result, err
	}
	observation := envs.StripTaskLine(observations[0])
	admissible := info.AdmissibleCommands[0]
	logger.InfoContext(ctx, "episode start",
		"observation", observation,
		"admissible", admissible,
	)

	tracker := evidences.NewTracker()
	recent := histories.NewRing[string](RecentActions)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		decision := agent.Decide(ctx, observation, tracker.Descriptions(), slices.Clone(admissible))

		// anti-repetition
		action := decision.Action
		substituted := false
		if recent.Contains(action) {
			cmds := slices.DeleteFunc(slices.Clone(admissible), func(cmd string) bool {
				return cmd == action
			})
			if len(cmds) > 0 {
				action = cmds[c.intN(len(cmds))]
				substituted = true
				logger.InfoContext(ctx, "repeated action, substituting",
					"proposed", decision.Action,
					"executed", action,
				)
			}
		}
		recent.Push(action)

		observations, _, dones, info, err := env.Step(ctx, []string{action})
		if err != nil {
			return result, environmentFault(err)
		}
		if err := envs.CheckBatch(observations, info, len(dones)); err != nil {
			return result, err
		}
		result.Steps++
		observation = observations[0]
		admissible = info.AdmissibleCommands[0]

		found := tracker.Observe(observation, catalog)
		for _, f := range found {
			logger.InfoContext(ctx, "found new object",
				"key", f.Key,
				"description", f.Description,
			)
		}

		if agent.HasMap() {
			agent.UpdateMap(observation, action)
		}

		result.Prediction = decision.Prediction
		result.Confidence = decision.Confidence

		if c.Observer != nil {
			c.Observer(Turn{
				Step:        result.Steps,
				Observation: observation,
				Decision:    decision,
				Executed:    action,
				Substituted: substituted,
				Found:       found,
				Done:        dones[0],
			})
		}

		switch {
		case decision.Confidence >= c.Threshold:
			result.Outcome = StoppedConfident
		case decision.Stop:
			result.Outcome = StoppedExplicit
		case dones[0]:
			result.Outcome = Done
		case c.MaxSteps > 0 && result.Steps >= c.MaxSteps:
			result.Outcome = StepLimit
		default:
			continue
		}

		logger.InfoContext(ctx, "episode end",
			"outcome", result.Outcome,
			"prediction", result.Prediction,
			"confidence", result.Confidence,
			"steps", result.Steps,
		)
		return result, nil
	}
}
