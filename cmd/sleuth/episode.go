package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/reusee/sleuth/agents"
	"github.com/reusee/sleuth/batches"
	"github.com/reusee/sleuth/debugs"
	"github.com/reusee/sleuth/envs"
	"github.com/reusee/sleuth/episodes"
	"github.com/reusee/sleuth/evidences"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/vars"
)

// RunEpisode plays one episode with the first variant named by -agent.
type RunEpisode func(ctx context.Context) error

func (Module) RunEpisode(
	getConfig envs.GetConfig,
	open envs.Open,
	newAgent agents.NewAgent,
	newController episodes.NewController,
	getFiles batches.AttributeFiles,
	floorplan batches.Floorplan,
	randomFloorplan batches.RandomFloorplan,
	tap debugs.Tap,
	logger logs.Logger,
	newSpan logs.NewSpan,
) RunEpisode {
	return func(ctx context.Context) error {
		ctx, _ = newSpan(ctx, "")

		variant, err := agents.ParseVariant(vars.FirstNonZero(*agentFlag, "naive"))
		if err != nil {
			return err
		}

		files, err := getFiles()
		if err != nil {
			return err
		}
		file := files[rand.IntN(len(files))]
		catalog, err := evidences.LoadCatalog(file)
		if err != nil {
			return wrap(err)
		}

		plan := int(floorplan)
		if randomFloorplan {
			plan = 1 + rand.IntN(batches.MaxFloorplan)
		}

		config, err := getConfig()
		if err != nil {
			return err
		}
		env, err := open(ctx, config)
		if err != nil {
			return err
		}
		defer env.Close()
		if restrictor, ok := env.(envs.TaskRestrictor); ok {
			if err := envs.RestrictFloorplan(ctx, restrictor, plan); err != nil {
				return err
			}
		}

		agent, err := newAgent(variant)
		if err != nil {
			return err
		}

		controller := newController()
		if *tapFlag {
			controller.Observer = func(turn episodes.Turn) {
				tap(ctx, fmt.Sprintf("step %d", turn.Step), map[string]any{
					"turn":   turn,
					"memory": agent.MemoryText(),
					"map":    agent.MapText(),
				})
			}
		}

		logger.InfoContext(ctx, "episode",
			"agent", variant,
			"file", file,
			"floorplan", plan,
			"ground_truth", batches.GroundTruth(file),
		)
		result, err := controller.Run(ctx, env, agent, catalog)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "prediction: %s\nconfidence: %.1f\nsteps: %d\noutcome: %s\nground truth: %s\n",
			result.Prediction,
			result.Confidence,
			result.Steps,
			result.Outcome,
			batches.GroundTruth(file),
		)
		return nil
	}
}
