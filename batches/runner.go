package batches

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/reusee/sleuth/agents"
	"github.com/reusee/sleuth/envs"
	"github.com/reusee/sleuth/episodes"
	"github.com/reusee/sleuth/evidences"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/syncs"
)

type Runner struct {
	// at least one
	Workers int
	// nil uses the global source
	Rand *rand.Rand

	OpenEnv       func(ctx context.Context) (envs.Environment, error)
	NewAgent      func(variant agents.Variant) (episodes.Agent, error)
	NewController func() *episodes.Controller
	LoadCatalog   func(path string) (evidences.Catalog, error)

	// nil uses slog.Default
	Logger logs.Logger
	// nil runs episodes without spans
	NewSpan logs.NewSpan
}

func (r *Runner) logger() logs.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run executes every job of the plan and feeds the sink.
// Environment faults become failed records; anything else stops the batch.
func (r *Runner) Run(ctx context.Context, plan Plan, sink Sink) error {
	jobs, err := plan.Jobs(r.Rand)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	workers := max(r.Workers, 1)
	sem := syncs.NewSemaphore(workers)
	var wg sync.WaitGroup
	var sinkLock sync.Mutex

	for _, job := range jobs {
		if err := sem.AcquireContext(ctx); err != nil {
			break
		}
		if ctx.Err() != nil {
			sem.Release()
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release()

			record, err := r.runJob(ctx, job)
			if err != nil {
				cancel(err)
				return
			}

			sinkLock.Lock()
			defer sinkLock.Unlock()
			if err := sink.Add(record); err != nil {
				cancel(err)
			}
		}()
	}
	wg.Wait()

	return context.Cause(ctx)
}

func (r *Runner) runJob(ctx context.Context, job Job) (record Record, err error) {
	if r.NewSpan != nil {
		ctx, _ = r.NewSpan(ctx, "")
	}

	record = Record{
		RunID:       uuid.New(),
		AgentType:   job.Variant.String(),
		Run:         job.Run,
		File:        filepath.Base(job.File),
		Floorplan:   job.Floorplan,
		GroundTruth: GroundTruth(job.File),
	}
	r.logger().InfoContext(ctx, "run start",
		"run_id", record.RunID,
		"agent", record.AgentType,
		"run", record.Run,
		"file", record.File,
		"floorplan", record.Floorplan,
		"ground_truth", record.GroundTruth,
	)

	result, err := r.episode(ctx, job)
	if err != nil {
		if !errors.Is(err, envs.ErrEnvironment) || ctx.Err() != nil {
			return record, logs.WrapSpan(ctx, err)
		}
		err = logs.WrapSpan(ctx, err)
		r.logger().WarnContext(ctx, "run failed",
			"run_id", record.RunID,
			"error", err,
		)
		record.Error = err.Error()
		return record, nil
	}

	record.Prediction = result.Prediction
	record.Confidence = result.Confidence
	record.Steps = result.Steps
	record.Outcome = result.Outcome.String()
	record.Correct = record.Prediction == record.GroundTruth
	r.logger().InfoContext(ctx, "run end",
		"run_id", record.RunID,
		"prediction", record.Prediction,
		"correct", record.Correct,
	)
	return record, nil
}

func (r *Runner) episode(ctx context.Context, job Job) (result episodes.Result, err error) {
	catalog, err := r.LoadCatalog(job.File)
	if err != nil {
		return result, err
	}

	agent, err := r.NewAgent(job.Variant)
	if err != nil {
		return result, err
	}

	env, err := r.OpenEnv(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := env.Close(); err != nil {
			r.logger().WarnContext(ctx, "close environment",
				"error", err,
			)
		}
	}()

	if restrictor, ok := env.(envs.TaskRestrictor); ok && job.Floorplan > 0 {
		if err := envs.RestrictFloorplan(ctx, restrictor, job.Floorplan); err != nil {
			return result, err
		}
	}

	return r.NewController().Run(ctx, env, agent, catalog)
}
