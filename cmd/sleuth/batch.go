package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/reusee/sleuth/agents"
	"github.com/reusee/sleuth/batches"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/vars"
)

// RunBatch runs the benchmark for the variants named by -agent and writes the reports.
type RunBatch func(ctx context.Context) error

func (Module) RunBatch(
	newPlan batches.NewPlan,
	newSinks batches.NewSinks,
	runner *batches.Runner,
	resultsDir batches.ResultsDir,
	logger logs.Logger,
) RunBatch {
	return func(ctx context.Context) (err error) {
		variants, err := agents.ParseVariants(vars.FirstNonZero(*agentFlag, "naive"))
		if err != nil {
			return err
		}
		plan, err := newPlan(variants)
		if err != nil {
			return err
		}

		reports, err := newSinks()
		if err != nil {
			return err
		}
		records := new(batches.MemorySink)
		sink := batches.Sinks{records, reports}
		defer func() {
			err = errors.Join(err, sink.Close())
		}()

		logger.InfoContext(ctx, "batch start",
			"variants", len(variants),
			"runs_per_variant", plan.RunsPerVariant,
			"attribute_files", len(plan.AttributeFiles),
			"workers", runner.Workers,
		)
		runErr := runner.Run(ctx, plan, sink)

		// partial results are still reported
		fmt.Fprintln(os.Stdout)
		if err := batches.FormatSummary(os.Stdout, batches.Summarize(records.Records())); err != nil {
			return err
		}
		logger.InfoContext(ctx, "reports written", "dir", resultsDir)
		return runErr
	}
}
