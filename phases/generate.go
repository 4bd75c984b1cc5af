package phases

import (
	"context"
	"errors"
	"time"

	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/generators"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/vars"
)

type BuildGenerate func(generator generators.Generator) PhaseBuilder

type MaxRetries int

func (Module) MaxRetries(
	loader configs.Loader,
) MaxRetries {
	return vars.FirstNonZero(
		configs.First[MaxRetries](loader, "max_retries"),
		5,
	)
}

type RetryBackoff time.Duration

func (Module) RetryBackoff() RetryBackoff {
	return RetryBackoff(time.Second)
}

func (Module) BuildGenerate(
	maxRetries MaxRetries,
	backoff RetryBackoff,
	logger logs.Logger,
) BuildGenerate {
	return func(generator generators.Generator) PhaseBuilder {
		return func(cont Phase) Phase {
			return func(ctx context.Context, state generators.State) (Phase, generators.State, error) {

				for retries := 0; ; retries++ {
					newState, err := generator.Generate(ctx, state)
					if err != nil {
						if errors.Is(err, generators.ErrRetryable) && retries < int(maxRetries) {
							wait := time.Duration(backoff) << retries
							logger.WarnContext(ctx, "retrying generate",
								"error", err,
								"retries", retries,
								"wait", wait,
							)
							select {
							case <-time.After(wait):
							case <-ctx.Done():
								return nil, state, ctx.Err()
							}
							continue
						}
						return nil, state, err
					}
					state = newState
					break
				}

				return cont, state, nil
			}
		}
	}
}
