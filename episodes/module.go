package episodes

import (
	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/cmds"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/vars"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

var (
	thresholdFlag = cmds.Optional[float64]("-conf-threshold")
	maxStepsFlag  = cmds.Var[int]("-max-steps")
)

const DefaultThreshold = 7.5

type Threshold float64

func (Module) Threshold(
	loader configs.Loader,
) Threshold {
	// zero is a valid threshold: stop on the first decision
	if v := *thresholdFlag; v != nil {
		return Threshold(*v)
	}
	if v, ok := configs.Lookup[Threshold](loader, "conf_threshold"); ok {
		return v
	}
	return DefaultThreshold
}

type MaxSteps int

func (Module) MaxSteps(
	loader configs.Loader,
) MaxSteps {
	return vars.FirstNonZero(
		MaxSteps(*maxStepsFlag),
		configs.First[MaxSteps](loader, "max_steps"),
	)
}

// NewController returns a controller for one episode.
type NewController func() *Controller

func (Module) NewController(
	threshold Threshold,
	maxSteps MaxSteps,
	logger logs.Logger,
) NewController {
	return func() *Controller {
		return &Controller{
			Threshold: float64(threshold),
			MaxSteps:  int(maxSteps),
			Logger:    logger,
		}
	}
}
