package batches

import (
	"context"
	"os"
	"path/filepath"

	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/agents"
	"github.com/reusee/sleuth/cmds"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/envs"
	"github.com/reusee/sleuth/episodes"
	"github.com/reusee/sleuth/evidences"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/vars"
)

type Module struct {
	dscope.Module
	Agents   agents.Module
	Envs     envs.Module
	Episodes episodes.Module
	Logs     logs.Module
}

var (
	runsFlag            = cmds.Var[int]("-runs")
	workersFlag         = cmds.Var[int]("-workers")
	attributesFlag      = cmds.Var[string]("-attributes")
	resultsFlag         = cmds.Var[string]("-results")
	floorplanFlag       = cmds.Var[int]("-floorplan")
	floorplanRandomFlag = cmds.Switch("-floorplan-random")
)

type RunsPerVariant int

func (Module) RunsPerVariant(
	loader configs.Loader,
) RunsPerVariant {
	return vars.FirstNonZero(
		RunsPerVariant(*runsFlag),
		configs.First[RunsPerVariant](loader, "total_runs"),
		DefaultRunsPerVariant,
	)
}

type Workers int

func (Module) Workers(
	loader configs.Loader,
) Workers {
	return vars.FirstNonZero(
		Workers(*workersFlag),
		configs.First[Workers](loader, "workers"),
		1,
	)
}

// AttributesPath is either an attribute file or a directory of them.
type AttributesPath string

func (Module) AttributesPath(
	loader configs.Loader,
) AttributesPath {
	return vars.FirstNonZero(
		AttributesPath(*attributesFlag),
		configs.First[AttributesPath](loader, "attributes_dir"),
		"eval_attributes",
	)
}

type ResultsDir string

func (Module) ResultsDir(
	loader configs.Loader,
) ResultsDir {
	return vars.FirstNonZero(
		ResultsDir(*resultsFlag),
		configs.First[ResultsDir](loader, "results_dir"),
		"results",
	)
}

type Floorplan int

func (Module) Floorplan(
	loader configs.Loader,
) Floorplan {
	return vars.FirstNonZero(
		Floorplan(*floorplanFlag),
		configs.First[Floorplan](loader, "floorplan"),
		1,
	)
}

type RandomFloorplan bool

func (Module) RandomFloorplan(
	loader configs.Loader,
) RandomFloorplan {
	return vars.FirstNonZero(
		RandomFloorplan(*floorplanRandomFlag),
		configs.First[RandomFloorplan](loader, "floorplan_random"),
	)
}

// AttributeFiles resolves AttributesPath to the files a batch draws from.
type AttributeFiles func() ([]string, error)

func (Module) AttributeFiles(
	path AttributesPath,
) AttributeFiles {
	return func() ([]string, error) {
		stat, err := os.Stat(string(path))
		if err != nil {
			return nil, wrap(err)
		}
		if !stat.IsDir() {
			return []string{string(path)}, nil
		}
		return ListAttributeFiles(string(path))
	}
}

type NewPlan func(variants []agents.Variant) (Plan, error)

func (Module) NewPlan(
	runs RunsPerVariant,
	getFiles AttributeFiles,
	floorplan Floorplan,
	random RandomFloorplan,
) NewPlan {
	return func(variants []agents.Variant) (Plan, error) {
		files, err := getFiles()
		if err != nil {
			return Plan{}, err
		}
		return Plan{
			Variants:        variants,
			RunsPerVariant:  int(runs),
			AttributeFiles:  files,
			RandomFloorplan: bool(random),
			Floorplan:       int(floorplan),
		}, nil
	}
}

func (Module) Runner(
	workers Workers,
	getConfig envs.GetConfig,
	open envs.Open,
	newAgent agents.NewAgent,
	newController episodes.NewController,
	logger logs.Logger,
	newSpan logs.NewSpan,
) *Runner {
	return &Runner{
		Workers: int(workers),
		OpenEnv: func(ctx context.Context) (envs.Environment, error) {
			config, err := getConfig()
			if err != nil {
				return nil, err
			}
			return open(ctx, config)
		},
		NewAgent: func(variant agents.Variant) (episodes.Agent, error) {
			agent, err := newAgent(variant)
			if err != nil {
				return nil, err
			}
			return agent, nil
		},
		NewController: newController,
		LoadCatalog:   evidences.LoadCatalog,
		Logger:        logger,
		NewSpan:       newSpan,
	}
}

// NewSinks opens the csv reports and the workbook under the results dir.
type NewSinks func() (Sink, error)

func (Module) NewSinks(
	dir ResultsDir,
) NewSinks {
	return func() (Sink, error) {
		csvSink, err := NewCSVSink(string(dir))
		if err != nil {
			return nil, err
		}
		return Sinks{
			csvSink,
			NewXLSXSink(filepath.Join(string(dir), "benchmark_results.xlsx")),
		}, nil
	}
}
