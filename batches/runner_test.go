package batches

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/agents"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/decisions"
	"github.com/reusee/sleuth/envs"
	"github.com/reusee/sleuth/episodes"
	"github.com/reusee/sleuth/evidences"
	"github.com/reusee/sleuth/modes"
)

func testRunner(t *testing.T) (ret *Runner) {
	dscope.New(
		modes.ForTest(t),
		dscope.Provide(configs.NewLoader(nil, "")),
		new(Module),
	).Call(func(
		runner *Runner,
	) {
		ret = runner
	})
	ret.Rand = rand.New(rand.NewPCG(3, 4))
	return
}

// fixedAgents always predict label with high confidence.
func fixedAgents(label decisions.Label) func(agents.Variant) (episodes.Agent, error) {
	return func(variant agents.Variant) (episodes.Agent, error) {
		port := decisions.PortFunc(func(ctx context.Context, req decisions.Request) decisions.Decision {
			return decisions.Decision{
				Action:     "look",
				Prediction: label,
				Confidence: 9,
			}
		})
		return agents.New(variant, port, agents.Options{}), nil
	}
}

type envRecorder struct {
	sync.Mutex
	envs []*envs.Scripted
}

func (e *envRecorder) open(newEnv func() *envs.Scripted) func(context.Context) (envs.Environment, error) {
	return func(ctx context.Context) (envs.Environment, error) {
		env := newEnv()
		e.Lock()
		e.envs = append(e.envs, env)
		e.Unlock()
		return env, nil
	}
}

func householdEnv() *envs.Scripted {
	return &envs.Scripted{
		TaskList: []string{
			"tasks/FloorPlan1-trial/a",
			"tasks/FloorPlan2-trial/b",
			"tasks/FloorPlan12-trial/c",
		},
		Initial: envs.Frame{
			Observation: "A study with exams on the desk.\nYour task is to: look around",
			Admissible:  []string{"look", "go to desk"},
		},
	}
}

func testPlan(t *testing.T, variants ...agents.Variant) Plan {
	files, err := ListAttributeFiles("testdata")
	if err != nil {
		t.Fatal(err)
	}
	return Plan{
		Variants:       variants,
		RunsPerVariant: 5,
		AttributeFiles: files,
		Floorplan:      2,
	}
}

func TestRunnerDefaults(t *testing.T) {
	runner := testRunner(t)
	if runner.Workers != 1 {
		t.Fatalf("got %v", runner.Workers)
	}
	if runner.NewController().Threshold != episodes.DefaultThreshold {
		t.Fatalf("got %v", runner.NewController().Threshold)
	}
}

func TestRunner(t *testing.T) {
	runner := testRunner(t)
	runner.Workers = 4
	recorder := new(envRecorder)
	runner.OpenEnv = recorder.open(householdEnv)
	runner.NewAgent = fixedAgents(decisions.Professor)

	sink := new(MemorySink)
	plan := testPlan(t, agents.Naive, agents.CoTMemoryMap)
	if err := runner.Run(context.Background(), plan, sink); err != nil {
		t.Fatal(err)
	}

	records := sink.Records()
	if len(records) != 10 {
		t.Fatalf("got %v", len(records))
	}
	ids := make(map[string]bool)
	perAgent := make(map[string]int)
	for _, record := range records {
		ids[record.RunID.String()] = true
		perAgent[record.AgentType]++
		if record.Failed() {
			t.Fatalf("got %v", record.Error)
		}
		if record.Steps != 1 || record.Outcome != "stopped_confident" {
			t.Fatalf("got %+v", record)
		}
		if record.Floorplan != 2 {
			t.Fatalf("got %v", record.Floorplan)
		}
		if record.Correct != (record.GroundTruth == decisions.Professor) {
			t.Fatalf("got %+v", record)
		}
		if record.File != "professor_attributes.json" && record.File != "assassin_attributes.json" {
			t.Fatalf("got %v", record.File)
		}
	}
	if len(ids) != 10 {
		t.Fatalf("got %v", ids)
	}
	if perAgent["naive"] != 5 || perAgent["cot_memory_map"] != 5 {
		t.Fatalf("got %v", perAgent)
	}

	if len(recorder.envs) != 10 {
		t.Fatalf("got %v", len(recorder.envs))
	}
	for _, env := range recorder.envs {
		if !env.Closed {
			t.Fatal("not closed")
		}
		if len(env.TaskList) != 1 || env.TaskList[0] != "tasks/FloorPlan2-trial/b" {
			t.Fatalf("got %v", env.TaskList)
		}
	}
}

func TestRunnerEnvironmentFault(t *testing.T) {
	runner := testRunner(t)
	runner.Workers = 2
	var n int
	var lock sync.Mutex
	runner.OpenEnv = func(ctx context.Context) (envs.Environment, error) {
		env := householdEnv()
		lock.Lock()
		n++
		if n%2 == 0 {
			env.StepErr = fmt.Errorf("%w: simulator crashed", envs.ErrEnvironment)
		}
		lock.Unlock()
		return env, nil
	}
	runner.NewAgent = fixedAgents(decisions.Assassin)

	sink := new(MemorySink)
	if err := runner.Run(context.Background(), testPlan(t, agents.Memory), sink); err != nil {
		t.Fatal(err)
	}
	records := sink.Records()
	if len(records) != 5 {
		t.Fatalf("got %v", len(records))
	}
	var failed int
	for _, record := range records {
		if record.Failed() {
			failed++
			if record.Correct {
				t.Fatalf("got %+v", record)
			}
		}
	}
	if failed != 2 {
		t.Fatalf("got %v", failed)
	}
}

func TestRunnerNoMatchingTask(t *testing.T) {
	runner := testRunner(t)
	runner.OpenEnv = func(ctx context.Context) (envs.Environment, error) {
		return householdEnv(), nil
	}
	runner.NewAgent = fixedAgents(decisions.Student)

	plan := testPlan(t, agents.Naive)
	plan.Floorplan = 7
	sink := new(MemorySink)
	err := runner.Run(context.Background(), plan, sink)
	if !errors.Is(err, envs.ErrNoMatchingTask) {
		t.Fatalf("got %v", err)
	}
	if len(sink.Records()) != 0 {
		t.Fatalf("got %v", sink.Records())
	}
}

func TestRunnerMissingCatalog(t *testing.T) {
	runner := testRunner(t)
	runner.OpenEnv = func(ctx context.Context) (envs.Environment, error) {
		return householdEnv(), nil
	}
	runner.NewAgent = fixedAgents(decisions.Student)

	plan := testPlan(t, agents.Naive)
	plan.AttributeFiles = []string{"testdata/missing_attributes.json"}
	err := runner.Run(context.Background(), plan, new(MemorySink))
	if err == nil {
		t.Fatal("should fail")
	}
}

func TestRunnerCanceled(t *testing.T) {
	runner := testRunner(t)
	runner.OpenEnv = func(ctx context.Context) (envs.Environment, error) {
		return householdEnv(), nil
	}
	runner.NewAgent = fixedAgents(decisions.Student)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runner.Run(ctx, testPlan(t, agents.Naive), new(MemorySink))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestNewPlan(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		dscope.Provide(configs.NewLoader(nil, "")),
		new(Module),
	).Fork(
		func() AttributesPath {
			return "testdata"
		},
	).Call(func(
		newPlan NewPlan,
	) {
		plan, err := newPlan(agents.Variants())
		if err != nil {
			t.Fatal(err)
		}
		if len(plan.AttributeFiles) != 2 {
			t.Fatalf("got %v", plan.AttributeFiles)
		}
		if plan.RunsPerVariant != DefaultRunsPerVariant {
			t.Fatalf("got %v", plan.RunsPerVariant)
		}
		if plan.Floorplan != 1 || plan.RandomFloorplan {
			t.Fatalf("got %+v", plan)
		}
		if len(plan.Variants) != 8 {
			t.Fatalf("got %v", plan.Variants)
		}
	})
}

func TestNewPlanSingleFile(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		dscope.Provide(configs.NewLoader(nil, "")),
		new(Module),
	).Fork(
		func() AttributesPath {
			return "testdata/professor_attributes.json"
		},
	).Call(func(
		newPlan NewPlan,
	) {
		plan, err := newPlan([]agents.Variant{agents.Naive})
		if err != nil {
			t.Fatal(err)
		}
		if len(plan.AttributeFiles) != 1 {
			t.Fatalf("got %v", plan.AttributeFiles)
		}
	})
}

func TestZeroRunner(t *testing.T) {
	runner := &Runner{
		OpenEnv: func(ctx context.Context) (envs.Environment, error) {
			return householdEnv(), nil
		},
		NewAgent: fixedAgents(decisions.Professor),
		NewController: func() *episodes.Controller {
			return &episodes.Controller{Threshold: episodes.DefaultThreshold}
		},
		LoadCatalog: evidences.LoadCatalog,
	}
	plan := testPlan(t, agents.Naive)
	plan.RunsPerVariant = 2
	sink := new(MemorySink)
	if err := runner.Run(context.Background(), plan, sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.Records()) != 2 {
		t.Fatalf("got %v", sink.Records())
	}
}
