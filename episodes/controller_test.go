package episodes

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/agents"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/decisions"
	"github.com/reusee/sleuth/envs"
	"github.com/reusee/sleuth/evidences"
	"github.com/reusee/sleuth/modes"
)

func testController(t *testing.T) (ret *Controller) {
	dscope.New(
		modes.ForTest(t),
		dscope.Provide(configs.NewLoader(nil, "")),
		new(Module),
	).Call(func(
		newController NewController,
	) {
		ret = newController()
	})
	ret.Rand = rand.New(rand.NewPCG(1, 2))
	return
}

// scriptedPort replays decisions and records requests; the last decision repeats.
type scriptedPort struct {
	decisions []decisions.Decision
	requests  []decisions.Request
}

func (s *scriptedPort) Decide(ctx context.Context, req decisions.Request) decisions.Decision {
	s.requests = append(s.requests, req)
	i := min(len(s.requests), len(s.decisions)) - 1
	return s.decisions[i]
}

func look(confidence float64, stop bool) decisions.Decision {
	return decisions.Decision{
		Action:     "look",
		Prediction: decisions.Student,
		Confidence: confidence,
		Stop:       stop,
	}
}

func TestDefaults(t *testing.T) {
	c := testController(t)
	if c.Threshold != 7.5 {
		t.Fatalf("got %v", c.Threshold)
	}
	if c.MaxSteps != 0 {
		t.Fatalf("got %v", c.MaxSteps)
	}
}

func TestStopConfident(t *testing.T) {
	c := testController(t)
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "a room", Admissible: []string{"look"}},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{
			{Action: "look", Prediction: decisions.Assassin, Confidence: 8.0},
		},
	}
	result, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != StoppedConfident {
		t.Fatalf("got %v", result.Outcome)
	}
	if result.Prediction != decisions.Assassin || result.Confidence != 8.0 || result.Steps != 1 {
		t.Fatalf("got %+v", result)
	}
}

func TestStopConfidentTakesPrecedence(t *testing.T) {
	c := testController(t)
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "a room", Admissible: []string{"look"}},
		Frames:  []envs.Frame{{Observation: "a room", Done: true}},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{look(9, true)},
	}
	result, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != StoppedConfident {
		t.Fatalf("got %v", result.Outcome)
	}
}

func TestStopExplicit(t *testing.T) {
	c := testController(t)
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "a room", Admissible: []string{"look"}},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{
			look(0, false),
			look(0, true),
		},
	}
	result, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != StoppedExplicit || result.Steps != 2 || result.Confidence != 0 {
		t.Fatalf("got %+v", result)
	}
}

func TestDone(t *testing.T) {
	c := testController(t)
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "a room", Admissible: []string{"look", "wait"}},
		Frames: []envs.Frame{
			{Observation: "a room", Admissible: []string{"look", "wait"}},
			{Observation: "a room", Admissible: []string{"look", "wait"}},
			{Observation: "the end", Done: true},
		},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{
			{Action: "look", Prediction: decisions.Professor, Confidence: 2},
			{Action: "wait", Prediction: decisions.Professor, Confidence: 5},
			{Action: "look", Prediction: decisions.Billionaire, Confidence: 6.5},
		},
	}
	result, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != Done || result.Steps != 3 {
		t.Fatalf("got %+v", result)
	}
	if result.Prediction != decisions.Billionaire || result.Confidence != 6.5 {
		t.Fatalf("got %+v", result)
	}
}

func TestStepLimit(t *testing.T) {
	c := testController(t)
	c.MaxSteps = 4
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "a room", Admissible: []string{"look"}},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{look(1, false)},
	}
	result, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != StepLimit || result.Steps != 4 {
		t.Fatalf("got %+v", result)
	}
}

func TestAntiRepetition(t *testing.T) {
	for seed := range uint64(50) {
		c := testController(t)
		c.Rand = rand.New(rand.NewPCG(seed, seed))
		c.MaxSteps = 4
		admissible := []string{"A", "B", "C"}
		env := &envs.Scripted{
			Initial: envs.Frame{Observation: "a room", Admissible: admissible},
			Frames:  []envs.Frame{{Observation: "a room", Admissible: admissible}},
		}
		port := &scriptedPort{
			decisions: []decisions.Decision{
				{Action: "A"},
				{Action: "B"},
				{Action: "A"},
				{Action: "A"},
			},
		}
		var turns []Turn
		c.Observer = func(turn Turn) {
			turns = append(turns, turn)
		}
		if _, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil); err != nil {
			t.Fatal(err)
		}

		// the third proposal repeats A, the first executed action
		if turns[2].Executed == "A" || !turns[2].Substituted {
			t.Fatalf("got %+v", turns[2])
		}
		// the proposed action is removed only for this turn
		if !slices.Equal(port.requests[3].Admissible, admissible) {
			t.Fatalf("got %v", port.requests[3].Admissible)
		}
		for _, action := range env.Actions {
			if !slices.Contains(admissible, action) {
				t.Fatalf("got %v", env.Actions)
			}
		}
	}
}

func TestAntiRepetitionHistory(t *testing.T) {
	run := func(seed uint64, last []string) []string {
		c := testController(t)
		c.Rand = rand.New(rand.NewPCG(seed, 0))
		c.MaxSteps = 4
		env := &envs.Scripted{
			Initial: envs.Frame{Observation: "a room", Admissible: []string{"A", "B", "C"}},
			Frames: []envs.Frame{
				{Observation: "a room", Admissible: []string{"A", "B", "C"}},
				// only A is possible, so A repeats
				{Observation: "a room", Admissible: []string{"A"}},
				{Observation: "a room", Admissible: last},
			},
		}
		port := &scriptedPort{
			decisions: []decisions.Decision{
				{Action: "A"},
				{Action: "B"},
				{Action: "A"},
				{Action: "A"},
			},
		}
		if _, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(env.Actions[:3], []string{"A", "B", "A"}) {
			t.Fatalf("got %v", env.Actions)
		}
		return env.Actions
	}

	// executed [A, B, A], proposal A, admissible {A, B, C}
	drawn := make(map[string]bool)
	for seed := range uint64(50) {
		actions := run(seed, []string{"A", "B", "C"})
		last := actions[3]
		if last != "B" && last != "C" {
			t.Fatalf("got %v", actions)
		}
		drawn[last] = true
	}
	if !drawn["B"] || !drawn["C"] {
		t.Fatalf("got %v", drawn)
	}

	// executed [A, B, A], proposal A, admissible {A}
	actions := run(0, []string{"A"})
	if actions[3] != "A" {
		t.Fatalf("got %v", actions)
	}
}

func TestAntiRepetitionNoAlternative(t *testing.T) {
	c := testController(t)
	c.MaxSteps = 4
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "a room", Admissible: []string{"A"}},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{{Action: "A"}},
	}
	var turns []Turn
	c.Observer = func(turn Turn) {
		turns = append(turns, turn)
	}
	if _, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(env.Actions, []string{"A", "A", "A", "A"}) {
		t.Fatalf("got %v", env.Actions)
	}
	for _, turn := range turns {
		if turn.Substituted {
			t.Fatalf("got %+v", turn)
		}
	}
}

func TestEvidenceEndToEnd(t *testing.T) {
	c := testController(t)
	env := &envs.Scripted{
		Initial: envs.Frame{
			Observation: "You are in the kitchen.\nYour task is to: find the owner.",
			Admissible:  []string{"look", "go to table 1"},
		},
		Frames: []envs.Frame{
			{Observation: "you see an apple on the table", Admissible: []string{"look", "take apple"}},
			{Observation: "you see an apple on the table", Admissible: []string{"look"}},
		},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{
			{Action: "go to table 1", Prediction: decisions.Unknown},
			{Action: "take apple", Prediction: decisions.Student, Stop: true},
		},
	}
	catalog := evidences.NewCatalog("apple", "a red fruit")
	result, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), catalog)
	if err != nil {
		t.Fatal(err)
	}
	if result.Steps != 2 {
		t.Fatalf("got %+v", result)
	}

	first := port.requests[0]
	if first.Observation != "You are in the kitchen." {
		t.Fatalf("got %q", first.Observation)
	}
	if len(first.Evidence) != 0 {
		t.Fatalf("got %v", first.Evidence)
	}
	second := port.requests[1]
	if !slices.Equal(second.Evidence, []string{"a red fruit"}) {
		t.Fatalf("got %v", second.Evidence)
	}
	if !slices.Equal(second.Admissible, []string{"look", "take apple"}) {
		t.Fatalf("got %v", second.Admissible)
	}
}

func TestMemoryMapAsymmetry(t *testing.T) {
	c := testController(t)
	c.MaxSteps = 2
	c.Rand = rand.New(rand.NewPCG(3, 3))
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "hall", Admissible: []string{"open box", "look"}},
		Frames: []envs.Frame{
			{Observation: "the box is empty", Admissible: []string{"open box", "look"}},
			{Observation: "a hall", Admissible: []string{"open box", "look"}},
		},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{
			{Action: "open box"},
			{Action: "open box"},
		},
	}
	agent := agents.New(agents.MemoryMap, port, agents.Options{})
	if _, err := c.Run(context.Background(), env, agent, nil); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(env.Actions, []string{"open box", "look"}) {
		t.Fatalf("got %v", env.Actions)
	}
	// memory keeps the proposal, map keeps the executed substitute
	expectedMemory := "OBSERVED: hall\nACTION: open box\nOBSERVED: the box is empty\nACTION: open box"
	if got := agent.MemoryText(); got != expectedMemory {
		t.Fatalf("got %q", got)
	}
	expectedMap := "ACTION: open box\nOBSERVED: the box is empty\nACTION: look\nOBSERVED: a hall"
	if got := agent.MapText(); got != expectedMap {
		t.Fatalf("got %q", got)
	}
}

func TestFallbackEpisode(t *testing.T) {
	c := testController(t)
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "hall", Admissible: []string{"look around", "look"}},
		Frames: []envs.Frame{
			{Observation: "hall", Admissible: []string{"look around", "look"}},
			{Observation: "hall", Admissible: []string{"look around", "look"}},
			{Observation: "hall", Done: true},
		},
	}
	port := decisions.PortFunc(func(ctx context.Context, req decisions.Request) decisions.Decision {
		return decisions.Fallback(decisions.DefaultFallbackAction)
	})
	result, err := c.Run(context.Background(), env, agents.New(agents.Memory, port, agents.Options{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != Done || result.Prediction != decisions.Unknown || result.Confidence != 0 {
		t.Fatalf("got %+v", result)
	}
	if env.Actions[0] != "look around" || env.Actions[1] != "look" {
		t.Fatalf("got %v", env.Actions)
	}
}

func TestEnvironmentFault(t *testing.T) {
	c := testController(t)
	errCrash := errors.New("simulator crashed")
	env := &envs.Scripted{
		Initial:   envs.Frame{Observation: "hall", Admissible: []string{"look"}},
		StepErr:   errCrash,
		ErrAtStep: 1,
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{look(0, false)},
	}
	_, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil)
	if !errors.Is(err, envs.ErrEnvironment) || !errors.Is(err, errCrash) {
		t.Fatalf("got %v", err)
	}
}

func TestCanceled(t *testing.T) {
	c := testController(t)
	ctx, cancel := context.WithCancel(context.Background())
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "hall", Admissible: []string{"look"}},
	}
	port := decisions.PortFunc(func(_ context.Context, req decisions.Request) decisions.Decision {
		cancel()
		return look(0, false)
	})
	_, err := c.Run(ctx, env, agents.New(agents.Naive, port, agents.Options{}), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestZeroController(t *testing.T) {
	c := &Controller{Threshold: 7.5}
	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "a room", Admissible: []string{"look"}},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{look(9, false)},
	}
	result, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != StoppedConfident || result.Steps != 1 {
		t.Fatalf("got %+v", result)
	}
}

func TestZeroThreshold(t *testing.T) {
	var c *Controller
	dscope.New(
		modes.ForTest(t),
		dscope.Provide(configs.NewLoader([]string{"testdata/zero_threshold.cue"}, "")),
		new(Module),
	).Call(func(
		newController NewController,
	) {
		c = newController()
	})
	if c.Threshold != 0 {
		t.Fatalf("got %v", c.Threshold)
	}

	env := &envs.Scripted{
		Initial: envs.Frame{Observation: "a room", Admissible: []string{"look"}},
	}
	port := &scriptedPort{
		decisions: []decisions.Decision{look(0, false)},
	}
	result, err := c.Run(context.Background(), env, agents.New(agents.Naive, port, agents.Options{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != StoppedConfident || result.Steps != 1 {
		t.Fatalf("got %+v", result)
	}
}
