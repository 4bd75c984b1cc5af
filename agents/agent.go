package agents

import (
	"context"

	"github.com/reusee/sleuth/decisions"
	"github.com/reusee/sleuth/histories"
)

type Options struct {
	// zero means the variant default
	MemoryCapacity int
	MapCapacity    int
}

// Agent is a decision port plus the histories its variant owns.
// An Agent belongs to one episode.
type Agent struct {
	variant    Variant
	port       decisions.Port
	memory     *histories.History
	mapHistory *histories.History
}

func New(variant Variant, port decisions.Port, options Options) *Agent {
	ret := &Agent{
		variant: variant,
		port:    port,
	}
	if variant.Memory {
		capacity := options.MemoryCapacity
		if capacity == 0 {
			capacity = variant.DefaultCapacity()
		}
		ret.memory = histories.New(capacity)
	}
	if variant.Map {
		capacity := options.MapCapacity
		if capacity == 0 {
			capacity = variant.DefaultCapacity()
		}
		ret.mapHistory = histories.New(capacity)
	}
	return ret
}

func (a *Agent) Variant() Variant {
	return a.variant
}

// Decide renders the owned histories into the request and asks the port.
// Memory records the proposed action, before any substitution by the caller.
// Degraded decisions leave memory untouched.
func (a *Agent) Decide(ctx context.Context, observation string, evidence []string, admissible []string) decisions.Decision {
	req := decisions.Request{
		Observation: observation,
		Evidence:    evidence,
		Admissible:  admissible,
	}
	if a.memory != nil {
		text := a.memory.Render()
		req.Memory = &text
	}
	if a.mapHistory != nil {
		text := a.mapHistory.Render()
		req.Map = &text
	}

	decision := a.port.Decide(ctx, req)

	if a.memory != nil && !decision.Degraded {
		a.memory.AppendPair(
			"OBSERVED: "+observation,
			"ACTION: "+decision.Action,
		)
	}

	return decision
}

func (a *Agent) HasMap() bool {
	return a.mapHistory != nil
}

// UpdateMap records the executed action and the observation it produced.
func (a *Agent) UpdateMap(observation string, executedAction string) {
	if a.mapHistory == nil {
		return
	}
	a.mapHistory.AppendPair(
		"ACTION: "+executedAction,
		"OBSERVED: "+observation,
	)
}

func (a *Agent) HasMemory() bool {
	return a.memory != nil
}

func (a *Agent) MemoryText() string {
	if a.memory == nil {
		return ""
	}
	return a.memory.Render()
}

func (a *Agent) MapText() string {
	if a.mapHistory == nil {
		return ""
	}
	return a.mapHistory.Render()
}
