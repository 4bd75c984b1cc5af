package decisions

import (
	"context"
	"fmt"
)

type Decision struct {
	Action     string
	Prediction Label
	Confidence float64
	Stop       bool
	// Reasoning is only for observability and never enters agent histories.
	Reasoning string
	// Degraded marks the fallback produced when reasoning failed.
	Degraded bool
}

func (d Decision) String() string {
	return fmt.Sprintf("%s -> %s (%.2f) stop=%v", d.Action, d.Prediction, d.Confidence, d.Stop)
}

const DefaultFallbackAction = "look around"

func Fallback(action string) Decision {
	return Decision{
		Action:     action,
		Prediction: Unknown,
		Confidence: 0,
		Stop:       false,
		Degraded:   true,
	}
}

type Request struct {
	Observation string
	Evidence    []string
	Admissible  []string
	// nil means the agent has no such history
	Memory *string
	Map    *string
}

// Port never fails; reasoning faults degrade to a fallback decision.
type Port interface {
	Decide(ctx context.Context, req Request) Decision
}

type PortFunc func(ctx context.Context, req Request) Decision

var _ Port = PortFunc(nil)

func (p PortFunc) Decide(ctx context.Context, req Request) Decision {
	return p(ctx, req)
}
