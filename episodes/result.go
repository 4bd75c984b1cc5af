package episodes

import (
	"fmt"

	"github.com/reusee/sleuth/decisions"
	"github.com/reusee/sleuth/evidences"
)

type Outcome uint8

const (
	StoppedConfident Outcome = iota + 1
	StoppedExplicit
	Done
	StepLimit
)

func (o Outcome) String() string {
	switch o {
	case StoppedConfident:
		return "stopped_confident"
	case StoppedExplicit:
		return "stopped_explicit"
	case Done:
		return "done"
	case StepLimit:
		return "step_limit"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

type Result struct {
	Prediction decisions.Label
	Confidence float64
	Steps      int
	Outcome    Outcome
}

// Turn describes one iteration of the loop, for observers.
type Turn struct {
	Step        int
	Observation string
	Decision    decisions.Decision
	Executed    string
	Substituted bool
	Found       []evidences.Found
	Done        bool
}
