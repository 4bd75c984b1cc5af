package batches

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/reusee/sleuth/decisions"
)

// Record is one row of the report, one per finished or failed episode.
type Record struct {
	RunID       uuid.UUID
	AgentType   string
	Run         int
	File        string
	Floorplan   int
	GroundTruth decisions.Label
	Prediction  decisions.Label
	Confidence  float64
	Steps       int
	Correct     bool
	Outcome     string
	// empty for completed episodes
	Error string
}

func (r Record) Failed() bool {
	return r.Error != ""
}

var header = []string{
	"run_id",
	"agent_type",
	"run",
	"file",
	"floorplan",
	"ground_truth",
	"prediction",
	"confidence",
	"steps",
	"correct",
	"outcome",
	"error",
}

func (r Record) row() []string {
	return []string{
		r.RunID.String(),
		r.AgentType,
		strconv.Itoa(r.Run),
		r.File,
		strconv.Itoa(r.Floorplan),
		string(r.GroundTruth),
		string(r.Prediction),
		strconv.FormatFloat(r.Confidence, 'f', -1, 64),
		strconv.Itoa(r.Steps),
		strconv.FormatBool(r.Correct),
		r.Outcome,
		r.Error,
	}
}

func (r Record) cells() []any {
	return []any{
		r.RunID.String(),
		r.AgentType,
		r.Run,
		r.File,
		r.Floorplan,
		string(r.GroundTruth),
		string(r.Prediction),
		r.Confidence,
		r.Steps,
		r.Correct,
		r.Outcome,
		r.Error,
	}
}
