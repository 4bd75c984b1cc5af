package batches

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"slices"

	"github.com/reusee/sleuth/agents"
)

const (
	DefaultRunsPerVariant = 20
	MaxFloorplan          = 9
)

type Plan struct {
	Variants       []agents.Variant
	RunsPerVariant int
	AttributeFiles []string
	// draw a floorplan in 1..MaxFloorplan for every run
	RandomFloorplan bool
	// used when RandomFloorplan is false
	Floorplan int
}

// ListAttributeFiles returns the sorted *_attributes.json files in dir.
func ListAttributeFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*_attributes.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAttributeFiles, dir)
	}
	slices.Sort(files)
	return files, nil
}

type Job struct {
	Variant   agents.Variant
	Run       int
	File      string
	Floorplan int
}

// Jobs draws the run configurations, variant by variant.
func (p Plan) Jobs(rnd *rand.Rand) ([]Job, error) {
	if len(p.Variants) == 0 {
		return nil, ErrNoVariants
	}
	if len(p.AttributeFiles) == 0 {
		return nil, ErrNoAttributeFiles
	}
	runs := p.RunsPerVariant
	if runs <= 0 {
		runs = DefaultRunsPerVariant
	}
	intN := rand.IntN
	if rnd != nil {
		intN = rnd.IntN
	}
	var jobs []Job
	for _, variant := range p.Variants {
		for i := range runs {
			job := Job{
				Variant:   variant,
				Run:       i + 1,
				File:      p.AttributeFiles[intN(len(p.AttributeFiles))],
				Floorplan: p.Floorplan,
			}
			if p.RandomFloorplan {
				job.Floorplan = 1 + intN(MaxFloorplan)
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}
