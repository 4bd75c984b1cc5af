package batches

import (
	"path/filepath"
	"strings"

	"github.com/reusee/sleuth/decisions"
)

// GroundTruth derives the expected profession from an attribute file name.
func GroundTruth(filename string) decisions.Label {
	name := strings.ToLower(filepath.Base(filename))
	for _, label := range decisions.Labels {
		if strings.Contains(name, string(label)) {
			return label
		}
	}
	return decisions.Unknown
}
