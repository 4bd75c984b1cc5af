package batches

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
)

type Summary struct {
	AgentType string
	Correct   int
	Total     int
	Failed    int
	// percent of Total
	Accuracy float64
	// over completed runs only
	AvgSteps      float64
	AvgConfidence float64
}

// Summarize groups records by agent type, sorted by name.
// Failed runs count as incorrect and are left out of the means.
func Summarize(records []Record) []Summary {
	groups := lo.GroupBy(records, func(r Record) string {
		return r.AgentType
	})
	var ret []Summary
	for _, agentType := range slices.Sorted(maps.Keys(groups)) {
		group := groups[agentType]
		completed := lo.Reject(group, func(r Record, _ int) bool {
			return r.Failed()
		})
		summary := Summary{
			AgentType: agentType,
			Correct: lo.CountBy(group, func(r Record) bool {
				return r.Correct
			}),
			Total:  len(group),
			Failed: len(group) - len(completed),
		}
		summary.Accuracy = 100 * float64(summary.Correct) / float64(summary.Total)
		if len(completed) > 0 {
			summary.AvgSteps = lo.MeanBy(completed, func(r Record) float64 {
				return float64(r.Steps)
			})
			summary.AvgConfidence = lo.MeanBy(completed, func(r Record) float64 {
				return r.Confidence
			})
		}
		ret = append(ret, summary)
	}
	return ret
}

func FormatSummary(w io.Writer, summaries []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{
		"agent_type", "# Correct", "# Total", "# Failed", "Accuracy (%)", "Avg Steps", "Avg Confidence",
	}, "\t"))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\t%.2f\t%.2f\n",
			s.AgentType,
			s.Correct,
			s.Total,
			s.Failed,
			s.Accuracy,
			s.AvgSteps,
			s.AvgConfidence,
		)
	}
	return tw.Flush()
}
