package envs

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

var sceneIndexPattern = regexp.MustCompile(`-([0-9]{1,3})/`)

// MatchFloorplan reports whether a task path belongs to floorplan n.
func MatchFloorplan(path string, n int) bool {
	pattern := regexp.MustCompile(`FloorPlan` + strconv.Itoa(n) + `(?:[^0-9]|$)`)
	if pattern.MatchString(path) {
		return true
	}
	match := sceneIndexPattern.FindStringSubmatch(path)
	if match == nil {
		return false
	}
	i, err := strconv.Atoi(match[1])
	return err == nil && i == n
}

// RestrictFloorplan keeps only tasks of floorplan n.
func RestrictFloorplan(ctx context.Context, env TaskRestrictor, n int) error {
	tasks, err := env.Tasks(ctx)
	if err != nil {
		return err
	}
	var kept []string
	for _, task := range tasks {
		if MatchFloorplan(task, n) {
			kept = append(kept, task)
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("%w: floorplan %d among %d tasks", ErrNoMatchingTask, n, len(tasks))
	}
	return env.SetTasks(ctx, kept)
}
