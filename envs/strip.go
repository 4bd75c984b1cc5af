package envs

import "strings"

// StripTaskLine drops a trailing "Your task is to ..." line.
func StripTaskLine(observation string) string {
	lines := strings.Split(observation, "\n")
	last := strings.ToLower(strings.TrimSpace(lines[len(lines)-1]))
	if strings.HasPrefix(last, "your task is to") {
		return strings.Join(lines[:len(lines)-1], "\n")
	}
	return observation
}
