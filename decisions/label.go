package decisions

import "strings"

type Label string

const (
	Professor   Label = "professor"
	Assassin    Label = "assassin"
	Student     Label = "student"
	Billionaire Label = "billionaire"
	Unknown     Label = "unknown"
)

// Labels are the professions a decision may name.
var Labels = []Label{
	Professor,
	Assassin,
	Student,
	Billionaire,
}

// ParseLabel maps anything outside the closed set to Unknown.
func ParseLabel(str string) (Label, bool) {
	label := Label(strings.ToLower(strings.TrimSpace(str)))
	switch label {
	case Professor, Assassin, Student, Billionaire, Unknown:
		return label, true
	}
	return Unknown, false
}
