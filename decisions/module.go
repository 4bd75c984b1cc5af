package decisions

import (
	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/phases"
)

type Module struct {
	dscope.Module
	Phases phases.Module
	Logs   logs.Module
}
