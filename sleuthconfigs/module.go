package sleuthconfigs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
