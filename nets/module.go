package nets

import (
	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/logs"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}
