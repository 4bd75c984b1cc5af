package generators

import (
	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/debugs"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/nets"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Nets    nets.Module
	Logs    logs.Module
	Debugs  debugs.Module
}
