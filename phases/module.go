package phases

import (
	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/generators"
	"github.com/reusee/sleuth/logs"
)

type Module struct {
	dscope.Module
	Generators generators.Module
	Logs       logs.Module
}
