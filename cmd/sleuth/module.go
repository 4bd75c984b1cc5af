package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/batches"
	"github.com/reusee/sleuth/debugs"
	"github.com/reusee/sleuth/sleuthconfigs"
)

type Module struct {
	dscope.Module
	Batches batches.Module
	Debugs  debugs.Module
	Configs sleuthconfigs.Module
}
