package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/reusee/dscope"
	"github.com/reusee/e5"
	"github.com/reusee/sleuth/cmds"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/modes"
	"github.com/reusee/sleuth/sleuthconfigs"
)

var (
	wrap = e5.Wrap.With(e5.WrapStacktrace)
)

var (
	agentFlag = cmds.Var[string]("-agent")
	tapFlag   = cmds.Switch("-tap")

	episodeCommand = cmds.Switch("episode")
	batchCommand   = cmds.Switch("batch")
)

func main() {
	cmds.Execute(os.Args[1:])

	if err := sleuthconfigs.LoadDotEnv(); err != nil {
		exit(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	// config faults are fatal before any episode starts
	var err error
	scope.Call(func(loader configs.Loader) {
		_, err = loader.Paths()
	})
	if err != nil {
		exit(err)
	}

	switch {
	case *episodeCommand:
		scope.Call(func(run RunEpisode) {
			err = run(ctx)
		})
	case *batchCommand:
		scope.Call(func(run RunBatch) {
			err = run(ctx)
		})
	default:
		fmt.Fprintln(os.Stderr, "usage: sleuth [flags] episode|batch")
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(2)
	}
	if err != nil {
		stop()
		exit(err)
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
