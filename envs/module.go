package envs

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/cmds"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/nets"
	"github.com/reusee/sleuth/vars"
)

type Module struct {
	dscope.Module
	Nets nets.Module
	Logs logs.Module
}

func (Module) Open(
	client nets.HTTPClient,
	logger logs.Logger,
) Open {
	return func(ctx context.Context, config Config) (Environment, error) {
		switch strings.ToLower(config.Env.Type) {

		case "starlark":
			src, err := os.ReadFile(config.Env.Script)
			if err != nil {
				return nil, err
			}
			return NewStarlark(config.Env.Script, src, logger)

		case "remote":
			if config.Env.Timeout > 0 {
				c := *client
				c.Timeout = config.Env.Timeout
				client = &c
			}
			return NewRemote(config.Env.Endpoint, client), nil

		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnvironment, config.Env.Type)
	}
}

var configPathFlag = cmds.Var[string]("-env-config")

type ConfigPath string

func (Module) ConfigPath(
	loader configs.Loader,
) ConfigPath {
	return vars.FirstNonZero(
		ConfigPath(*configPathFlag),
		configs.First[ConfigPath](loader, "environment.config_file"),
		ConfigPath(os.Getenv("SLEUTH_ENV_CONFIG")),
	)
}

// GetConfig resolves the environment config from the yaml file or the cue environment section.
type GetConfig func() (Config, error)

func (Module) GetConfig(
	path ConfigPath,
	loader configs.Loader,
) GetConfig {
	return func() (ret Config, err error) {
		if path != "" {
			return LoadConfig(string(path))
		}
		ret.Env.Type = configs.First[string](loader, "environment.type")
		ret.Env.Script = configs.First[string](loader, "environment.script")
		ret.Env.Endpoint = configs.First[string](loader, "environment.endpoint")
		if timeout := configs.First[string](loader, "environment.timeout"); timeout != "" {
			ret.Env.Timeout, err = time.ParseDuration(timeout)
			if err != nil {
				return ret, err
			}
		}
		if ret.Env.Type == "" {
			return ret, fmt.Errorf("%w: no environment configured", ErrUnknownEnvironment)
		}
		return ret, nil
	}
}
