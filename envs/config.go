package envs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

type Config struct {
	Env EnvConfig `yaml:"env"`
}

type EnvConfig struct {
	// starlark or remote
	Type     string        `yaml:"type"`
	Script   string        `yaml:"script"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

func ParseConfig(data []byte) (ret Config, err error) {
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return ret, err
	}
	if ret.Env.Type == "" {
		return ret, fmt.Errorf("%w: env.type is empty", ErrUnknownEnvironment)
	}
	return ret, nil
}

// LoadConfig reads a yaml config; a relative script path is resolved against the config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	config, err := ParseConfig(data)
	if err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	if config.Env.Script != "" && !filepath.IsAbs(config.Env.Script) {
		config.Env.Script = filepath.Join(filepath.Dir(path), config.Env.Script)
	}
	return config, nil
}

// Open creates a fresh environment for one episode.
type Open func(ctx context.Context, config Config) (Environment, error)
