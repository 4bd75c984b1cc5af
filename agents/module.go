package agents

import (
	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/decisions"
	"github.com/reusee/sleuth/generators"
)

type Module struct {
	dscope.Module
	Decisions decisions.Module
}

// GetOptions reads per variant capacity overrides, keyed by canonical name.
type GetOptions func(variant Variant) Options

func (Module) GetOptions(
	loader configs.Loader,
) GetOptions {
	return func(variant Variant) Options {
		return Options{
			MemoryCapacity: configs.First[int](loader, "agents."+variant.String()+".memory_capacity"),
			MapCapacity:    configs.First[int](loader, "agents."+variant.String()+".map_capacity"),
		}
	}
}

// NewAgent builds a fresh agent backed by the default generator.
type NewAgent func(variant Variant) (*Agent, error)

func (Module) NewAgent(
	getGenerator generators.GetDefaultGenerator,
	newPort decisions.NewGeneratorPort,
	getOptions GetOptions,
) NewAgent {
	return func(variant Variant) (*Agent, error) {
		generator, err := getGenerator()
		if err != nil {
			return nil, err
		}
		return New(
			variant,
			newPort(generator, variant.Style()),
			getOptions(variant),
		), nil
	}
}
