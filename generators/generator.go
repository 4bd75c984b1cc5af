package generators

import (
	"context"
	"fmt"
	"strings"

	"github.com/reusee/sleuth/vars"
)

type Generator interface {
	Args() GeneratorArgs
	Generate(ctx context.Context, state State) (State, error)
}

// GeneratorFunc adapts a function to Generator, mostly for scripted models in tests.
type GeneratorFunc func(ctx context.Context, state State) (State, error)

var _ Generator = GeneratorFunc(nil)

func (g GeneratorFunc) Args() GeneratorArgs {
	return GeneratorArgs{
		Model: "func",
	}
}

func (g GeneratorFunc) Generate(ctx context.Context, state State) (State, error) {
	return g(ctx, state)
}

type GetGenerator func(name string) (Generator, error)

func (Module) GetGenerator(
	newOpenAI NewOpenAI,
	newOpenRouter NewOpenRouter,
	newDeepseek NewDeepseek,
	openAIKey OpenAIAPIKey,
	getSpecs GetGeneratorSpecs,
) GetGenerator {
	return func(name string) (Generator, error) {

		// user-defined first
		specs, err := getSpecs()
		if err != nil {
			return nil, err
		}
		for _, spec := range specs {
			if spec.Name != name {
				continue
			}
			switch strings.ToLower(spec.Type) {
			case "open-router", "open_router", "openrouter":
				return newOpenRouter(spec.GeneratorArgs), nil
			case "deepseek":
				return newDeepseek(spec.GeneratorArgs), nil
			case "openai", "open-ai", "open_ai":
				return newOpenAI(spec.GeneratorArgs, vars.FirstNonZero(
					spec.APIKey,
					string(openAIKey),
				)), nil
			case "ollama":
				spec.GeneratorArgs.BaseURL = "http://127.0.0.1:11434/v1"
				return newOpenAI(spec.GeneratorArgs, "ollama"), nil
			default:
				return nil, fmt.Errorf("unknown generator type: %q", spec.Type)
			}
		}

		// ollama
		provider, modelName, ok := strings.Cut(name, ":")
		if ok && provider == "ollama" {
			return newOpenAI(GeneratorArgs{
				BaseURL: "http://127.0.0.1:11434/v1",
				Model:   modelName,
			}, "ollama"), nil
		}

		// built-ins
		switch name {

		case "gpt-4o-mini", "gpt-4o", "gpt-4.1-mini", "gpt-4.1":
			return newOpenAI(GeneratorArgs{
				BaseURL:           "https://api.openai.com/v1",
				Model:             name,
				MaxGenerateTokens: vars.PtrTo(4 * K),
			}, string(openAIKey)), nil

		case "deepseek-chat":
			return newDeepseek(GeneratorArgs{
				Model:             name,
				MaxGenerateTokens: vars.PtrTo(4 * K),
			}), nil

		}

		return nil, fmt.Errorf("invalid model: %s", name)
	}
}
