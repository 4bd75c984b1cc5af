package decisions

import (
	"context"
	"fmt"

	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/configs"
	"github.com/reusee/sleuth/generators"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/phases"
	"github.com/reusee/sleuth/vars"
)

// GeneratorPort asks a generator for a decision through a single decide call.
type GeneratorPort struct {
	generator      generators.Generator
	style          Style
	fallbackAction string

	Logger        dscope.Inject[logs.Logger]
	BuildGenerate dscope.Inject[phases.BuildGenerate]
}

var _ Port = new(GeneratorPort)

func (p *GeneratorPort) Style() Style {
	return p.style
}

func (p *GeneratorPort) Decide(ctx context.Context, req Request) Decision {
	decision, warnings, err := p.decide(ctx, req)
	if err != nil {
		p.Logger().WarnContext(ctx, "decision failed, using fallback",
			"error", err,
			"style", p.style,
			"fallback", p.fallbackAction,
		)
		return Fallback(p.fallbackAction)
	}
	for _, warning := range warnings {
		p.Logger().WarnContext(ctx, warning,
			"style", p.style,
		)
	}
	if decision.Reasoning != "" {
		p.Logger().InfoContext(ctx, "reasoning",
			"style", p.style,
			"text", decision.Reasoning,
		)
	}
	p.Logger().InfoContext(ctx, "decision",
		"action", decision.Action,
		"prediction", decision.Prediction,
		"confidence", decision.Confidence,
		"stop", decision.Stop,
	)
	return decision
}

func (p *GeneratorPort) decide(ctx context.Context, req Request) (ret Decision, warnings []string, err error) {
	called := false
	decideFunc := &generators.Func{
		Decl: decideDecl(p.style),
		Func: func(args map[string]any) (map[string]any, error) {
			decision, ws, err := Decode(args, p.style)
			if err != nil {
				return nil, err
			}
			ret = decision
			warnings = ws
			called = true
			return map[string]any{
				"accepted": true,
			}, nil
		},
	}

	state := generators.NewFuncMap(
		generators.NewPrompts(
			systemPrompt(p.style, req.Memory != nil, req.Map != nil),
			[]*generators.Content{
				{
					Role: generators.RoleUser,
					Parts: []generators.Part{
						generators.Text(userPrompt(req)),
					},
				},
			},
		),
		decideFunc,
	)

	if _, err := phases.Run(ctx, p.BuildGenerate()(p.generator)(nil), state); err != nil {
		return Decision{}, nil, fmt.Errorf("%w: %w", ErrReasoning, err)
	}
	if !called {
		return Decision{}, nil, fmt.Errorf("%w: no %s call", ErrReasoning, decideFuncName)
	}
	return
}

type FallbackAction string

func (Module) FallbackAction(
	loader configs.Loader,
) FallbackAction {
	return vars.FirstNonZero(
		configs.First[FallbackAction](loader, "fallback_action"),
		DefaultFallbackAction,
	)
}

type NewGeneratorPort func(generator generators.Generator, style Style) *GeneratorPort

func (Module) NewGeneratorPort(
	inject dscope.InjectStruct,
	fallbackAction FallbackAction,
) NewGeneratorPort {
	return func(generator generators.Generator, style Style) *GeneratorPort {
		ret := &GeneratorPort{
			generator:      generator,
			style:          style,
			fallbackAction: string(fallbackAction),
		}
		inject(&ret)
		return ret
	}
}
