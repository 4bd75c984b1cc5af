package decisions

import (
	"strings"

	"github.com/reusee/sleuth/generators"
)

const rolePrompt = `You are an intelligent agent exploring a house to guess the profession of the resident.

Your job is to determine the likely profession of the room's occupant (one of: professor, assassin, student, billionaire), but only after gathering enough evidence.

Associate the profession with the objects you see. Think about what objects each profession might have.

Your goal is to guess the profession of the occupant based on observed items.
`

const reflectivePrompt = `
At each step:
- Analyze your current observation.
- Consider all previously seen object descriptions.
- Think step-by-step to decide on the most informative next action.
- If confident enough, predict the profession and explain your reasoning.
`

const scalePrompt = `
Confidence is from 0 to 10:
- 10 = Absolute certainty.
- 0 = No idea.

If you're confident enough and can justify your guess based on seen objects, you may stop.
`

const answerPrompt = `
Always answer by calling the decide function exactly once. The action must be one of the admissible commands. Use prediction "unknown" until you have evidence.
`

func systemPrompt(style Style, hasMemory bool, hasMap bool) string {
	var b strings.Builder
	b.WriteString(rolePrompt)
	if style == Reflective {
		b.WriteString(reflectivePrompt)
	}
	b.WriteString(scalePrompt)
	switch {
	case hasMemory && hasMap:
		b.WriteString("\nUse history of actions, memory of previous steps, and a local map of opened/closed containers to plan exploration.\n")
	case hasMemory:
		b.WriteString("\nThe memory lists your previous observations and actions in chronological order.\n")
	case hasMap:
		b.WriteString("\nUse a local map of explored/unexplored places to choose your next action more wisely.\n")
	}
	b.WriteString(answerPrompt)
	return b.String()
}

func userPrompt(req Request) string {
	var b strings.Builder
	section := func(name string, body string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(name)
		b.WriteString(":\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	section("observation", req.Observation)
	section("seen_descriptions", strings.Join(req.Evidence, "\n"))

	var cmds strings.Builder
	for i, cmd := range req.Admissible {
		if i > 0 {
			cmds.WriteString("\n")
		}
		cmds.WriteString("- ")
		cmds.WriteString(cmd)
	}
	section("admissible_commands", cmds.String())

	if req.Memory != nil {
		section("memory", *req.Memory)
	}
	if req.Map != nil {
		section("local_map", *req.Map)
	}
	return b.String()
}

const decideFuncName = "decide"

func decideDecl(style Style) generators.FuncDecl {
	enum := []string{string(Unknown)}
	for _, label := range Labels {
		enum = append(enum, string(label))
	}
	var params generators.Vars
	if style == Reflective {
		params = append(params, generators.Var{
			Name:        "reasoning",
			Type:        generators.TypeString,
			Description: "step by step reasoning behind the choice",
		})
	}
	params = append(params,
		generators.Var{
			Name:        "action",
			Type:        generators.TypeString,
			Description: "most useful next action to explore, one of the admissible commands",
		},
		generators.Var{
			Name:        "prediction",
			Type:        generators.TypeString,
			Description: "best guess of profession so far",
			Enum:        enum,
		},
		generators.Var{
			Name:        "confidence",
			Type:        generators.TypeNumber,
			Description: "confidence in prediction, 0 to 10",
		},
		generators.Var{
			Name:        "stop",
			Type:        generators.TypeBoolean,
			Description: "whether exploration should stop",
		},
	)
	return generators.FuncDecl{
		Name:        decideFuncName,
		Description: "choose the next action and report the current guess",
		Params:      params,
	}
}
