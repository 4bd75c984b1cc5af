package generators

import (
	"github.com/openai/openai-go/v3"
)

type FuncDecl struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Params      Vars   `json:"params"`
}

func (f FuncDecl) ToOpenAI() openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
		Name:        f.Name,
		Description: openai.String(f.Description),
		Parameters:  f.Params.ToOpenAI(),
	})
}
