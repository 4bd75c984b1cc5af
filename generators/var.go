package generators

import (
	"github.com/openai/openai-go/v3"
)

type Var struct {
	Name        string   `json:"name"`
	Type        Type     `json:"type"`
	Optional    bool     `json:"optional"`
	Description string   `json:"description"`
	Enum        []string `json:"enum"`
	ItemType    *Var     `json:"item_type"`  // for TypeArray
	Properties  Vars     `json:"properties"` // for TypeObject
}

type Vars []Var

func (v Vars) ToOpenAI() openai.FunctionParameters {
	props := make(map[string]any)
	required := []string{}
	for _, variable := range v {
		props[variable.Name] = variable.ToOpenAI()
		if !variable.Optional {
			required = append(required, variable.Name)
		}
	}
	return openai.FunctionParameters{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func (v Var) ToOpenAI() map[string]any {
	ret := map[string]any{
		"type": v.Type.JSONSchema(),
	}
	if v.Description != "" {
		ret["description"] = v.Description
	}
	if len(v.Enum) > 0 {
		ret["enum"] = v.Enum
	}
	switch v.Type {
	case TypeArray:
		ret["items"] = v.ItemType.ToOpenAI()
	case TypeObject:
		objSchema := v.Properties.ToOpenAI()
		ret["properties"] = objSchema["properties"]
		ret["required"] = objSchema["required"]
	}
	return ret
}
