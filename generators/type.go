package generators

import "fmt"

type Type uint8

const (
	TypeNone Type = iota
	TypeString
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeArray
	TypeObject
)

// JSONSchema returns the json schema type name.
func (t Type) JSONSchema() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeInteger:
		return "integer"
	case TypeBoolean:
		return "boolean"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	}
	panic(fmt.Errorf("unknown type: %d", t))
}
