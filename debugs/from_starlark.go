package debugs

import (
	"fmt"

	"go.starlark.net/starlark"
)

// FromStarlarkValue converts script results back into plain Go values:
// nil, bool, int64, float64, string, []any and map[string]any.
func FromStarlarkValue(v starlark.Value) (any, error) {
	switch v := v.(type) {

	case starlark.NoneType:
		return nil, nil

	case starlark.Bool:
		return bool(v), nil

	case starlark.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("int out of range: %s", v)
		}
		return i, nil

	case starlark.Float:
		return float64(v), nil

	case starlark.String:
		return string(v), nil

	case starlark.Bytes:
		return string(v), nil

	case *starlark.List:
		ret := make([]any, 0, v.Len())
		for i := range v.Len() {
			elem, err := FromStarlarkValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			ret = append(ret, elem)
		}
		return ret, nil

	case starlark.Tuple:
		ret := make([]any, 0, len(v))
		for _, e := range v {
			elem, err := FromStarlarkValue(e)
			if err != nil {
				return nil, err
			}
			ret = append(ret, elem)
		}
		return ret, nil

	case *starlark.Dict:
		ret := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string, got %s", item[0].Type())
			}
			value, err := FromStarlarkValue(item[1])
			if err != nil {
				return nil, err
			}
			ret[string(key)] = value
		}
		return ret, nil

	}

	return nil, fmt.Errorf("unsupported starlark type: %s", v.Type())
}
