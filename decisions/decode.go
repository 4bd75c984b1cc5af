package decisions

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/reusee/sleuth/vars"
)

// Decode validates the arguments of a decide call.
// Any missing or mistyped field fails with ErrReasoning.
// Labels outside the closed set become Unknown and are reported in warnings.
func Decode(args map[string]any, style Style) (ret Decision, warnings []string, err error) {
	fail := func(format string, a ...any) (Decision, []string, error) {
		return Decision{}, nil, fmt.Errorf("%w: %s", ErrReasoning, fmt.Sprintf(format, a...))
	}

	// action
	action, ok := args["action"].(string)
	if !ok {
		return fail("action: expecting string, got %T", args["action"])
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return fail("action: empty")
	}
	ret.Action = action

	// prediction
	prediction, ok := args["prediction"].(string)
	if !ok {
		return fail("prediction: expecting string, got %T", args["prediction"])
	}
	label, valid := ParseLabel(prediction)
	if !valid {
		warnings = append(warnings, fmt.Sprintf("invalid label %q, using %s", prediction, Unknown))
	}
	ret.Prediction = label

	// confidence
	confidence, ok := toFloat(args["confidence"])
	if !ok {
		return fail("confidence: expecting number, got %T(%v)", args["confidence"], args["confidence"])
	}
	if confidence < 0 || confidence > 10 {
		warnings = append(warnings, fmt.Sprintf("confidence %v out of range [0, 10]", confidence))
	}
	ret.Confidence = confidence

	// stop
	switch stop := args["stop"].(type) {
	case bool:
		ret.Stop = stop
	case string:
		b, ok := vars.ParseBool(stop)
		if !ok {
			return fail("stop: bad bool %q", stop)
		}
		ret.Stop = b
	default:
		return fail("stop: expecting bool, got %T", args["stop"])
	}

	// reasoning
	if style == Reflective {
		reasoning, ok := args["reasoning"].(string)
		if !ok {
			return fail("reasoning: expecting string, got %T", args["reasoning"])
		}
		ret.Reasoning = reasoning
	} else if reasoning, ok := args["reasoning"].(string); ok {
		ret.Reasoning = reasoning
	}

	return ret, warnings, nil
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
