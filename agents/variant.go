package agents

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/sleuth/decisions"
)

// Variant selects the reasoning style and the histories an agent owns.
type Variant struct {
	Reflective bool
	Memory     bool
	Map        bool
}

var (
	Naive        = Variant{}
	Memory       = Variant{Memory: true}
	CoT          = Variant{Reflective: true}
	CoTMemory    = Variant{Reflective: true, Memory: true}
	NaiveMap     = Variant{Map: true}
	MemoryMap    = Variant{Memory: true, Map: true}
	CoTMap       = Variant{Reflective: true, Map: true}
	CoTMemoryMap = Variant{Reflective: true, Memory: true, Map: true}
)

// Variants returns all variants in canonical order.
func Variants() []Variant {
	return []Variant{
		Naive,
		Memory,
		CoT,
		CoTMemory,
		NaiveMap,
		MemoryMap,
		CoTMap,
		CoTMemoryMap,
	}
}

func (v Variant) String() string {
	var parts []string
	if v.Reflective {
		parts = append(parts, "cot")
	}
	if v.Memory {
		parts = append(parts, "memory")
	}
	if len(parts) == 0 {
		parts = append(parts, "naive")
	}
	if v.Map {
		parts = append(parts, "map")
	}
	return strings.Join(parts, "_")
}

func (v Variant) Style() decisions.Style {
	if v.Reflective {
		return decisions.Reflective
	}
	return decisions.Direct
}

const (
	DirectCapacity     = 40
	ReflectiveCapacity = 20
)

// DefaultCapacity is shared by the memory and the map history.
func (v Variant) DefaultCapacity() int {
	if v.Reflective {
		return ReflectiveCapacity
	}
	return DirectCapacity
}

// ParseVariant accepts canonical names like cot_memory_map and
// spellings like reflective+memory+map or plain+map.
func ParseVariant(name string) (ret Variant, err error) {
	str := strings.ToLower(strings.TrimSpace(name))
	if str == "" {
		return ret, fmt.Errorf("%w: empty name", ErrUnknownVariant)
	}
	words := strings.FieldsFunc(str, func(r rune) bool {
		return r == '_' || r == '+' || r == '-' || r == ' '
	})
	seen := make(map[string]bool)
	for _, word := range words {
		switch word {
		case "naive", "plain", "direct":
			word = "naive"
		case "cot", "reflective":
			word = "cot"
			ret.Reflective = true
		case "memory":
			ret.Memory = true
		case "map":
			ret.Map = true
		default:
			return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
		}
		if seen[word] {
			return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
		}
		seen[word] = true
	}
	if seen["naive"] && ret.Reflective {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
	return ret, nil
}

// ParseVariants parses a comma separated list, "all" meaning every variant.
func ParseVariants(spec string) ([]Variant, error) {
	if strings.TrimSpace(strings.ToLower(spec)) == "all" {
		return Variants(), nil
	}
	var ret []Variant
	for name := range strings.SplitSeq(spec, ",") {
		v, err := ParseVariant(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ret, v) {
			ret = append(ret, v)
		}
	}
	return ret, nil
}
