package decisions

type Style uint8

const (
	Direct Style = iota
	Reflective
)

func (s Style) String() string {
	switch s {
	case Direct:
		return "direct"
	case Reflective:
		return "reflective"
	}
	return "invalid"
}
