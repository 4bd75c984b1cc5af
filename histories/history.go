package histories

import "strings"

// History is a FIFO log of text lines bounded by a capacity.
type History struct {
	capacity int
	lines    []string
}

func New(capacity int) *History {
	return &History{
		capacity: max(capacity, 0),
	}
}

func (h *History) AppendPair(first, second string) {
	h.lines = append(h.lines, first, second)
	h.trim()
}

func (h *History) AppendSingle(line string) {
	h.lines = append(h.lines, line)
	h.trim()
}

func (h *History) trim() {
	for len(h.lines) > h.capacity {
		h.lines[0] = ""
		h.lines = h.lines[1:]
	}
}

func (h *History) Render() string {
	return strings.Join(h.lines, "\n")
}

// Lines returns a copy of the retained lines, oldest first.
func (h *History) Lines() []string {
	ret := make([]string, len(h.lines))
	copy(ret, h.lines)
	return ret
}

func (h *History) Capacity() int {
	return h.capacity
}

func (h *History) Len() int {
	return len(h.lines)
}
