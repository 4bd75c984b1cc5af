package evidences

import "strings"

type Found struct {
	Key         string
	Description string
}

// Tracker records catalog objects the first time they appear in an observation.
// Entries are never removed or overwritten.
type Tracker struct {
	found []Found
	index map[string]int
}

func NewTracker() *Tracker {
	return &Tracker{
		index: make(map[string]int),
	}
}

// Observe returns the entries newly added by this observation, in catalog order.
func (t *Tracker) Observe(observation string, catalog Catalog) (added []Found) {
	text := strings.ToLower(observation)
	for _, entry := range catalog {
		if _, ok := t.index[entry.Key]; ok {
			continue
		}
		if !strings.Contains(text, strings.ToLower(entry.Key)) {
			continue
		}
		found := Found{
			Key:         entry.Key,
			Description: entry.Description,
		}
		t.index[entry.Key] = len(t.found)
		t.found = append(t.found, found)
		added = append(added, found)
	}
	return
}

// Descriptions returns descriptions in first-seen order.
func (t *Tracker) Descriptions() []string {
	ret := make([]string, 0, len(t.found))
	for _, found := range t.found {
		ret = append(ret, found.Description)
	}
	return ret
}

func (t *Tracker) Found() []Found {
	ret := make([]Found, len(t.found))
	copy(ret, t.found)
	return ret
}

func (t *Tracker) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

func (t *Tracker) Len() int {
	return len(t.found)
}
