package evidences

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

type Attribute struct {
	Description string
}

type Entry struct {
	Key string
	Attribute
}

// Catalog lists known objects in file order.
type Catalog []Entry

func NewCatalog(pairs ...string) Catalog {
	if len(pairs)%2 != 0 {
		panic(fmt.Errorf("odd number of arguments: %d", len(pairs)))
	}
	var ret Catalog
	for i := 0; i < len(pairs); i += 2 {
		ret = append(ret, Entry{
			Key: pairs[i],
			Attribute: Attribute{
				Description: pairs[i+1],
			},
		})
	}
	return ret
}

func (c Catalog) Get(key string) (Attribute, bool) {
	for _, entry := range c {
		if entry.Key == key {
			return entry.Attribute, true
		}
	}
	return Attribute{}, false
}

// ParseCatalog decodes an attributes object like {"apple": {"description": "a red fruit"}}.
// Fields other than description are ignored.
func ParseCatalog(data []byte) (Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrBadCatalog)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: not an object", ErrBadCatalog)
	}
	var ret Catalog
	var err error
	// duplicated keys keep the first position and the last value
	index := make(map[string]int)
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			err = fmt.Errorf("%w: %s is not an object", ErrBadCatalog, key.String())
			return false
		}
		description := value.Get("description")
		if description.Type != gjson.String {
			err = fmt.Errorf("%w: %s has no description string", ErrBadCatalog, key.String())
			return false
		}
		attr := Attribute{
			Description: description.String(),
		}
		if i, ok := index[key.String()]; ok {
			ret[i].Attribute = attr
			return true
		}
		index[key.String()] = len(ret)
		ret = append(ret, Entry{
			Key:       key.String(),
			Attribute: attr,
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return catalog, nil
}
