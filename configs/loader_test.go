package configs

import (
	"errors"
	"fmt"
	"testing"
)

var testSchema = `
conf_threshold?: number
model?: string
agents?: [...string]
`

func TestLoaderAssignFirst(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue"}, testSchema)

	var model string
	err := loader.AssignFirst("model", &model)
	if err != nil {
		t.Fatal(err)
	}
	if model != "gpt-4o-mini" {
		t.Fatalf("got %q", model)
	}

	var agents []string
	err = loader.AssignFirst("agents", &agents)
	if err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", agents); str != "[naive cot_memory_map]" {
		t.Fatalf("got %s", str)
	}

	err = loader.AssignFirst("not", &agents)
	if !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("got %v", err)
	}

}

func TestLoaderIterCueValues(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/test.cue",
		"testdata/test2.cue",
	}, testSchema)

	var models []string
	for value, err := range loader.IterCueValues("model") {
		if err != nil {
			t.Fatal(err)
		}
		var s string
		if err := value.Decode(&s); err != nil {
			t.Fatal(err)
		}
		models = append(models, s)
	}
	if str := fmt.Sprintf("%v", models); str != "[gpt-4o-mini deepseek-chat]" {
		t.Fatalf("got %q", str)
	}

	var thresholds []float64
	for value, err := range loader.IterCueValues("conf_threshold") {
		if err != nil {
			t.Fatal(err)
		}
		var v float64
		if err := value.Decode(&v); err != nil {
			t.Fatal(err)
		}
		thresholds = append(thresholds, v)
	}
	if str := fmt.Sprintf("%v", thresholds); str != "[7.5 8]" {
		t.Fatalf("got %q", str)
	}

}

func TestUnknownField(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/bad.cue",
	}, testSchema)
	var str string
	err := loader.AssignFirst("unknown_field", &str)
	if err == nil {
		t.Fatal("should error")
	}
	t.Logf("%v", err)
}

func TestMissingFile(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/nope.cue",
	}, testSchema)
	var str string
	if err := loader.AssignFirst("model", &str); err == nil {
		t.Fatal("should error")
	}
}

func TestLoaderPaths(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue", "testdata/test2.cue"}, testSchema)
	paths, err := loader.Paths()
	if err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", paths); str != "[testdata/test.cue testdata/test2.cue]" {
		t.Fatalf("got %s", str)
	}

	_, err = NewLoader([]string{"testdata/bad.cue"}, testSchema).Paths()
	if err == nil {
		t.Fatal("should error")
	}
}
