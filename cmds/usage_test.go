package cmds

import (
	"bytes"
	"strings"
	"testing"
)

func TestUsage(t *testing.T) {
	executor := NewExecutor()
	executor.Define("batch", Sub(map[string]*Command{
		"all": Func(func() {
		}).Desc("ALL"),
		"agent": Sub(map[string]*Command{
			"naive": Func(func() {}).Desc("NAIVE"),
		}).Desc("AGENT"),
	}).Desc("BATCH"))

	buf := new(bytes.Buffer)
	executor.WriteUsage(buf)
	out := buf.String()
	for _, expected := range []string{
		"batch\tBATCH",
		"  all\tALL",
		"  agent\tAGENT",
		"    naive\tNAIVE",
		"-h (help, -help, --help)\tprint this usage",
	} {
		if !strings.Contains(out, expected) {
			t.Fatalf("%q not in %q", expected, out)
		}
	}
	if n := strings.Count(out, "print this usage"); n != 1 {
		t.Fatalf("got %v in %q", n, out)
	}
}

func TestUsageAliasedSub(t *testing.T) {
	executor := NewExecutor()
	executor.Define("episode", Func(func() {}).Desc("EPISODE").Alias("run"))

	buf := new(bytes.Buffer)
	executor.WriteUsage(buf)
	out := buf.String()
	if !strings.Contains(out, "episode (run)\tEPISODE") {
		t.Fatalf("got %q", out)
	}
	if strings.Contains(out, "\nrun") || strings.HasPrefix(out, "run") {
		t.Fatalf("got %q", out)
	}
}
