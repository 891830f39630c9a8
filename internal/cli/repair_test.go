package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runRepair(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRepairCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("repair: %v", err)
	}
	return out.String()
}

func TestRepairCommandFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.txt")
	source := "```mermaid\ngraph TD\nA --> B\n```"
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runRepair(t, path)
	if !strings.HasPrefix(out, "graph TD") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "```") {
		t.Fatalf("fence survived repair:\n%s", out)
	}
}

func TestRepairCommandIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.txt")
	if err := os.WriteFile(path, []byte("graph LR\nA --> B\nB --> C"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runRepair(t, path, "--index")
	start := strings.Index(out, "{")
	if start < 0 {
		t.Fatalf("no JSON index in output:\n%s", out)
	}
	var dump map[string]struct {
		Children []string `json:"children"`
		Parents  []string `json:"parents"`
	}
	if err := json.Unmarshal([]byte(out[start:]), &dump); err != nil {
		t.Fatalf("decode index: %v\n%s", err, out)
	}
	if got := dump["B"].Children; len(got) != 1 || got[0] != "C" {
		t.Fatalf("B children = %v", got)
	}
	if got := dump["B"].Parents; len(got) != 1 || got[0] != "A" {
		t.Fatalf("B parents = %v", got)
	}
}
