package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/constellation/backend/pkg/common"
	"github.com/OFFIS-RIT/constellation/backend/pkg/graph"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd(func(o rootOptions) (*graph.GraphClient, error) {
		return graph.NewGraphClient(graph.NewGraphClientParams{
			StrictCategories: o.strict,
			RepairJSON:       o.repair,
		}), nil
	})

	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTemplatesCommand(t *testing.T) {
	out, _, err := run(t, "", "templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	lines := strings.Fields(out)
	if len(lines) != 5 || lines[0] != "climate-change" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestFetchCommand(t *testing.T) {
	out, _, err := run(t, "", "fetch", "Machine Learning")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	var g common.Graph
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if root, _ := g.Root(); root.ID != "machine-learning" {
		t.Fatalf("root = %q", root.ID)
	}

	out, _, err = run(t, "", "fetch", "a", "b")
	if err != nil {
		t.Fatalf("fetch many: %v", err)
	}
	var many []common.Graph
	if err := json.Unmarshal([]byte(out), &many); err != nil || len(many) != 2 {
		t.Fatalf("expected two graphs, got %d (%v)", len(many), err)
	}
}

func TestValidateCommand(t *testing.T) {
	valid := `{"nodes":[{"id":"a","name":"A","importance":100,"category":"topic"}],"links":[]}`

	out, _, err := run(t, valid, "validate")
	if err != nil || !strings.HasPrefix(out, "ok: 1 nodes, 0 links") {
		t.Fatalf("stdin validate: %q %v", out, err)
	}

	path := filepath.Join(t.TempDir(), "response.json")
	if err := os.WriteFile(path, []byte("```json\n"+valid+"\n```"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "", "validate", path); err != nil {
		t.Fatalf("file validate: %v", err)
	}

	_, errOut, err := run(t, "not json", "validate", "-")
	if err == nil || !strings.HasPrefix(errOut, "parse_error:") {
		t.Fatalf("expected parse error, got %q %v", errOut, err)
	}

	planet := `{"nodes":[{"id":"a","name":"A","importance":100,"category":"planet"}],"links":[]}`
	if _, _, err := run(t, planet, "validate"); err != nil {
		t.Fatalf("lenient validate: %v", err)
	}
	if _, errOut, err := run(t, planet, "--strict", "validate"); err == nil || !strings.HasPrefix(errOut, "field_error:") {
		t.Fatalf("strict validate: %q %v", errOut, err)
	}
}

func TestGenerateCommandFallsBack(t *testing.T) {
	out, errOut, err := run(t, "", "generate", "web", "development")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(errOut, "source: template") {
		t.Fatalf("stderr = %q", errOut)
	}
	var g common.Graph
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
