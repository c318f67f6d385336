package templates_test

import (
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/OFFIS-RIT/constellation/backend/pkg/common"
	"github.com/OFFIS-RIT/constellation/backend/pkg/graph"
	"github.com/OFFIS-RIT/constellation/backend/pkg/templates"
)

func TestDefaultKeys(t *testing.T) {
	want := []string{
		"climate-change",
		"machine-learning",
		"quantum-computing",
		"renaissance-art",
		"web-development",
	}
	got := templates.Default().Keys()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}

func TestBuiltinTemplatesAreValid(t *testing.T) {
	reg := templates.Default()
	for _, key := range reg.Keys() {
		t.Run(key, func(t *testing.T) {
			g, ok := reg.Lookup(key)
			if !ok {
				t.Fatalf("Lookup(%q) missing", key)
			}
			if err := graph.Validate(g, graph.WithStrictCategories(true)); err != nil {
				t.Fatalf("template %q invalid: %v", key, err)
			}

			root, ok := g.Root()
			if !ok {
				t.Fatalf("template %q has no root", key)
			}
			if root.ID != key || root.Importance != 100 || root.Category != common.CategoryTopic {
				t.Fatalf("unexpected root %+v", root)
			}
			for i, l := range g.Links {
				if l.Target.ID() == root.ID {
					t.Fatalf("link %d targets the root", i)
				}
			}
			if unreachable := unreachableFrom(g, root.ID); len(unreachable) > 0 {
				t.Fatalf("nodes not reachable from root: %v", unreachable)
			}
		})
	}
}

func TestLookupReturnsFreshCopies(t *testing.T) {
	reg := templates.Default()

	a, _ := reg.Lookup("machine-learning")
	b, _ := reg.Lookup("machine-learning")
	if !reflect.DeepEqual(a, b) {
		t.Fatal("template construction is not deterministic")
	}

	a.Nodes[0].Name = "changed"
	c, _ := reg.Lookup("machine-learning")
	if c.Nodes[0].Name == "changed" {
		t.Fatal("mutating a looked up graph changed the template")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := templates.Default().Lookup("Machine Learning"); ok {
		t.Fatal("Lookup must not normalise keys")
	}
	var nilReg *templates.Registry
	if _, ok := nilReg.Lookup("x"); ok || nilReg.Len() != 0 {
		t.Fatal("nil registry should be empty")
	}
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"t/tiny.yaml": {Data: []byte(`
nodes:
  - {id: tiny, name: Tiny, importance: 100, category: topic}
  - {id: leaf, name: Leaf, importance: 10, category: concept}
links:
  - {source: tiny, target: leaf, label: has, strength: 0.5}
`)},
		"t/ignored.txt": {Data: []byte("nope")},
	}

	reg, err := templates.Load(fsys, "t")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reg.Keys(); !reflect.DeepEqual(got, []string{"tiny"}) {
		t.Fatalf("Keys() = %v", got)
	}
	g, _ := reg.Lookup("tiny")
	if len(g.Nodes) != 2 || len(g.Links) != 1 {
		t.Fatalf("unexpected graph %+v", g)
	}
	if g.Links[0].Strength == nil || *g.Links[0].Strength != 0.5 {
		t.Fatalf("strength not decoded: %+v", g.Links[0])
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := templates.Decode([]byte("nodes:\n  - {id: a, weight: 3}\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestNewRegistrySkipsNil(t *testing.T) {
	reg := templates.NewRegistry(map[string]templates.Constructor{
		"a": func() *common.Graph { return &common.Graph{} },
		"b": nil,
	})
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
}

func unreachableFrom(g *common.Graph, root string) []string {
	adj := make(map[string][]string)
	for _, l := range g.Links {
		adj[l.Source.ID()] = append(adj[l.Source.ID()], l.Target.ID())
	}
	seen := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adj[id] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	var out []string
	for _, n := range g.Nodes {
		if !seen[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}
