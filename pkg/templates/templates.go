package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/constellation/backend/pkg/common"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var builtin embed.FS

type templateFile struct {
	Nodes []templateNode `yaml:"nodes"`
	Links []templateLink `yaml:"links"`
}

type templateNode struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Importance  float64        `yaml:"importance"`
	Category    string         `yaml:"category"`
	Description string         `yaml:"description"`
	Color       string         `yaml:"color"`
	Metadata    map[string]any `yaml:"metadata"`
}

type templateLink struct {
	Source   string   `yaml:"source"`
	Target   string   `yaml:"target"`
	Label    string   `yaml:"label"`
	Strength *float64 `yaml:"strength"`
}

// Decode reads a template graph from YAML. Unknown fields are rejected.
// Decode does not validate the graph; that is the caller's job.
func Decode(data []byte) (*common.Graph, error) {
	var f templateFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}

	g := &common.Graph{
		Nodes: make([]common.Node, 0, len(f.Nodes)),
		Links: make([]common.Link, 0, len(f.Links)),
	}
	for _, n := range f.Nodes {
		g.Nodes = append(g.Nodes, common.Node{
			ID:          n.ID,
			Name:        n.Name,
			Importance:  n.Importance,
			Category:    common.Category(n.Category),
			Description: n.Description,
			Color:       n.Color,
			Metadata:    n.Metadata,
		})
	}
	for _, l := range f.Links {
		link := common.NewLink(l.Source, l.Target, l.Label)
		if l.Strength != nil {
			link = link.WithStrength(*l.Strength)
		}
		g.Links = append(g.Links, link)
	}
	return g, nil
}

// Load builds a Registry from every *.yaml file in dir of fsys. The file
// name without extension is the template key.
func Load(fsys fs.FS, dir string) (*Registry, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}

	constructors := make(map[string]Constructor, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		g, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		key := strings.TrimSuffix(path.Base(file), ".yaml")
		constructors[key] = func() *common.Graph { return g.Clone() }
	}
	return NewRegistry(constructors), nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := Load(builtin, "data")
	if err != nil {
		panic(fmt.Sprintf("templates: built-in data: %v", err))
	}
	return r
})

// Default returns the registry of built-in templates.
func Default() *Registry {
	return defaultRegistry()
}
