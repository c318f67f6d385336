package common

// Graph is a knowledge graph as handed to a renderer: a set of nodes keyed
// by id and a set of directed links between them.
//
// A Graph that left pkg/graph has been validated:
//   - it has at least one node
//   - every node id is unique and non-empty
//   - every link endpoint resolves to a node id in Nodes
//
// Consumers must treat a validated Graph as read-only. Derived views are
// built with Clone or Subgraph, which return new values.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node represents one concept in the graph. Importance drives the visual
// size of the node and lies within [0, 100].
type Node struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Importance  float64        `json:"importance"`
	Category    Category       `json:"category"`
	Description string         `json:"description,omitempty"`
	Color       string         `json:"color,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Link is a directed relationship between two nodes. Parallel links,
// duplicate links and self links are allowed.
type Link struct {
	Source   Endpoint `json:"source"`
	Target   Endpoint `json:"target"`
	Strength *float64 `json:"strength,omitempty"`
	Label    string   `json:"label,omitempty"`
}

// NewLink creates a link between two node ids.
func NewLink(source, target, label string) Link {
	return Link{
		Source: EndpointID(source),
		Target: EndpointID(target),
		Label:  label,
	}
}

// WithStrength returns a copy of the link with the given strength.
func (l Link) WithStrength(strength float64) Link {
	l.Strength = &strength
	return l
}

// Lookup returns the node with the given id.
func (g *Graph) Lookup(id string) (Node, bool) {
	if g == nil || id == "" {
		return Node{}, false
	}
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Resolve returns the node an endpoint refers to. The lookup always goes
// through the node set; an embedded node is only used for its id.
func (g *Graph) Resolve(e Endpoint) (Node, bool) {
	return g.Lookup(e.ID())
}

// Root returns the node with the highest importance. Ties resolve to the
// node that comes first.
func (g *Graph) Root() (Node, bool) {
	if g == nil || len(g.Nodes) == 0 {
		return Node{}, false
	}
	root := g.Nodes[0]
	for _, n := range g.Nodes[1:] {
		if n.Importance > root.Importance {
			root = n
		}
	}
	return root, true
}

// Clone returns a deep copy of the graph. Metadata maps are copied one
// level deep.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	out := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Links: make([]Link, len(g.Links)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = n.clone()
	}
	for i, l := range g.Links {
		out.Links[i] = l.clone()
	}
	return out
}

// Subgraph returns a new graph containing the nodes for which keep returns
// true and the links whose endpoints both survive.
func (g *Graph) Subgraph(keep func(Node) bool) *Graph {
	out := &Graph{
		Nodes: []Node{},
		Links: []Link{},
	}
	if g == nil {
		return out
	}

	kept := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if keep(n) {
			kept[n.ID] = struct{}{}
			out.Nodes = append(out.Nodes, n.clone())
		}
	}
	for _, l := range g.Links {
		_, s := kept[l.Source.ID()]
		_, t := kept[l.Target.ID()]
		if s && t {
			out.Links = append(out.Links, l.clone())
		}
	}
	return out
}

func (n Node) clone() Node {
	if n.Metadata != nil {
		md := make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			md[k] = v
		}
		n.Metadata = md
	}
	return n
}

func (l Link) clone() Link {
	if l.Strength != nil {
		s := *l.Strength
		l.Strength = &s
	}
	l.Source = l.Source.clone()
	l.Target = l.Target.clone()
	return l
}
