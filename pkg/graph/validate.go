package graph

import (
	"fmt"
	"math"
	"strings"

	"github.com/OFFIS-RIT/constellation/backend/pkg/common"
)

const (
	minImportance = 0
	maxImportance = 100

	missingID = "missing id"
)

// Option configures Validate and ParseExternalResponse.
type Option func(*options)

type options struct {
	strictCategories bool
	repair           bool
}

// WithStrictCategories rejects categories outside the known set instead of
// accepting any non-empty string.
func WithStrictCategories(strict bool) Option {
	return func(o *options) {
		o.strictCategories = strict
	}
}

// WithRepair lets ParseExternalResponse run malformed JSON through a
// repair pass before giving up with a ParseError. Validate ignores it.
func WithRepair(repair bool) Option {
	return func(o *options) {
		o.repair = repair
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// nodeView and linkView are the shape the checks run on. Typed graphs and
// raw JSON documents are both reduced to views so that every front end
// reports violations in the same order. The ok flags are false when the
// underlying value had the wrong type.
type nodeView struct {
	id           string
	idOK         bool
	name         string
	nameOK       bool
	importance   float64
	importanceOK bool
	category     string
	categoryOK   bool
}

// An empty source or target means the endpoint did not resolve to an id.
type linkView struct {
	source     string
	target     string
	strength   *float64
	strengthOK bool
	labelOK    bool
}

type document struct {
	hasNodes bool
	hasLinks bool
	nodes    []nodeView
	links    []linkView
}

// Validate checks g against the graph invariants and returns the first
// violation found. Checks run in a fixed order: containers, emptiness, each
// node's fields and id uniqueness, then each link's endpoints.
//
// The returned error is one of *StructuralError, *FieldError,
// *DuplicateIDError or *DanglingReferenceError.
func Validate(g *common.Graph, opts ...Option) error {
	o := newOptions(opts)
	if g == nil {
		return &StructuralError{Reason: "graph is nil"}
	}
	return o.check(viewOf(g))
}

func viewOf(g *common.Graph) document {
	doc := document{
		hasNodes: g.Nodes != nil,
		hasLinks: g.Links != nil,
		nodes:    make([]nodeView, len(g.Nodes)),
		links:    make([]linkView, len(g.Links)),
	}
	for i, n := range g.Nodes {
		doc.nodes[i] = nodeView{
			id:           n.ID,
			idOK:         true,
			name:         n.Name,
			nameOK:       true,
			importance:   n.Importance,
			importanceOK: true,
			category:     string(n.Category),
			categoryOK:   true,
		}
	}
	for i, l := range g.Links {
		doc.links[i] = linkView{
			source:     l.Source.ID(),
			target:     l.Target.ID(),
			strength:   l.Strength,
			strengthOK: true,
			labelOK:    true,
		}
	}
	return doc
}

func (o options) check(doc document) error {
	if !doc.hasNodes {
		return &StructuralError{Reason: "nodes must be a list"}
	}
	if !doc.hasLinks {
		return &StructuralError{Reason: "links must be a list"}
	}
	if len(doc.nodes) == 0 {
		return &StructuralError{Reason: "graph has no nodes"}
	}

	seen := make(map[string]struct{}, len(doc.nodes))
	for i, n := range doc.nodes {
		if err := o.checkNode(i, n); err != nil {
			return err
		}
		if _, dup := seen[n.id]; dup {
			return &DuplicateIDError{ID: n.id}
		}
		seen[n.id] = struct{}{}
	}

	for i, l := range doc.links {
		if l.source == "" {
			return &FieldError{Entity: "link", Index: i, Field: "source", Reason: "must resolve to a node id"}
		}
		if l.target == "" {
			return &FieldError{Entity: "link", Index: i, Field: "target", Reason: "must resolve to a node id"}
		}
		if _, ok := seen[l.source]; !ok {
			return &DanglingReferenceError{ID: l.source, Side: SideSource, Index: i}
		}
		if _, ok := seen[l.target]; !ok {
			return &DanglingReferenceError{ID: l.target, Side: SideTarget, Index: i}
		}
		if !l.strengthOK || (l.strength != nil && (math.IsNaN(*l.strength) || math.IsInf(*l.strength, 0))) {
			return &FieldError{Entity: "link", Index: i, Field: "strength", Reason: "must be a finite number"}
		}
		if !l.labelOK {
			return &FieldError{Entity: "link", Index: i, Field: "label", Reason: "must be a string"}
		}
	}

	return nil
}

func (o options) checkNode(i int, n nodeView) error {
	if !n.idOK || n.id == "" {
		return &FieldError{Entity: "node", Index: i, ID: missingID, Field: "id", Reason: "must be a non-empty string"}
	}

	fieldErr := func(field, reason string) error {
		return &FieldError{Entity: "node", Index: i, ID: n.id, Field: field, Reason: reason}
	}

	if !n.nameOK || n.name == "" {
		return fieldErr("name", "must be a non-empty string")
	}

	if !n.importanceOK {
		return fieldErr("importance", "must be a number")
	}
	if math.IsNaN(n.importance) || math.IsInf(n.importance, 0) {
		return fieldErr("importance", "must be a finite number")
	}
	if n.importance < minImportance || n.importance > maxImportance {
		return fieldErr("importance", fmt.Sprintf("must be within [%d, %d], got %g", minImportance, maxImportance, n.importance))
	}

	if !n.categoryOK || n.category == "" {
		return fieldErr("category", "must be a non-empty string")
	}
	if o.strictCategories {
		if _, known := common.ParseCategory(n.category); !known {
			return fieldErr("category", fmt.Sprintf("must be one of %s, got %q", categoryList(), n.category))
		}
	}

	return nil
}

func categoryList() string {
	names := make([]string, len(common.Categories))
	for i, c := range common.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
