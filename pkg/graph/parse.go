package graph

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/OFFIS-RIT/constellation/backend/pkg/ai"
	"github.com/OFFIS-RIT/constellation/backend/pkg/common"
)

const snippetLength = 200

// ParseExternalResponse turns raw text from an external generator into a
// validated graph. Surrounding markdown fences or prose are stripped first.
//
// It fails with a *ParseError when the text is not JSON at all, and with
// the validator's error when the JSON does not describe a valid graph. It
// never returns a partial graph and performs no fallback.
//
// Unknown categories are mapped to "other" unless WithStrictCategories is
// set, in which case they are rejected.
func ParseExternalResponse(raw string, opts ...Option) (*common.Graph, error) {
	o := newOptions(opts)

	top, err := decodeDocument(raw, o.repair)
	if err != nil {
		return nil, err
	}

	obj, ok := top.(map[string]any)
	if !ok {
		return nil, &StructuralError{Reason: "response must be a JSON object"}
	}

	nodes, hasNodes := obj["nodes"].([]any)
	links, hasLinks := obj["links"].([]any)

	doc := document{
		hasNodes: hasNodes,
		hasLinks: hasLinks,
		nodes:    make([]nodeView, len(nodes)),
		links:    make([]linkView, len(links)),
	}
	for i, n := range nodes {
		doc.nodes[i] = rawNodeView(n)
	}
	for i, l := range links {
		doc.links[i] = rawLinkView(l)
	}

	if err := o.check(doc); err != nil {
		return nil, err
	}

	g := &common.Graph{
		Nodes: make([]common.Node, len(nodes)),
		Links: make([]common.Link, len(links)),
	}
	for i, n := range nodes {
		g.Nodes[i] = buildNode(n.(map[string]any))
	}
	for i, l := range links {
		g.Links[i] = buildLink(l.(map[string]any))
	}
	return g, nil
}

func decodeDocument(raw string, repair bool) (any, error) {
	text := ai.ExtractJSON(raw)

	top, err := decodeValue(text)
	if err == nil {
		if inner, ok := top.(string); ok && repair {
			// Double-encoded documents arrive as a JSON string.
			if fixed, ok := repairObject(inner); ok {
				return fixed, nil
			}
		}
		return top, nil
	}

	if repair {
		if fixed, ok := repairObject(text); ok {
			return fixed, nil
		}
	}

	return nil, &ParseError{Err: err, Snippet: ai.Truncate(text, snippetLength)}
}

// decodeValue decodes exactly one JSON value. Numbers stay json.Number so
// that values outside the float64 range reach the field checks.
func decodeValue(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return top, nil
}

// repairObject only accepts repairs that yield an object; jsonrepair happily
// turns plain prose into a JSON string.
func repairObject(text string) (map[string]any, bool) {
	var fixed map[string]any
	if ai.UnmarshalFlexible(text, &fixed) != nil || fixed == nil {
		return nil, false
	}
	return fixed, true
}

// number accepts both decoder representations of a JSON number. A
// json.Number that does not fit a float64 is not a number.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func rawNodeView(v any) nodeView {
	m, ok := v.(map[string]any)
	if !ok {
		return nodeView{}
	}

	var n nodeView
	n.id, n.idOK = m["id"].(string)
	n.name, n.nameOK = m["name"].(string)
	n.importance, n.importanceOK = number(m["importance"])
	n.category, n.categoryOK = m["category"].(string)
	return n
}

func rawLinkView(v any) linkView {
	m, ok := v.(map[string]any)
	if !ok {
		return linkView{strengthOK: true, labelOK: true}
	}

	l := linkView{
		source:     rawEndpointID(m["source"]),
		target:     rawEndpointID(m["target"]),
		strengthOK: true,
		labelOK:    true,
	}
	if s, present := m["strength"]; present && s != nil {
		f, isNum := number(s)
		l.strength, l.strengthOK = &f, isNum
	}
	if lbl, present := m["label"]; present && lbl != nil {
		_, l.labelOK = lbl.(string)
	}
	return l
}

// rawEndpointID resolves a decoded endpoint: a string is the id itself, an
// object contributes its "id" field. Anything else does not resolve.
func rawEndpointID(v any) string {
	switch e := v.(type) {
	case string:
		return e
	case map[string]any:
		id, _ := e["id"].(string)
		return id
	default:
		return ""
	}
}

// buildNode converts a node that passed validation. Optional fields of the
// wrong type are dropped; they are opaque pass-through data.
func buildNode(m map[string]any) common.Node {
	n := common.Node{}
	n.ID, _ = m["id"].(string)
	n.Name, _ = m["name"].(string)
	n.Importance, _ = number(m["importance"])
	category, _ := m["category"].(string)
	n.Category = common.NormalizeCategory(category)
	n.Description, _ = m["description"].(string)
	n.Color, _ = m["color"].(string)
	n.Metadata, _ = m["metadata"].(map[string]any)
	return n
}

func buildEndpoint(v any) common.Endpoint {
	if m, ok := v.(map[string]any); ok {
		return common.EndpointNode(buildNode(m))
	}
	id, _ := v.(string)
	return common.EndpointID(id)
}

func buildLink(m map[string]any) common.Link {
	l := common.Link{
		Source: buildEndpoint(m["source"]),
		Target: buildEndpoint(m["target"]),
	}
	l.Label, _ = m["label"].(string)
	if s, ok := number(m["strength"]); ok {
		l.Strength = &s
	}
	return l
}
