package common

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Endpoint is one end of a link. It is either a bare node id or an embedded
// node object, as produced by renderers that replace ids with node
// references. Both variants resolve to a node id through ID.
type Endpoint struct {
	id   string
	node *Node
}

// EndpointID returns an endpoint that refers to a node by id.
func EndpointID(id string) Endpoint {
	return Endpoint{id: id}
}

// EndpointNode returns an endpoint that embeds a node.
func EndpointNode(n Node) Endpoint {
	return Endpoint{node: &n}
}

// ID resolves the endpoint to a node id. It returns "" for the zero
// endpoint or an embedded node without id.
func (e Endpoint) ID() string {
	if e.node != nil {
		return e.node.ID
	}
	return e.id
}

// Node returns the embedded node, if the endpoint carries one.
func (e Endpoint) Node() (Node, bool) {
	if e.node == nil {
		return Node{}, false
	}
	return *e.node, true
}

// IsEmbedded reports whether the endpoint carries a node object.
func (e Endpoint) IsEmbedded() bool {
	return e.node != nil
}

func (e Endpoint) String() string {
	return e.ID()
}

func (e Endpoint) clone() Endpoint {
	if e.node != nil {
		n := e.node.clone()
		return Endpoint{node: &n}
	}
	return e
}

// MarshalJSON keeps the variant: ids encode as strings, embedded nodes as
// objects.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	if e.node != nil {
		return json.Marshal(e.node)
	}
	return json.Marshal(e.id)
}

// UnmarshalJSON accepts a string id or a node object.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty link endpoint")
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*e = EndpointID(id)
		return nil
	case '{':
		var n Node
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*e = EndpointNode(n)
		return nil
	default:
		return fmt.Errorf("link endpoint must be a string or an object, got %s", data)
	}
}
