package graph

import (
	"errors"
	"fmt"
)

// ErrorKind names the class of a rejected graph.
type ErrorKind string

const (
	KindStructural ErrorKind = "structural_error"
	KindField      ErrorKind = "field_error"
	KindDuplicate  ErrorKind = "duplicate_id_error"
	KindDangling   ErrorKind = "dangling_reference_error"
	KindParse      ErrorKind = "parse_error"
)

var (
	// ErrInternalSource marks a template or generated graph that failed
	// validation. It always indicates a defect in this package.
	ErrInternalSource = errors.New("internal graph source produced an invalid graph")

	// ErrNoSource is returned by GenerateGraph when no external source is
	// configured.
	ErrNoSource = errors.New("no external graph source configured")
)

// Side identifies which end of a link an error refers to.
type Side string

const (
	SideSource Side = "source"
	SideTarget Side = "target"
)

// StructuralError reports a missing or malformed container, such as a
// nodes collection that is absent or not a list.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "invalid graph structure: " + e.Reason
}

func (e *StructuralError) Kind() ErrorKind { return KindStructural }

// FieldError reports a node or link field that violates its constraint.
// For nodes ID holds the node id, or "missing id" when the id itself is the
// problem. Index is the position within the collection.
type FieldError struct {
	Entity string
	Index  int
	ID     string
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Entity == "link" {
		return fmt.Sprintf("invalid link %d: %s %s", e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid node %q (index %d): %s %s", e.ID, e.Index, e.Field, e.Reason)
}

func (e *FieldError) Kind() ErrorKind { return KindField }

// DuplicateIDError reports a node id used more than once.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate node id %q", e.ID)
}

func (e *DuplicateIDError) Kind() ErrorKind { return KindDuplicate }

// DanglingReferenceError reports a link endpoint whose id has no node.
type DanglingReferenceError struct {
	ID    string
	Side  Side
	Index int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("link %d references unknown %s node %q", e.Index, e.Side, e.ID)
}

func (e *DanglingReferenceError) Kind() ErrorKind { return KindDangling }

// ParseError reports raw text that could not be decoded as JSON at all.
type ParseError struct {
	Err     error
	Snippet string
}

func (e *ParseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("unparseable graph response: %v", e.Err)
	}
	return fmt.Sprintf("unparseable graph response: %v (input: %s)", e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Kind() ErrorKind { return KindParse }

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind(), true
	}
	return "", false
}

// IsValidationError reports whether err is a semantic rejection of parsed
// graph data, as opposed to a parse failure or an unrelated error.
func IsValidationError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind != KindParse
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
