package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// fencedBlock matches a markdown code block and captures its language tag
// and body. \x60 is a backtick.
var fencedBlock = regexp.MustCompile("(?s)\x60\x60\x60([\\w-]*)[ \\t]*\\r?\\n?(.*?)\\s*\x60\x60\x60")

func stripDuplicateLeadingBrace(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		rest := strings.TrimSpace(s[1:])
		if strings.HasPrefix(rest, "{") {
			return rest
		}
	}
	return s
}

// GenerateSchema creates a JSON Schema from the given Go type.
// It uses reflection to inspect the type structure and generates
// a schema suitable for use with AI structured output.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

// ExtractJSON strips the wrapping models like to put around JSON: markdown
// code fences and conversational text before or after the outermost
// object. Input without any object is returned trimmed and unchanged.
//
// A block tagged json wins over untagged blocks. Outside of fences the
// first complete JSON value is taken, so braces in trailing prose are
// ignored.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.Contains(s, "```") {
		if body, ok := pickFencedBlock(s); ok {
			s = body
		}
	}

	if strings.HasPrefix(s, `"`) {
		return s
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		if v, ok := leadingValue(s); ok {
			return v
		}
		return s
	}

	for i := strings.Index(s, "{"); i != -1; {
		if v, ok := leadingValue(s[i:]); ok {
			return v
		}
		next := strings.Index(s[i+1:], "{")
		if next == -1 {
			break
		}
		i += next + 1
	}

	// Nothing decodes cleanly; hand the widest candidate to the repair step.
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first != -1 && last > first {
		return s[first : last+1]
	}
	return s
}

// pickFencedBlock returns the body of the first block tagged json, or else
// the first untagged block that looks like JSON.
func pickFencedBlock(s string) (string, bool) {
	matches := fencedBlock.FindAllStringSubmatch(s, -1)
	for _, m := range matches {
		if strings.EqualFold(m[1], "json") {
			return strings.TrimSpace(m[2]), true
		}
	}
	for _, m := range matches {
		body := strings.TrimSpace(m[2])
		if m[1] == "" && (strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[")) {
			return body, true
		}
	}
	return "", false
}

// leadingValue returns the first complete JSON value at the start of s.
func leadingValue(s string) (string, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	return s[:dec.InputOffset()], true
}

// RepairJSON tries to turn malformed JSON (unquoted keys, single quotes,
// trailing commas, missing closing brackets) into valid JSON.
func RepairJSON(input string) (string, error) {
	input = stripDuplicateLeadingBrace(input)
	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// UnmarshalFlexible attempts to unmarshal JSON into the target with multiple fallback strategies.
// It first tries standard JSON unmarshaling, then handles double-encoded JSON strings,
// and finally attempts to repair malformed JSON before parsing.
//
// This is useful for parsing AI-generated JSON which may be malformed or wrapped in strings.
//
// Example:
//
//	var result MyStruct
//	// All of these inputs would work:
//	UnmarshalFlexible(`{"name": "test"}`, &result)           // standard JSON
//	UnmarshalFlexible(`"{\"name\": \"test\"}"`, &result)     // double-encoded
//	UnmarshalFlexible(`{name: "test"}`, &result)             // malformed (repaired)
func UnmarshalFlexible(input string, out any) error {
	input = ExtractJSON(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	repaired, err := RepairJSON(input)
	if err != nil {
		return fmt.Errorf("%w (input: %s)", err, Truncate(input, 200))
	}

	if err := json.Unmarshal([]byte(repaired), out); err == nil {
		return nil
	}

	return fmt.Errorf(
		"unmarshal failed after repair: input=%s repaired=%s",
		Truncate(input, 200), Truncate(repaired, 200),
	)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
