package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds compiled JSON schemas by Schema.Name.
var compiled sync.Map // map[string]*jsonschema.Schema

// structuredContent extracts the JSON document from a model reply and
// checks it against schema. Models without a native JSON mode often wrap
// the object in a ```json fence or a sentence of prose; both are removed.
// A nil schema returns raw unchanged. Failures are *ErrInvalidResponse
// carrying the original reply.
func structuredContent(schema *Schema, raw json.RawMessage) (json.RawMessage, error) {
	if schema == nil {
		return raw, nil
	}

	doc := unwrapJSON(raw)
	var parsed any
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	s, err := compile(schema)
	if err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}
	if err := s.Validate(parsed); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: schemaViolation(err)}
	}
	return doc, nil
}

// unwrapJSON trims a reply down to the first JSON object or array in it.
// Anything after that value is ignored, even when it contains braces.
func unwrapJSON(raw []byte) json.RawMessage {
	b := bytes.TrimSpace(raw)
	if rest, ok := bytes.CutPrefix(b, []byte("```")); ok {
		// Drop the info string ("json") and the closing fence.
		if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := bytes.LastIndex(rest, []byte("```")); end >= 0 {
			rest = rest[:end]
		}
		b = bytes.TrimSpace(rest)
	}

	start := bytes.IndexAny(b, "{[")
	if start < 0 {
		return json.RawMessage(b)
	}
	var doc json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(b[start:])).Decode(&doc); err != nil {
		return json.RawMessage(b)
	}
	return doc
}

// schemaViolation reduces a validation error to its first leaf cause so
// logs name the offending field instead of the whole error tree.
func schemaViolation(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return fmt.Errorf("schema validation failed at /%s: %w", joinLocation(leaf.InstanceLocation), err)
}

func joinLocation(loc []string) string {
	var b bytes.Buffer
	for i, p := range loc {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(p)
	}
	return b.String()
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(schema.Name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// The compiler wants generic JSON values, so round-trip the Go map.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + schema.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	actual, _ := compiled.LoadOrStore(schema.Name, s)
	return actual.(*jsonschema.Schema), nil
}
