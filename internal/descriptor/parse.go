package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Parse decodes descriptor content. Content whose first token is an object
// is read as JSON and may carry // and /* */ comments and trailing commas.
// Anything else is read as a YAML mapping.
func Parse(data []byte) (*Descriptor, error) {
	stripped := jsonc.ToJSON(data)
	if trimmed := bytes.TrimSpace(stripped); len(trimmed) > 0 && trimmed[0] == '{' {
		fields, err := parseJSON(trimmed)
		if err != nil {
			return nil, err
		}
		return New(fields...)
	}

	fields, err := parseYAML(data)
	if err != nil {
		return nil, err
	}
	return New(fields...)
}

// parseJSON walks the top-level object token by token so fields keep their
// declaration order.
func parseJSON(data []byte) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string key %v", ErrInvalidDescriptor, tok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidDescriptor, name, err)
		}

		value, err := jsonFieldValue(name, raw)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Value: value})
	}

	// Closing brace, then nothing but whitespace.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidDescriptor)
	}

	return fields, nil
}

func jsonFieldValue(name string, raw any) (FieldValue, error) {
	switch v := raw.(type) {
	case string:
		return Scalar(v), nil
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return FieldValue{}, &FieldTypeError{Field: name, Shape: "list containing " + jsonShape(item)}
			}
			values = append(values, s)
		}
		return List(values...), nil
	default:
		return FieldValue{}, &FieldTypeError{Field: name, Shape: jsonShape(raw)}
	}
}

func jsonShape(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func parseYAML(data []byte) ([]Field, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDescriptor)
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is %s, want object", ErrInvalidDescriptor, shapeOf(root))
	}

	fields := make([]Field, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := resolveAlias(root.Content[i])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: non-scalar key at line %d", ErrInvalidDescriptor, key.Line)
		}

		value, err := fieldValue(key.Value, resolveAlias(root.Content[i+1]))
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: key.Value, Value: value})
	}

	return fields, nil
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

func fieldValue(name string, node *yaml.Node) (FieldValue, error) {
	switch {
	case isString(node):
		return Scalar(node.Value), nil
	case node.Kind == yaml.SequenceNode:
		values := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolveAlias(item)
			if !isString(item) {
				return FieldValue{}, &FieldTypeError{Field: name, Shape: "list containing " + shapeOf(item)}
			}
			values = append(values, item.Value)
		}
		return List(values...), nil
	default:
		return FieldValue{}, &FieldTypeError{Field: name, Shape: shapeOf(node)}
	}
}

func isString(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!str"
}

// shapeOf names a node the way a JSON author would think of it.
func shapeOf(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!str":
			return "string"
		case "!!int", "!!float":
			return "number"
		case "!!bool":
			return "bool"
		case "!!null":
			return "null"
		default:
			return node.ShortTag()
		}
	default:
		return "unknown"
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
