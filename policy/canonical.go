package policy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Tree is a parsed policy artefact: nested string-keyed mappings whose leaves
// are decimal.Decimal (all YAML numerals), string, bool, nil, or []any.
// Numerals are converted from their scalar literal text, never through
// float64, so regulatory parameters survive parsing exactly.
type Tree map[string]any

// parseTree decodes one YAML document into a Tree.
func parseTree(data []byte) (Tree, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, fmt.Errorf("expected a single yaml document")
	}
	value, err := convertNode(root.Content[0])
	if err != nil {
		return nil, err
	}
	tree, ok := value.(Tree)
	if !ok {
		return nil, fmt.Errorf("document root must be a mapping")
	}
	return tree, nil
}

func convertNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		tree := make(Tree, len(node.Content)/2)
		for i := 0; i < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Tag != "!!str" {
				return nil, fmt.Errorf("line %d: mapping keys must be strings", keyNode.Line)
			}
			if _, exists := tree[keyNode.Value]; exists {
				return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, keyNode.Value)
			}
			value, err := convertNode(valueNode)
			if err != nil {
				return nil, err
			}
			tree[keyNode.Value] = value
		}
		return tree, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := convertNode(item)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.ScalarNode:
		return convertScalar(node)
	case yaml.AliasNode:
		return convertNode(node.Alias)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node", node.Line)
	}
}

func convertScalar(node *yaml.Node) (any, error) {
	switch node.Tag {
	case "!!int", "!!float":
		d, err := decimal.NewFromString(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: numeric scalar %q: %w", node.Line, node.Value, err)
		}
		return d, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: bool scalar: %w", node.Line, err)
		}
		return b, nil
	case "!!null":
		return nil, nil
	default:
		return node.Value, nil
	}
}

// canonicalBytes renders a Tree as canonical JSON: lexicographically sorted
// keys, decimals in normalized form, no insignificant whitespace. Identical
// logical content always yields identical bytes regardless of source key
// ordering, which is what makes artefact hashes reproducible.
func canonicalBytes(value any) []byte {
	var buf bytes.Buffer
	writeCanonical(&buf, value)
	return buf.Bytes()
}

func writeCanonical(buf *bytes.Buffer, value any) {
	switch v := value.(type) {
	case Tree:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, _ := json.Marshal(k)
			buf.Write(data)
			buf.WriteByte(':')
			writeCanonical(buf, v[k])
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, item)
		}
		buf.WriteByte(']')
	case decimal.Decimal:
		buf.WriteString(v.String())
	case string:
		data, _ := json.Marshal(v)
		buf.Write(data)
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		// Trees only ever hold the types above.
		panic(fmt.Sprintf("unexpected tree value %T", value))
	}
}

// hashTree returns the sha256 hex digest of a Tree's canonical form.
func hashTree(value any) string {
	sum := sha256.Sum256(canonicalBytes(value))
	return hex.EncodeToString(sum[:])
}
