package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tree is an ordered mapping from string keys to values. Values are
// scalars (string, int, float64, bool, nil), nested *Tree or []interface{}
// sequences. Key order follows the YAML source.
type Tree struct {
	keys   []string
	values map[string]interface{}
}

// NewTree returns an empty tree
func NewTree() *Tree {
	return &Tree{values: make(map[string]interface{})}
}

// Len returns the number of keys
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the keys in insertion order
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Has reports whether key is present, even with a nil value
func (t *Tree) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.values[key]
	return ok
}

// Get returns the value stored under key
func (t *Tree) Get(key string) (interface{}, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Set stores value under key, appending the key if it is new
func (t *Tree) Set(key string, value interface{}) {
	if t.values == nil {
		t.values = make(map[string]interface{})
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Delete removes key from the tree
func (t *Tree) Delete(key string) {
	if t == nil {
		return
	}
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Subtree returns the nested tree under key, or nil
func (t *Tree) Subtree(key string) *Tree {
	v, _ := t.Get(key)
	sub, _ := v.(*Tree)
	return sub
}

// Lookup resolves a dotted path such as "project.title"
func (t *Tree) Lookup(path string) (interface{}, bool) {
	current := t
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := current.Get(part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(*Tree)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// String returns the value at a dotted path rendered as a string.
// Missing and nil values return "".
func (t *Tree) String(path string) string {
	v, ok := t.Lookup(path)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Bool returns the value at a dotted path as a boolean. Strings "1",
// "true" and "yes" are treated as true, like compose environment flags.
func (t *Tree) Bool(path string) bool {
	v, ok := t.Lookup(path)
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case string:
		switch strings.ToLower(b) {
		case "1", "true", "yes":
			return true
		}
	}
	return false
}

// ToMap converts the tree into plain maps, losing key order
func (t *Tree) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, t.Len())
	for _, k := range t.Keys() {
		out[k] = plain(t.values[k])
	}
	return out
}

func plain(v interface{}) interface{} {
	switch val := v.(type) {
	case *Tree:
		return val.ToMap()
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = plain(e)
		}
		return out
	default:
		return val
	}
}

// UnmarshalYAML decodes a mapping node preserving key order
func (t *Tree) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeNode(node)
	if err != nil {
		return err
	}
	if v == nil {
		*t = *NewTree()
		return nil
	}
	tree, ok := v.(*Tree)
	if !ok {
		return fmt.Errorf("line %d: expected a mapping, found %s", node.Line, kindName(node))
	}
	*t = *tree
	return nil
}

// MarshalYAML encodes the tree as an ordered mapping node
func (t *Tree) MarshalYAML() (interface{}, error) {
	return encodeValue(t)
}

func decodeNode(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return decodeNode(node.Content[0])
	case yaml.AliasNode:
		return decodeNode(node.Alias)
	case yaml.ScalarNode:
		var v interface{}
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := decodeNode(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return decodeMapping(node)
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", node.Line)
}

// decodeMapping applies "<<" merge keys first so explicit keys win
func decodeMapping(node *yaml.Node) (*Tree, error) {
	tree := NewTree()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Tag != "!!merge" {
			continue
		}
		merged, err := decodeNode(value)
		if err != nil {
			return nil, err
		}
		sources := []interface{}{merged}
		if list, ok := merged.([]interface{}); ok {
			sources = list
		}
		for _, src := range sources {
			sub, ok := src.(*Tree)
			if !ok {
				return nil, fmt.Errorf("line %d: merge key requires a mapping", value.Line)
			}
			for _, k := range sub.keys {
				if !tree.Has(k) {
					tree.Set(k, sub.values[k])
				}
			}
		}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Tag == "!!merge" {
			continue
		}
		v, err := decodeNode(value)
		if err != nil {
			return nil, err
		}
		tree.Set(key.Value, v)
	}
	return tree, nil
}

func encodeValue(v interface{}) (*yaml.Node, error) {
	switch val := v.(type) {
	case *Tree:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range val.Keys() {
			child, err := encodeValue(val.values[k])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
		}
		return node, nil
	case []interface{}:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			child, err := encodeValue(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, err
		}
		return node, nil
	}
}

func kindName(node *yaml.Node) string {
	n := node
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	switch n.Kind {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	}
	return "an unknown node"
}
