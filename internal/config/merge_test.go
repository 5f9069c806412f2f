package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"rapydo/internal/logger"
)

func parseTree(t *testing.T, src string) *Tree {
	t.Helper()
	tree := NewTree()
	require.NoError(t, yaml.Unmarshal([]byte(src), tree))
	return tree
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(logger.ResetOutput)
	return &buf
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		custom   string
		expected map[string]interface{}
	}{
		{
			name:   "keys from both sides are kept",
			base:   "a: 1\nb: 2\n",
			custom: "c: 3\n",
			expected: map[string]interface{}{
				"a": 1, "b": 2, "c": 3,
			},
		},
		{
			name:     "scalar overwrites",
			base:     "workers: 1\n",
			custom:   "workers: 2\n",
			expected: map[string]interface{}{"workers": 2},
		},
		{
			name:     "lists are appended without dedup",
			base:     "a: [1, 2]\n",
			custom:   "a: [3, 2]\n",
			expected: map[string]interface{}{"a": []interface{}{1, 2, 3, 2}},
		},
		{
			name:   "trees merge recursively",
			base:   "variables:\n  env:\n    A: 1\n    B: 2\n",
			custom: "variables:\n  env:\n    B: 3\n    C: 4\n",
			expected: map[string]interface{}{
				"variables": map[string]interface{}{
					"env": map[string]interface{}{"A": 1, "B": 3, "C": 4},
				},
			},
		},
		{
			name:   "null over tree keeps base",
			base:   "a:\n  x: 1\n",
			custom: "a:\n",
			expected: map[string]interface{}{
				"a": map[string]interface{}{"x": 1},
			},
		},
		{
			name:     "null over scalar overwrites",
			base:     "a: 1\n",
			custom:   "a:\n",
			expected: map[string]interface{}{"a": nil},
		},
		{
			name:     "list over scalar starts a new list",
			base:     "a: x\n",
			custom:   "a: [1]\n",
			expected: map[string]interface{}{"a": []interface{}{1}},
		},
		{
			name:   "tree over scalar overwrites",
			base:   "a: x\n",
			custom: "a:\n  b: 1\n",
			expected: map[string]interface{}{
				"a": map[string]interface{}{"b": 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Merge(parseTree(t, tt.base), parseTree(t, tt.custom))
			assert.Equal(t, tt.expected, result.ToMap())
		})
	}
}

func TestMergeNullOverTreeWarns(t *testing.T) {
	logs := captureLogs(t)

	result := Merge(parseTree(t, "a:\n  x: 1\n"), parseTree(t, "a: ~\n"))

	assert.Equal(t, map[string]interface{}{"a": map[string]interface{}{"x": 1}}, result.ToMap())
	assert.Contains(t, logs.String(), "Cannot replace a with empty list")
}

func TestMergeMutatesBase(t *testing.T) {
	base := parseTree(t, "a: 1\n")
	result := Merge(base, parseTree(t, "b: 2\n"))

	assert.Same(t, base, result)
	assert.True(t, base.Has("b"))
}

func TestMergeNilInputs(t *testing.T) {
	custom := parseTree(t, "a: 1\n")

	result := Merge(nil, custom)
	assert.Equal(t, map[string]interface{}{"a": 1}, result.ToMap())

	base := parseTree(t, "b: 2\n")
	assert.Same(t, base, Merge(base, nil))

	assert.Equal(t, 0, Merge(nil, nil).Len())
}

func TestMergeKeepsOrder(t *testing.T) {
	result := Merge(parseTree(t, "z: 1\na: 2\n"), parseTree(t, "m: 3\nz: 4\n"))
	assert.Equal(t, []string{"z", "a", "m"}, result.Keys())
}

// Every key of either input must survive, and shared subtrees must equal
// the recursive merge of the two subtrees.
func TestMergePrecedenceProperty(t *testing.T) {
	base := `
project:
  title: base
  keep: yes
variables:
  env:
    ONLY_BASE: 1
    SHARED: base
list: [a]
`
	custom := `
project:
  title: custom
variables:
  env:
    SHARED: custom
    ONLY_CUSTOM: 2
extra: true
list: [b]
`
	b := parseTree(t, base)
	c := parseTree(t, custom)
	expectedEnv := Merge(b.Subtree("variables").Subtree("env"), c.Subtree("variables").Subtree("env")).ToMap()

	result := Merge(parseTree(t, base), parseTree(t, custom))

	for _, k := range append(parseTree(t, base).Keys(), parseTree(t, custom).Keys()...) {
		assert.True(t, result.Has(k), "missing key %s", k)
	}
	assert.Equal(t, "custom", result.String("project.title"))
	assert.Equal(t, true, result.Bool("project.keep"))
	assert.Equal(t, expectedEnv, result.Subtree("variables").Subtree("env").ToMap())
	assert.Equal(t, []interface{}{"a", "b"}, result.ToMap()["list"])
}
