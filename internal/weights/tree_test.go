package weights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTree_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		tree     Tree
		sample   string
		category string
		want     []string
	}{
		{
			name: "disjoint sets union across all four levels",
			tree: Tree{
				Common: Scope{
					Inclusive:  []string{"a"},
					ByCategory: map[string][]string{"cat": {"b"}},
				},
				BySample: map[string]Scope{
					"S": {
						Inclusive:  []string{"c"},
						ByCategory: map[string][]string{"cat": {"d"}},
					},
				},
			},
			sample:   "S",
			category: "cat",
			want:     []string{"a", "b", "c", "d"},
		},
		{
			name: "overlapping identifiers apply once",
			tree: Tree{
				Common: Scope{
					Inclusive:  []string{"A", "B"},
					ByCategory: map[string][]string{"cat1": {"C"}},
				},
				BySample: map[string]Scope{
					"S": {Inclusive: []string{"B", "D"}},
				},
			},
			sample:   "S",
			category: "cat1",
			want:     []string{"A", "B", "C", "D"},
		},
		{
			name: "unknown sample falls back to common scopes",
			tree: Tree{
				Common: Scope{
					Inclusive:  []string{"a"},
					ByCategory: map[string][]string{"cat": {"b"}},
				},
				BySample: map[string]Scope{"S": {Inclusive: []string{"c"}}},
			},
			sample:   "other",
			category: "cat",
			want:     []string{"a", "b"},
		},
		{
			name: "unknown category uses inclusive scopes only",
			tree: Tree{
				Common: Scope{
					Inclusive:  []string{"a"},
					ByCategory: map[string][]string{"cat": {"b"}},
				},
				BySample: map[string]Scope{"S": {Inclusive: []string{"c"}}},
			},
			sample:   "S",
			category: "elsewhere",
			want:     []string{"a", "c"},
		},
		{
			name:     "empty tree resolves to nothing",
			tree:     Tree{},
			sample:   "S",
			category: "cat",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tree.Resolve(tt.sample, tt.category))
		})
	}
}

func TestTree_Identifiers(t *testing.T) {
	tree := Tree{
		Common: Scope{
			Inclusive:  []string{"a", "b"},
			ByCategory: map[string][]string{"c1": {"c"}, "c2": {"a"}},
		},
		BySample: map[string]Scope{
			"S": {Inclusive: []string{"d"}, ByCategory: map[string][]string{"c1": {"b"}}},
		},
	}

	ids := tree.Identifiers()
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, ids)
}
