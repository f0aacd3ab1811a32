package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCut_Key(t *testing.T) {
	tests := []struct {
		name string
		a    *Cut
		b    *Cut
		same bool
	}{
		{
			name: "identical name and params share a key",
			a:    NewCut("pt_min", map[string]any{"pt": 30.0, "field": "jet_pt"}, nil),
			b:    NewCut("pt_min", map[string]any{"field": "jet_pt", "pt": 30.0}, nil),
			same: true,
		},
		{
			name: "different params split the key",
			a:    NewCut("pt_min", map[string]any{"pt": 30.0}, nil),
			b:    NewCut("pt_min", map[string]any{"pt": 40.0}, nil),
			same: false,
		},
		{
			name: "different names split the key",
			a:    NewCut("pt_min", nil, nil),
			b:    NewCut("eta_max", nil, nil),
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.same {
				assert.Equal(t, tt.a.Key(), tt.b.Key())
			} else {
				assert.NotEqual(t, tt.a.Key(), tt.b.Key())
			}
		})
	}
}

func TestCut_Key_Parameterless(t *testing.T) {
	assert.Equal(t, "passthrough", Passthrough.Key())
}

func TestCut_Evaluate_ShapeMismatch(t *testing.T) {
	short := NewCut("short", nil, func(_ EventBatch, _ map[string]any) ([]bool, error) {
		return []bool{true}, nil
	})

	batch := NewColumnBatch(4)
	_, err := short.Evaluate(batch)
	require.Error(t, err)

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 1, shapeErr.Got)
	assert.Equal(t, 4, shapeErr.Want)
}

func TestPassthrough_AllTrue(t *testing.T) {
	batch := NewColumnBatch(5)
	col, err := Passthrough.Evaluate(batch)
	require.NoError(t, err)
	require.Len(t, col, 5)
	for i, v := range col {
		assert.True(t, v, "event %d", i)
	}
}

func TestColumnBatch_SchemaErrors(t *testing.T) {
	batch := NewColumnBatch(3)
	require.NoError(t, batch.SetFloats("jet_pt", []float64{10, 20, 30}))

	_, err := batch.Floats("jet_eta")
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "jet_eta", schemaErr.Field)

	_, err = batch.Ints("jet_pt")
	require.ErrorAs(t, err, &schemaErr)

	col, err := batch.Floats("jet_pt")
	require.NoError(t, err)
	assert.Len(t, col, 3)
}

func TestColumnBatch_RejectsMismatchedColumn(t *testing.T) {
	batch := NewColumnBatch(3)
	assert.Error(t, batch.SetFloats("x", []float64{1}))
	assert.Error(t, batch.SetInts("n", []int64{1, 2}))
	assert.Error(t, batch.SetBools("b", []bool{true, false, true, false}))
}

func TestConfigError_CollectsAllIssues(t *testing.T) {
	issues := []error(nil)
	issues = append(issues, errors.New("weight \"sf_typo\" is not registered"))
	issues = append(issues, errors.New("category \"cat1\" references unknown cut \"nope\""))

	err := &ConfigError{Issues: issues}
	assert.Contains(t, err.Error(), "2 issues")
	assert.Contains(t, err.Error(), "sf_typo")
	assert.Contains(t, err.Error(), "cat1")
}
