package weights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepstack/cutflow/internal/domain"
)

func TestNewBuiltinRegistry(t *testing.T) {
	data := CatalogData{
		Lumi: map[string]float64{"2018": 59.7},
		XSec: map[string]float64{"ttbar": 831.76},
		Corrections: map[string]Correction{
			Pileup: CorrectionFunc(func(batch domain.EventBatch, _ domain.Metadata) (*Values, error) {
				return &Values{
					Name:    Pileup,
					Nominal: constant(batch.Len(), 1.02),
					Variations: []Variation{{
						Name: Pileup,
						Up:   constant(batch.Len(), 1.05),
						Down: constant(batch.Len(), 0.99),
					}},
				}, nil
			}),
		},
	}

	reg, err := NewBuiltinRegistry(data)
	require.NoError(t, err)

	for _, name := range []string{GenWeight, Lumi, XS, Pileup} {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, "provider %s", name)
	}
	// No correction data was supplied for the other scale factors, so
	// referencing them must fail fast at validation time.
	_, ok := reg.Lookup(SFBtag)
	assert.False(t, ok)

	batch := domain.NewColumnBatch(3)
	require.NoError(t, batch.SetFloats("genWeight", []float64{1, -1, 1}))
	meta := domain.Metadata{Sample: "ttbar", Year: "2018", IsMC: true}

	gen, _ := reg.Lookup(GenWeight)
	v, err := gen.Compute(batch, meta)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -1, 1}, v.Nominal)

	lumi, _ := reg.Lookup(Lumi)
	v, err = lumi.Compute(batch, meta)
	require.NoError(t, err)
	assert.Equal(t, constant(3, 59.7), v.Nominal)

	xs, _ := reg.Lookup(XS)
	v, err = xs.Compute(batch, meta)
	require.NoError(t, err)
	assert.Equal(t, constant(3, 831.76), v.Nominal)

	pu, _ := reg.Lookup(Pileup)
	v, err = pu.Compute(batch, meta)
	require.NoError(t, err)
	require.Len(t, v.Variations, 1)
	assert.Equal(t, Pileup, v.Variations[0].Name)
}

func TestBuiltin_GenWeightMissingFieldIsSchemaError(t *testing.T) {
	reg, err := NewBuiltinRegistry(CatalogData{})
	require.NoError(t, err)

	gen, ok := reg.Lookup(GenWeight)
	require.True(t, ok)

	_, err = gen.Compute(domain.NewColumnBatch(2), domain.Metadata{Sample: "s"})
	var schemaErr *domain.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestBuiltin_UnknownYearAndSample(t *testing.T) {
	reg, err := NewBuiltinRegistry(CatalogData{
		Lumi: map[string]float64{"2018": 59.7},
		XSec: map[string]float64{"ttbar": 831.76},
	})
	require.NoError(t, err)

	batch := domain.NewColumnBatch(1)

	lumi, _ := reg.Lookup(Lumi)
	_, err = lumi.Compute(batch, domain.Metadata{Sample: "ttbar", Year: "1999"})
	assert.Error(t, err)

	xs, _ := reg.Lookup(XS)
	_, err = xs.Compute(batch, domain.Metadata{Sample: "unknown", Year: "2018"})
	assert.Error(t, err)
}
