package emission

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = DefaultFactors(0.85, 0.0018)

func TestTotalCo2MatchesParts(t *testing.T) {
	inputs := []struct{ kwh, ppm float64 }{
		{1, 0},
		{0.01725, 900},
		{12.34567, 432.1},
		{250, 10000},
		{0, 0},
	}
	for _, in := range inputs {
		b, err := TotalCo2(in.kwh, in.ppm, defaults)
		require.NoError(t, err)
		assert.InDelta(t, b.ElectricityCo2Kg+b.CombustionCo2Kg, b.TotalCo2Kg, 0.0001, "kwh=%v ppm=%v", in.kwh, in.ppm)
	}
}

func TestElectricityAndCombustion(t *testing.T) {
	elec, err := ElectricityCo2(100, defaults)
	require.NoError(t, err)
	assert.Equal(t, 85.0, elec)

	comb, err := CombustionCo2(1000, defaults)
	require.NoError(t, err)
	assert.Equal(t, 1.8, comb)

	_, err = ElectricityCo2(-1, defaults)
	assert.True(t, errors.Is(err, ErrNegativeKwh))

	_, err = TotalCo2(1, -1, defaults)
	assert.True(t, errors.Is(err, ErrNegativePpm))
}

func TestExplain(t *testing.T) {
	e := Explain(defaults)
	assert.Equal(t, DefaultSourceLabel, e.SourceLabel)
	assert.Nil(t, e.EffectiveAt)
	assert.Equal(t, 0.85, e.Factors.ElectricityKgPerKwh)
	assert.Contains(t, e.Formulas, "total_co2_kg")

	stored := defaults
	stored.ID = uuid.New()
	stored.SourceLabel = "CEA 2026"
	assert.NotNil(t, Explain(stored).EffectiveAt)
}
