package precision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 1.0, Round(0.18500000000000005/0.185, Amps))
	assert.Equal(t, 0.01725, Round(207*(300.0/3600.0)/1000, Kwh))
	assert.Equal(t, 2.35, Round(2.345, Money))
	assert.Equal(t, -2.35, Round(-2.345, Money))
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	assert.Equal(t, 0.3, Sum(Co2Kg, 0.1, 0.2))
	assert.Equal(t, 0.0, Sum(Co2Kg))
}

func TestSubAndMul(t *testing.T) {
	assert.Equal(t, 40.0, Sub(100, 60, Co2Kg))
	assert.Equal(t, 600.0, Mul(60, 10, Money))
	assert.Equal(t, 0.18, Mul(1.2, 0.15, Money))
}

func TestCmp(t *testing.T) {
	assert.Equal(t, 0, Cmp(0.1+0.2, 0.3, Co2Kg))
	assert.Equal(t, -1, Cmp(59.9999, 60, Co2Kg))
	assert.Equal(t, 1, Cmp(60.0001, 60, Co2Kg))
}
