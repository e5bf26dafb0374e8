package credit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPlanDeduction(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	lots := []lot{
		{ID: a, AmountKgCo2: 10},
		{ID: b, AmountKgCo2: 0},
		{ID: c, AmountKgCo2: 25.5},
	}

	t.Run("splits across lots in order", func(t *testing.T) {
		draws, ok := planDeduction(lots, 20.25)
		assert.True(t, ok)
		assert.Equal(t, []draw{{ID: a, Amount: 10}, {ID: c, Amount: 10.25}}, draws)
	})

	t.Run("single lot covers amount", func(t *testing.T) {
		draws, ok := planDeduction(lots, 4)
		assert.True(t, ok)
		assert.Equal(t, []draw{{ID: a, Amount: 4}}, draws)
	})

	t.Run("exact total drains every lot", func(t *testing.T) {
		draws, ok := planDeduction(lots, 35.5)
		assert.True(t, ok)
		assert.Equal(t, []draw{{ID: a, Amount: 10}, {ID: c, Amount: 25.5}}, draws)
	})

	t.Run("short balance", func(t *testing.T) {
		draws, ok := planDeduction(lots, 35.5001)
		assert.False(t, ok)
		assert.Nil(t, draws)
	})

	t.Run("no lots", func(t *testing.T) {
		_, ok := planDeduction(nil, 1)
		assert.False(t, ok)
	})
}
