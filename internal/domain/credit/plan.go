package credit

import (
	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

// lot is the spendable remainder of one active credit.
type lot struct {
	ID          uuid.UUID `db:"id"`
	AmountKgCo2 float64   `db:"amount_kg_co2"`
}

// draw is the amount taken from one lot.
type draw struct {
	ID     uuid.UUID
	Amount float64
}

// planDeduction takes amount from lots in the order given, which callers sort
// oldest expiry first. It reports false when the lots cannot cover amount.
func planDeduction(lots []lot, amount float64) ([]draw, bool) {
	remaining := precision.Round(amount, precision.Co2Kg)
	draws := make([]draw, 0, len(lots))

	for _, l := range lots {
		if remaining <= 0 {
			break
		}
		if l.AmountKgCo2 <= 0 {
			continue
		}
		take := l.AmountKgCo2
		if precision.Cmp(take, remaining, precision.Co2Kg) > 0 {
			take = remaining
		}
		draws = append(draws, draw{ID: l.ID, Amount: take})
		remaining = precision.Sub(remaining, take, precision.Co2Kg)
	}

	if remaining > 0 {
		return nil, false
	}
	return draws, true
}
