package main

import (
	"context"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/credit"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/emission"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/forecast"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/limit"
)

// emissionHistory adapts emission.Service to forecast.History
type emissionHistory struct {
	svc *emission.Service
}

func (a *emissionHistory) DailyTotals(ctx context.Context, ownerID uuid.UUID, days int) ([]forecast.DailyTotal, error) {
	totals, err := a.svc.DailyTotals(ctx, ownerID, days)
	if err != nil {
		return nil, err
	}
	out := make([]forecast.DailyTotal, len(totals))
	for i, t := range totals {
		out[i] = forecast.DailyTotal{Day: t.Day, TotalCo2Kg: t.TotalCo2Kg}
	}
	return out, nil
}

func (a *emissionHistory) YearToDateKg(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	t, err := a.svc.YearToDate(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return t.TotalCo2Kg, nil
}

func offersFrom(catalog credit.Catalog) []limit.CreditOffer {
	offers := make([]limit.CreditOffer, len(catalog))
	for i, e := range catalog {
		offers[i] = limit.CreditOffer{
			Type:        string(e.Type),
			Name:        e.Name,
			Description: e.Description,
			PricePerKg:  e.PricePerKg,
		}
	}
	return offers
}
