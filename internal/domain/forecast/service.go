package forecast

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/limit"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

const (
	trainingWindowDays = 60
	defaultHorizonDays = 30
	maxHorizonDays     = 90
)

// History supplies recorded emissions.
type History interface {
	DailyTotals(ctx context.Context, ownerID uuid.UUID, days int) ([]DailyTotal, error)
	YearToDateKg(ctx context.Context, ownerID uuid.UUID) (float64, error)
}

// Budget supplies the household's annual limit.
type Budget interface {
	AnnualLimit(ctx context.Context, ownerID uuid.UUID) (float64, error)
}

// Forecast is a prediction with its limit projection.
type Forecast struct {
	Predictions  []Point       `json:"predictions"`
	HorizonDays  int           `json:"prediction_horizon_days"`
	TotalKg      float64       `json:"predicted_total_kg"`
	Warning      limit.Warning `json:"warning"`
	Explanation  Explanation   `json:"model"`
	GeneratedFor string        `json:"generated_for"`
}

type Service struct {
	history History
	budget  Budget
	now     func() time.Time
}

func NewService(history History, budget Budget) *Service {
	return &Service{history: history, budget: budget, now: time.Now}
}

// Train fits a model on the last 60 days and explains it.
func (s *Service) Train(ctx context.Context, ownerID uuid.UUID) (Explanation, error) {
	m, err := s.train(ctx, ownerID)
	if err != nil {
		return Explanation{}, err
	}
	return Explain(m), nil
}

// Explain describes the model the next forecast would use. With too little
// history it returns the method with an empty model instead of an error.
func (s *Service) Explain(ctx context.Context, ownerID uuid.UUID) (Explanation, error) {
	m, err := s.train(ctx, ownerID)
	if errors.Is(err, ErrInsufficientHistory) {
		return Explain(Model{}), nil
	}
	if err != nil {
		return Explanation{}, err
	}
	return Explain(m), nil
}

func (s *Service) train(ctx context.Context, ownerID uuid.UUID) (Model, error) {
	history, err := s.history.DailyTotals(ctx, ownerID, trainingWindowDays)
	if err != nil {
		return Model{}, err
	}
	return Train(history)
}

// Forecast predicts the next days days (30 by default, at most 90) and
// projects them against the annual limit.
func (s *Service) Forecast(ctx context.Context, ownerID uuid.UUID, days int) (*Forecast, error) {
	if days <= 0 {
		days = defaultHorizonDays
	}
	if days > maxHorizonDays {
		days = maxHorizonDays
	}

	m, err := s.train(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	points := Predict(m, now, days)
	predicted := make([]float64, len(points))
	for i, p := range points {
		predicted[i] = p.PredictedCo2Kg
	}

	current, err := s.history.YearToDateKg(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	annual, err := s.budget.AnnualLimit(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &Forecast{
		Predictions:  points,
		HorizonDays:  days,
		TotalKg:      precision.Sum(precision.Money, predicted...),
		Warning:      limit.EarlyWarning(annual, current, predicted),
		Explanation:  Explain(m),
		GeneratedFor: now.Format(time.DateOnly),
	}, nil
}
