package emission

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

var periodLayouts = map[Period]string{
	PeriodDaily:   "2006-01-02",
	PeriodMonthly: "2006-01",
	PeriodYearly:  "2006",
}

// MemoryRepository keeps records in process.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID][]Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID][]Record)}
}

func (r *MemoryRepository) Append(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.OwnerID] = append(r.records[rec.OwnerID], *rec)
	return nil
}

func (r *MemoryRepository) TotalSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (Totals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var t Totals
	for _, rec := range r.records[ownerID] {
		if rec.RecordedAt.Before(since) {
			continue
		}
		t = addRecord(t, rec)
	}
	return t, nil
}

func (r *MemoryRepository) Summarize(ctx context.Context, ownerID uuid.UUID, period Period, limit int) ([]Bucket, error) {
	layout, ok := periodLayouts[period]
	if !ok {
		return nil, ErrInvalidPeriod
	}

	r.mu.RLock()
	byPeriod := make(map[string]Totals)
	for _, rec := range r.records[ownerID] {
		key := rec.RecordedAt.UTC().Format(layout)
		byPeriod[key] = addRecord(byPeriod[key], rec)
	}
	r.mu.RUnlock()

	buckets := make([]Bucket, 0, len(byPeriod))
	for key, t := range byPeriod {
		buckets = append(buckets, Bucket{Period: key, Totals: t})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	if limit > 0 && len(buckets) > limit {
		buckets = buckets[len(buckets)-limit:]
	}
	return buckets, nil
}

func (r *MemoryRepository) ListSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, 0)
	for _, rec := range r.records[ownerID] {
		if !rec.RecordedAt.Before(since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out, nil
}

func (r *MemoryRepository) DailyTotals(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]DailyTotal, error) {
	r.mu.RLock()
	byDay := make(map[time.Time]float64)
	for _, rec := range r.records[ownerID] {
		if rec.RecordedAt.Before(since) {
			continue
		}
		day := rec.RecordedAt.UTC().Truncate(24 * time.Hour)
		byDay[day] = precision.Sum(precision.Co2Kg, byDay[day], rec.TotalCo2Kg)
	}
	r.mu.RUnlock()

	days := make([]DailyTotal, 0, len(byDay))
	for day, total := range byDay {
		days = append(days, DailyTotal{Day: day, TotalCo2Kg: total})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })
	return days, nil
}

func addRecord(t Totals, rec Record) Totals {
	t.TotalCo2Kg = precision.Sum(precision.Co2Kg, t.TotalCo2Kg, rec.TotalCo2Kg)
	t.ElectricityCo2Kg = precision.Sum(precision.Co2Kg, t.ElectricityCo2Kg, rec.ElectricityCo2Kg)
	t.CombustionCo2Kg = precision.Sum(precision.Co2Kg, t.CombustionCo2Kg, rec.CombustionCo2Kg)
	t.ElectricityKwh = precision.Sum(precision.Kwh, t.ElectricityKwh, rec.ElectricityKwh)
	t.RecordCount++
	return t
}

// MemoryFactorRepository keeps factor sets in insertion order.
type MemoryFactorRepository struct {
	mu   sync.RWMutex
	sets []FactorSet
}

func NewMemoryFactorRepository() *MemoryFactorRepository {
	return &MemoryFactorRepository{}
}

func (r *MemoryFactorRepository) Current(ctx context.Context) (*FactorSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.sets) - 1; i >= 0; i-- {
		if r.sets[i].IsActive {
			f := r.sets[i]
			return &f, nil
		}
	}
	return nil, nil
}

func (r *MemoryFactorRepository) Create(ctx context.Context, f *FactorSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = append(r.sets, *f)
	return nil
}

func (r *MemoryFactorRepository) History(ctx context.Context, limit int) ([]FactorSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]FactorSet, 0, len(r.sets))
	for i := len(r.sets) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, r.sets[i])
	}
	return out, nil
}
