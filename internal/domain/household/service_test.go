package household

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/emission"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/limit"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/user"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/middleware"
)

type fakeEmissions map[uuid.UUID]emission.Totals

func (f fakeEmissions) YearToDate(ctx context.Context, ownerID uuid.UUID) (emission.Totals, error) {
	return f[ownerID], nil
}

type fakeCredits map[uuid.UUID]float64

func (f fakeCredits) ActiveBalance(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	return f[ownerID], nil
}

var offers = []limit.CreditOffer{
	{Type: "solar", Name: "Solar", PricePerKg: 0.15},
	{Type: "wind", Name: "Wind", PricePerKg: 0.12},
}

func newTestService(t *testing.T, area float64, occupants int) (*Service, uuid.UUID, fakeEmissions, fakeCredits) {
	t.Helper()
	users := user.NewMemoryRepository()
	id := uuid.New()
	require.NoError(t, users.Create(context.Background(), &user.User{ID: id, Email: "h@x.com", Role: user.RoleHousehold, AreaSqm: area, Occupants: occupants}))

	em, cr := fakeEmissions{}, fakeCredits{}
	return NewService(users, em, cr, limit.Options{Factors: limit.DefaultFactors(), Offers: offers}), id, em, cr
}

func TestStatus_ExceededWithPurchaseOptions(t *testing.T) {
	svc, id, em, _ := newTestService(t, 120, 4)
	em[id] = emission.Totals{TotalCo2Kg: 12000, ElectricityCo2Kg: 9000, CombustionCo2Kg: 3000}

	st, err := svc.Status(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, 10000.0, st.AnnualLimitKg)
	assert.Equal(t, limit.StatusExceeded, st.Status)
	assert.Equal(t, 2000.0, st.ExcessCo2Kg)
	assert.NotEmpty(t, st.Tips)

	opts, err := svc.CreditOptions(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, opts.Options, 2)
	assert.Equal(t, 300.0, opts.Options[0].TotalPrice)
	assert.Equal(t, 240.0, opts.Options[1].TotalPrice)
}

func TestStatus_CreditsOffsetEmissions(t *testing.T) {
	svc, id, em, cr := newTestService(t, 120, 4)
	em[id] = emission.Totals{TotalCo2Kg: 12000}
	cr[id] = 5000

	st, err := svc.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, limit.StatusSafe, st.Status)
	assert.Equal(t, 7000.0, st.NetEmissionsKg)

	opts, err := svc.CreditOptions(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, opts.Options)
}

func TestUpdateProfileRecomputesLimit(t *testing.T) {
	svc, id, _, _ := newTestService(t, 50, 1)
	area, occ := 120.0, 4

	p, err := svc.UpdateProfile(context.Background(), id, &UpdateProfileRequest{AreaSqm: &area, Occupants: &occ})
	require.NoError(t, err)
	assert.Equal(t, 10000.0, p.AnnualLimitKg)

	annual, err := svc.AnnualLimit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, annual)
}

func TestHandler_UpdateProfileValidation(t *testing.T) {
	svc, id, _, _ := newTestService(t, 50, 1)
	withUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), id, middleware.RoleHousehold)))
		})
	}
	router := NewHandler(svc).Routes(withUser)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"area_sqm":100,"occupants":3}`, http.StatusOK},
		{"negative occupants", `{"area_sqm":100,"occupants":-1}`, http.StatusUnprocessableEntity},
		{"missing area", `{"occupants":3}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/limit", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
