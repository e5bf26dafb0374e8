package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                      "test",
		StoreDriver:              "memory",
		JWTSecret:                "test-secret",
		JWTIssuer:                "carbon-test",
		JWTAccessTTL:             15 * time.Minute,
		JWTRefreshTTL:            24 * time.Hour,
		AllowedOrigins:           []string{"http://localhost:3000"},
		EmissionFactorKwh:        0.82,
		CombustionPpmToKgFactor:  0.0018,
		CarbonLimitBasePerSqm:    20,
		CarbonLimitPerOccupant:   1000,
		SensorVoltageOffset:      2.5,
		SensorSensitivity:        0.185,
		SensorNoiseFloorAmps:     0.05,
		SensorSystemVoltage:      230,
		MarketplaceMinPricePerKg: 0.5,
		ListingTTL:               30 * 24 * time.Hour,
		PaymentPendingTTL:        24 * time.Hour,
		SettlementStaleAfter:     5 * time.Minute,
		UpiHandleSuffix:          "@carbonpay",
		CreditSweepInterval:      time.Hour,
		ReconcileInterval:        time.Minute,
	}
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	a := buildApp(testConfig(), memoryStores(), nil, nil)
	t.Cleanup(a.hub.Shutdown)
	return a
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)

	rec := do(t, a.router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	a := newTestApp(t)

	if rec := do(t, a.router, http.MethodGet, "/api/v1/credits/types", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("credit types: expected 200, got %d", rec.Code)
	}
	if rec := do(t, a.router, http.MethodGet, "/api/v1/household/profile", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("profile without token: expected 401, got %d", rec.Code)
	}
	if rec := do(t, a.router, http.MethodGet, "/api/v1/admin/stats", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("admin without token: expected 401, got %d", rec.Code)
	}
	if rec := do(t, a.router, http.MethodGet, "/api/v1/admin/companies", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("companies without token: expected 401, got %d", rec.Code)
	}
}

func TestRegisterThenReadProfile(t *testing.T) {
	a := newTestApp(t)

	rec := do(t, a.router, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":     "asha@example.com",
		"password":  "correct-horse",
		"area_sqm":  120,
		"occupants": 3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var reg struct {
		Data struct {
			Tokens struct {
				AccessToken string `json:"access_token"`
			} `json:"tokens"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&reg); err != nil {
		t.Fatal(err)
	}
	token := reg.Data.Tokens.AccessToken
	if token == "" {
		t.Fatal("expected access token")
	}

	rec = do(t, a.router, http.MethodGet, "/api/v1/household/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// household accounts cannot reach operator routes
	rec = do(t, a.router, http.MethodGet, "/api/v1/admin/stats", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin as household: expected 403, got %d", rec.Code)
	}
}
