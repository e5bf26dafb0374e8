package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/config"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/admin"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/auth"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/calibration"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/company"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/credit"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/emission"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/feed"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/forecast"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/household"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/limit"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/marketplace"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/user"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/middleware"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/jwt"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/password"
	pkgresponse "github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/response"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/storage"
)

type app struct {
	router     http.Handler
	auth       *auth.Service
	hub        *feed.Hub
	expiry     *credit.ExpiryWorker
	reconciler *marketplace.Reconciler
}

func buildApp(cfg *config.Config, st *stores, rdb *redis.Client, receipts storage.Store) *app {
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	var tokens auth.TokenStore = auth.NewMemoryTokenStore()
	if rdb != nil {
		tokens = auth.NewRedisTokenStore(rdb)
	}

	// ---------- Services ----------
	profile := calibration.DefaultProfile()
	profile.VoltageOffset = cfg.SensorVoltageOffset
	profile.Sensitivity = cfg.SensorSensitivity
	profile.NoiseFloorAmps = cfg.SensorNoiseFloorAmps
	profile.SystemVoltage = cfg.SensorSystemVoltage

	userService := user.NewService(st.users)
	authService := auth.NewService(st.users, jwtService, tokens, password.NewHasher(password.DefaultCost))
	emissionService := emission.NewService(st.emissions, st.factors, emission.NewFactorCache(rdb), profile,
		emission.DefaultFactors(cfg.EmissionFactorKwh, cfg.CombustionPpmToKgFactor))

	catalog := credit.DefaultCatalog()
	creditService := credit.NewService(st.credits, catalog)

	limitOpts := limit.Options{
		Factors: limit.Factors{BasePerSqm: cfg.CarbonLimitBasePerSqm, PerOccupant: cfg.CarbonLimitPerOccupant},
		Offers:  offersFrom(catalog),
	}
	householdService := household.NewService(st.users, emissionService, creditService, limitOpts)
	forecastService := forecast.NewService(&emissionHistory{svc: emissionService}, householdService)

	hub := feed.NewHub(rdb)
	go hub.Run()

	marketService := marketplace.NewService(st.listings, st.payments, credit.NewLedger(creditService), userService, marketplace.Config{
		MinPricePerKg: cfg.MarketplaceMinPricePerKg,
		ListingTTL:    cfg.ListingTTL,
		PendingTTL:    cfg.PaymentPendingTTL,
		StaleAfter:    cfg.SettlementStaleAfter,
		UpiSuffix:     cfg.UpiHandleSuffix,
	})
	marketService.SetPublisher(hub)
	if receipts != nil {
		marketService.SetReceiptStore(receipts)
	}
	reconciler := marketplace.NewReconciler(marketService)

	companyService := company.NewService(st.companies)
	adminService := admin.NewService(st.payments, st.listings, st.users, companyService, creditService, reconciler)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	emissionHandler := emission.NewHandler(emissionService)
	householdHandler := household.NewHandler(householdService)
	creditHandler := credit.NewHandler(creditService)
	marketHandler := marketplace.NewHandler(marketService)
	forecastHandler := forecast.NewHandler(forecastService)
	feedHandler := feed.NewHandler(hub, cfg.AllowedOrigins)
	adminHandler := admin.NewHandler(adminService)
	companyHandler := company.NewHandler(companyService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		// Upgraded connections must not be wrapped by Compress
		r.Mount("/feed", feedHandler.Routes(authMiddleware))

		r.Group(func(r chi.Router) {
			r.Use(chimw.Compress(5))

			r.Mount("/auth", authHandler.Routes(authMiddleware))
			r.Mount("/iot", emissionHandler.IoTRoutes(authMiddleware))
			r.Mount("/emissions", emissionHandler.Routes(authMiddleware, householdHandler.Status))
			r.Mount("/household", householdHandler.Routes(authMiddleware))
			r.Mount("/credits", creditHandler.Routes(authMiddleware))
			r.Mount("/marketplace", marketHandler.Routes(authMiddleware))
			r.Mount("/predictions", forecastHandler.Routes(authMiddleware))
			r.Mount("/admin", adminHandler.Routes(authMiddleware, emissionHandler.AdminRoutes(), companyHandler.Routes()))
		})
	})

	return &app{
		router:     r,
		auth:       authService,
		hub:        hub,
		expiry:     credit.NewExpiryWorker(creditService, cfg.CreditSweepInterval),
		reconciler: reconciler,
	}
}
