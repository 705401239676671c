package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/homescout/homescout-backend/api/controllers"
	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/internal/auth"
	"github.com/homescout/homescout-backend/internal/enquiries"
	"github.com/homescout/homescout-backend/internal/investments"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/reports"
	"github.com/homescout/homescout-backend/internal/sales"
	"github.com/homescout/homescout-backend/internal/users"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	"github.com/homescout/homescout-backend/pkg/config"
	"github.com/homescout/homescout-backend/pkg/enums"
	"github.com/homescout/homescout-backend/pkg/logger"
	"github.com/homescout/homescout-backend/pkg/metrics"
	pkgredis "github.com/homescout/homescout-backend/pkg/redis"
)

// RedisStore backs rate limiting and idempotency.
type RedisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// FlashStore queues and drains per-session flash messages.
type FlashStore interface {
	Push(ctx context.Context, accessID string, flash session.Flash) error
	Pop(ctx context.Context, accessID string) ([]session.Flash, error)
}

// Deps holds everything the HTTP surface needs. Nil services answer with an
// internal error instead of panicking; leave interface fields unset rather
// than assigning typed nil pointers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Store    RedisStore
	Sessions session.AccessSessionChecker
	Flashes  FlashStore

	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Auth        auth.Service
	Register    auth.RegisterService
	Users       users.Service
	Listings    listings.Service
	Sales       sales.Service
	Enquiries   enquiries.Service
	Investments investments.Service
	Reports     reports.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	store, flashes := d.Store, d.Flashes

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentifierLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterIdentifierLim,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, map[string]controllers.Pinger{"db": d.DB, "redis": d.Redis}))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	if dir := strings.TrimSpace(cfg.Static.Dir); dir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, store, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, store, logg)).Post("/register", controllers.AuthRegister(d.Register, d.Auth, flashes, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
	})

	r.Route("/api/v1/properties", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, d.Sessions, logg))
		r.Get("/", controllers.BrowseProperties(d.Listings, logg))
		r.Get("/search", controllers.SearchProperties(d.Listings, logg))
		r.Get("/{propertyId}", controllers.PropertyDetail(d.Listings, logg))
		r.Get("/{propertyId}/photos", controllers.PropertyPhotos(d.Listings, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Idempotency(store, logg))

		r.Get("/session/flash", controllers.SessionFlash(flashes, logg))

		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleSeller))
			r.Post("/requests", controllers.SellerSubmitRequest(d.Listings, flashes, logg))
			r.Get("/requests", controllers.ListSellerRequests(d.Listings, logg))
			r.Get("/properties", controllers.SellerProperties(d.Listings, logg))
			r.Get("/dashboard", controllers.SellerDashboard(d.Listings, logg))
		})

		r.Route("/agent", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleEmployee, enums.RoleAdmin))
			r.Get("/requests", controllers.ListSellerRequests(d.Listings, logg))
			r.Post("/requests/{requestId}/accept", controllers.AgentAcceptRequest(d.Listings, flashes, logg))
			r.Get("/properties", controllers.AgentProperties(d.Listings, logg))
			r.Post("/properties/{propertyId}/complete", controllers.AgentCompleteListing(d.Listings, flashes, logg))
			r.Post("/properties/{propertyId}/photos", controllers.AgentAddPhoto(d.Listings, flashes, logg))
			r.Get("/enquiries", controllers.AgentEnquiries(d.Enquiries, logg))
			r.Patch("/enquiries/{enquiryId}", controllers.AgentUpdateEnquiry(d.Enquiries, flashes, logg))
			r.Get("/sales", controllers.AgentSales(d.Sales, logg))
		})

		r.With(middleware.RequireRoles(logg, enums.RoleEmployee, enums.RoleAdmin)).
			Post("/sales", controllers.CompleteSale(d.Sales, flashes, logg))

		r.Route("/buyer", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleBuyer))
			r.Post("/enquiries", controllers.BuyerCreateEnquiry(d.Enquiries, flashes, logg))
			r.Get("/enquiries", controllers.BuyerEnquiries(d.Enquiries, logg))
		})

		r.Route("/investor", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleInvestor))
			r.Post("/investments", controllers.Invest(d.Investments, flashes, logg))
			r.Get("/portfolio", controllers.InvestorPortfolio(d.Investments, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleAdmin))
			r.Get("/dashboard", controllers.NewReportHandlers(d.Reports, logg).Dashboard)
			r.Get("/users", controllers.AdminListUsers(d.Users, logg))
			r.Get("/users/{userId}", controllers.AdminGetUser(d.Users, logg))
			r.Delete("/users/{userId}", controllers.AdminRemoveUser(d.Users, flashes, logg))
			r.Get("/properties", controllers.AdminListProperties(d.Listings, logg))
			r.Delete("/properties/{propertyId}", controllers.AdminRemoveProperty(d.Listings, flashes, logg))
			r.Get("/sales/{saleId}", controllers.GetSale(d.Sales, logg))
		})
	})

	r.Route("/api/admin/v1/reports", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireRoles(logg, enums.RoleAdmin))

		h := controllers.NewReportHandlers(d.Reports, logg)
		r.Get("/best_employees", h.BestEmployees)
		r.Get("/top_locations", h.TopLocations)
		r.Get("/user_distribution", h.UserDistribution)
		r.Get("/district_properties", h.DistrictProperties)
		r.Get("/monthly_revenue", h.MonthlyRevenue)
		r.Get("/property_status_stats", h.PropertyStatusStats)
		r.Get("/weekly_summary", h.WeeklySummary)
		r.Get("/financial_overview", h.FinancialOverview)
	})

	return r
}
