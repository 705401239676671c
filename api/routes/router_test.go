package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/reports"
	pkgAuth "github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/config"
	"github.com/homescout/homescout-backend/pkg/enums"
	"github.com/homescout/homescout-backend/pkg/logger"
	"github.com/homescout/homescout-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubListings struct {
	listings.Service
}

func (stubListings) Search(context.Context, listings.SearchFilters) ([]listings.PropertyDTO, error) {
	return []listings.PropertyDTO{}, nil
}

func (stubListings) ListBySeller(context.Context, pkgAuth.Actor) ([]listings.PropertyDTO, error) {
	return []listings.PropertyDTO{}, nil
}

type stubReports struct {
	reports.Service
}

func (stubReports) WeeklySummary(context.Context, pkgAuth.Actor) (*reports.Report[reports.WeeklySummary], error) {
	return &reports.Report[reports.WeeklySummary]{}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:    config.AppConfig{Env: "test"},
		JWT:    config.JWTConfig{Secret: "router-secret", Issuer: "homescout", ExpirationMinutes: 15},
		Static: config.StaticConfig{Dir: t.TempDir()},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logger.Nop(),
		DB:          stubPinger{},
		Redis:       stubPinger{},
		Sessions:    stubSessions{},
		Gatherer:    reg,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Listings:    stubListings{},
		Reports:     stubReports{},
	})
}

func bearer(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "tanvir",
		Role:     role,
		JTI:      uuid.NewString(),
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(h http.Handler, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health/ready", "").Code)
}

func TestRoleGating(t *testing.T) {
	cfg := testConfig(t)
	h := newTestRouter(t, cfg)

	cases := []struct {
		name   string
		target string
		auth   string
		want   int
	}{
		{"no token", "/api/v1/seller/properties", "", http.StatusUnauthorized},
		{"wrong role", "/api/v1/seller/properties", bearer(t, cfg, enums.RoleBuyer), http.StatusForbidden},
		{"seller", "/api/v1/seller/properties", bearer(t, cfg, enums.RoleSeller), http.StatusOK},
		{"reports need admin", "/api/admin/v1/reports/weekly_summary", bearer(t, cfg, enums.RoleEmployee), http.StatusForbidden},
		{"admin report", "/api/admin/v1/reports/weekly_summary", bearer(t, cfg, enums.RoleAdmin), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tc.target, tc.auth)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestPublicSearchAllowsAnonymous(t *testing.T) {
	cfg := testConfig(t)
	h := newTestRouter(t, cfg)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/properties/search?city=Dhaka", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/properties/search", bearer(t, cfg, enums.RoleBuyer)).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "/api/v1/properties/search", "Bearer garbage").Code)
}

func TestStaticFiles(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Static.Dir, "sample1.jpg"), []byte("jpeg"), 0o600))
	h := newTestRouter(t, cfg)

	rec := serve(h, http.MethodGet, "/static/sample1.jpg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(body))
}

func TestMetricsEndpointReportsRoutes(t *testing.T) {
	h := newTestRouter(t, testConfig(t))

	serve(h, http.MethodGet, "/health/live", "")
	rec := serve(h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `homescout_http_requests_total{method="GET",route="/health/live",status="200"} 1`), rec.Body.String())
}
