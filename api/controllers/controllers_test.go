package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homescout/homescout-backend/api/middleware"
	authsvc "github.com/homescout/homescout-backend/internal/auth"
	"github.com/homescout/homescout-backend/internal/enquiries"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/reports"
	"github.com/homescout/homescout-backend/internal/sales"
	"github.com/homescout/homescout-backend/internal/users"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	"github.com/homescout/homescout-backend/pkg/config"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/logger"
	"github.com/homescout/homescout-backend/pkg/pagination"
)

type recordedFlash struct {
	accessID string
	flash    session.Flash
}

type fakeFlashes struct {
	pushed []recordedFlash
	queued map[string][]session.Flash
	err    error
}

func (f *fakeFlashes) Push(_ context.Context, accessID string, fl session.Flash) error {
	f.pushed = append(f.pushed, recordedFlash{accessID: accessID, flash: fl})
	return nil
}

func (f *fakeFlashes) Pop(_ context.Context, accessID string) ([]session.Flash, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.queued[accessID]
	delete(f.queued, accessID)
	return out, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asActor(req *http.Request, actor auth.Actor, accessID string) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), actor, accessID))
}

func withParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// listing service stub; unimplemented methods panic through the nil embed.
type stubListings struct {
	listings.Service
	searchFilters listings.SearchFilters
	detailActor   auth.Actor
	detailErr     error
}

func (s *stubListings) Search(_ context.Context, filters listings.SearchFilters) ([]listings.PropertyDTO, error) {
	s.searchFilters = filters
	return []listings.PropertyDTO{}, nil
}

func (s *stubListings) GetDetail(_ context.Context, actor auth.Actor, id uuid.UUID) (*listings.PropertyDetailDTO, error) {
	s.detailActor = actor
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return &listings.PropertyDetailDTO{}, nil
}

func (s *stubListings) AcceptRequest(_ context.Context, _ auth.Actor, requestID uuid.UUID) (*listings.PropertyDTO, error) {
	return &listings.PropertyDTO{}, nil
}

func TestSearchPropertiesParsesFilters(t *testing.T) {
	svc := &stubListings{}
	rec := httptest.NewRecorder()
	req := newRequest(http.MethodGet, "/api/v1/properties/search?city=%20Dhaka%20&min_price=5000000&max_price=9000000.50&min_rooms=3&limit=10", nil)

	SearchProperties(svc, logger.Nop())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Dhaka", svc.searchFilters.City)
	require.NotNil(t, svc.searchFilters.MinPrice)
	assert.True(t, svc.searchFilters.MinPrice.Equal(decimal.NewFromInt(5000000)))
	require.NotNil(t, svc.searchFilters.MaxPrice)
	assert.Equal(t, "9000000.5", svc.searchFilters.MaxPrice.String())
	assert.Equal(t, 3, svc.searchFilters.MinRooms)
	assert.Equal(t, 10, svc.searchFilters.Limit)
}

func TestSearchPropertiesRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"price": "/api/v1/properties/search?min_price=cheap",
		"rooms": "/api/v1/properties/search?min_rooms=-1",
		"limit": "/api/v1/properties/search?limit=201",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SearchProperties(&stubListings{}, logger.Nop())(rec, newRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)
		})
	}
}

func TestPropertyDetailAnonymousAndBadID(t *testing.T) {
	svc := &stubListings{}

	rec := httptest.NewRecorder()
	req := withParam(newRequest(http.MethodGet, "/api/v1/properties/x", nil), "propertyId", uuid.NewString())
	PropertyDetail(svc, logger.Nop())(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.detailActor.Anonymous())

	rec = httptest.NewRecorder()
	req = withParam(newRequest(http.MethodGet, "/api/v1/properties/x", nil), "propertyId", "not-a-uuid")
	PropertyDetail(svc, logger.Nop())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPropertyDetailHiddenIsNotFound(t *testing.T) {
	svc := &stubListings{detailErr: pkgerrors.New(pkgerrors.CodeNotFound, "property not found")}
	rec := httptest.NewRecorder()
	req := withParam(newRequest(http.MethodGet, "/", nil), "propertyId", uuid.NewString())

	PropertyDetail(svc, logger.Nop())(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAgentAcceptRequestQueuesFlash(t *testing.T) {
	flashes := &fakeFlashes{}
	actor := auth.Actor{UserID: uuid.New(), Username: "rahim", Role: enums.RoleEmployee}
	req := asActor(newRequest(http.MethodPost, "/", nil), actor, "access-1")
	req = withParam(req, "requestId", uuid.NewString())
	rec := httptest.NewRecorder()

	AgentAcceptRequest(&stubListings{}, flashes, logger.Nop())(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, flashes.pushed, 1)
	assert.Equal(t, "access-1", flashes.pushed[0].accessID)
	assert.Equal(t, session.FlashSuccess, flashes.pushed[0].flash.Kind)
}

type stubSales struct {
	sales.Service
	err   error
	input sales.CompleteSaleInput
}

func (s *stubSales) CompleteSale(_ context.Context, _ auth.Actor, input sales.CompleteSaleInput) (*sales.SaleDTO, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return &sales.SaleDTO{ID: uuid.New(), FinalPrice: input.FinalPrice}, nil
}

func TestCompleteSaleSuccess(t *testing.T) {
	svc := &stubSales{}
	flashes := &fakeFlashes{}
	body := map[string]any{"property_id": uuid.NewString(), "buyer_id": uuid.NewString(), "final_price": "8500000.00"}
	req := asActor(newRequest(http.MethodPost, "/api/v1/sales", body), auth.Actor{UserID: uuid.New(), Role: enums.RoleEmployee}, "access-2")
	rec := httptest.NewRecorder()

	CompleteSale(svc, flashes, logger.Nop())(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, svc.input.FinalPrice.Equal(decimal.NewFromInt(8500000)))
	require.Len(t, flashes.pushed, 1)
	assert.Equal(t, session.FlashSuccess, flashes.pushed[0].flash.Kind)
}

func TestCompleteSaleFailureQueuesErrorFlash(t *testing.T) {
	svc := &stubSales{err: pkgerrors.Wrap(pkgerrors.CodeSaleFailed, errors.New("deadlock"), "sale failed")}
	flashes := &fakeFlashes{}
	body := map[string]any{"property_id": uuid.NewString(), "buyer_id": uuid.NewString(), "final_price": "100"}
	req := asActor(newRequest(http.MethodPost, "/api/v1/sales", body), auth.Actor{UserID: uuid.New(), Role: enums.RoleEmployee}, "access-3")
	rec := httptest.NewRecorder()

	CompleteSale(svc, flashes, logger.Nop())(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, flashes.pushed, 1)
	assert.Equal(t, session.FlashError, flashes.pushed[0].flash.Kind)
}

func TestCompleteSaleStateConflictHasNoFlash(t *testing.T) {
	svc := &stubSales{err: pkgerrors.New(pkgerrors.CodeStateConflict, "property is not available")}
	flashes := &fakeFlashes{}
	body := map[string]any{"property_id": uuid.NewString(), "buyer_id": uuid.NewString(), "final_price": "100"}
	req := asActor(newRequest(http.MethodPost, "/api/v1/sales", body), auth.Actor{UserID: uuid.New(), Role: enums.RoleEmployee}, "access-4")
	rec := httptest.NewRecorder()

	CompleteSale(svc, flashes, logger.Nop())(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, flashes.pushed)
}

func TestCompleteSaleRejectsUnknownFields(t *testing.T) {
	body := map[string]any{"property_id": uuid.NewString(), "buyer_id": uuid.NewString(), "final_price": "100", "commission": "1"}
	req := asActor(newRequest(http.MethodPost, "/api/v1/sales", body), auth.Actor{UserID: uuid.New(), Role: enums.RoleEmployee}, "")
	rec := httptest.NewRecorder()

	CompleteSale(&stubSales{}, nil, logger.Nop())(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubEnquiries struct {
	enquiries.Service
	updatedID uuid.UUID
	update    enquiries.UpdateInput
}

func (s *stubEnquiries) Update(_ context.Context, _ auth.Actor, id uuid.UUID, input enquiries.UpdateInput) (*enquiries.EnquiryDTO, error) {
	s.updatedID = id
	s.update = input
	return &enquiries.EnquiryDTO{ID: id, Status: enums.EnquiryStatus(input.Status)}, nil
}

func TestAgentUpdateEnquiryPassesInput(t *testing.T) {
	svc := &stubEnquiries{}
	id := uuid.New()
	req := asActor(newRequest(http.MethodPatch, "/", map[string]any{"status": "Closed", "note": "  called buyer  "}), auth.Actor{UserID: uuid.New(), Role: enums.RoleEmployee}, "a")
	req = withParam(req, "enquiryId", id.String())
	rec := httptest.NewRecorder()

	AgentUpdateEnquiry(svc, nil, logger.Nop())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, id, svc.updatedID)
	assert.Equal(t, "Closed", svc.update.Status)
	assert.Equal(t, "called buyer", svc.update.Note)
}

func TestAgentUpdateEnquiryRejectsOverlongNote(t *testing.T) {
	svc := &stubEnquiries{}
	note := strings.Repeat("ঢাকা", maxNoteLength)
	req := asActor(newRequest(http.MethodPatch, "/", map[string]any{"note": note}), auth.Actor{UserID: uuid.New(), Role: enums.RoleEmployee}, "a")
	req = withParam(req, "enquiryId", uuid.NewString())
	rec := httptest.NewRecorder()

	AgentUpdateEnquiry(svc, nil, logger.Nop())(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, uuid.Nil, svc.updatedID)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "note", env.Error.Details["field"])
}

type stubUsers struct {
	users.Service
	params users.ListParams
}

func (s *stubUsers) List(_ context.Context, _ auth.Actor, params users.ListParams) (*pagination.Page[users.UserDTO], error) {
	s.params = params
	return &pagination.Page[users.UserDTO]{Items: []users.UserDTO{}}, nil
}

func TestAdminListUsersRoleFilter(t *testing.T) {
	svc := &stubUsers{}
	admin := auth.Actor{UserID: uuid.New(), Role: enums.RoleAdmin}

	rec := httptest.NewRecorder()
	AdminListUsers(svc, logger.Nop())(rec, asActor(newRequest(http.MethodGet, "/api/v1/admin/users?role=Seller&limit=5&cursor=abc", nil), admin, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.params.Role)
	assert.Equal(t, enums.RoleSeller, *svc.params.Role)
	assert.Equal(t, 5, svc.params.Limit)
	assert.Equal(t, "abc", svc.params.Cursor)

	rec = httptest.NewRecorder()
	AdminListUsers(svc, logger.Nop())(rec, asActor(newRequest(http.MethodGet, "/api/v1/admin/users?role=landlord", nil), admin, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubReports struct {
	reports.Service
}

func (stubReports) WeeklySummary(_ context.Context, actor auth.Actor) (*reports.Report[reports.WeeklySummary], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	return &reports.Report[reports.WeeklySummary]{Sample: true}, nil
}

func TestReportHandlers(t *testing.T) {
	handlers := NewReportHandlers(stubReports{}, logger.Nop())

	rec := httptest.NewRecorder()
	handlers.WeeklySummary(rec, asActor(newRequest(http.MethodGet, "/", nil), auth.Actor{UserID: uuid.New(), Role: enums.RoleAdmin}, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Sample bool `json:"sample"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &payload))
	assert.True(t, payload.Sample)

	rec = httptest.NewRecorder()
	handlers.WeeklySummary(rec, asActor(newRequest(http.MethodGet, "/", nil), auth.Actor{UserID: uuid.New(), Role: enums.RoleBuyer}, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	NewReportHandlers(nil, logger.Nop()).Dashboard(rec, newRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSessionFlashPopsMessages(t *testing.T) {
	flashes := &fakeFlashes{queued: map[string][]session.Flash{
		"access-9": {{Kind: session.FlashSuccess, Message: "Sale completed"}},
	}}
	actor := auth.Actor{UserID: uuid.New(), Role: enums.RoleEmployee}

	rec := httptest.NewRecorder()
	SessionFlash(flashes, logger.Nop())(rec, asActor(newRequest(http.MethodGet, "/", nil), actor, "access-9"))
	require.Equal(t, http.StatusOK, rec.Code)
	var got []session.Flash
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Sale completed", got[0].Message)

	rec = httptest.NewRecorder()
	SessionFlash(flashes, logger.Nop())(rec, asActor(newRequest(http.MethodGet, "/", nil), actor, "access-9"))
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	assert.Empty(t, got)

	rec = httptest.NewRecorder()
	SessionFlash(flashes, logger.Nop())(rec, newRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReady(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	HealthReady(logger.Nop(), map[string]Pinger{"db": ok, "redis": ok})(rec, newRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HealthReady(logger.Nop(), map[string]Pinger{"db": ok, "redis": down})(rec, newRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(pkgerrors.CodeDependency), env.Error.Code)
}

type stubAuth struct {
	authsvc.Service
	cfg      config.JWTConfig
	userID   uuid.UUID
	accessID string
	logins   []authsvc.LoginRequest
}

func (s *stubAuth) Login(_ context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	s.logins = append(s.logins, req)
	token, err := auth.MintAccessToken(s.cfg, time.Now(), auth.AccessTokenPayload{
		UserID:   s.userID,
		Username: req.Identifier,
		Role:     enums.RoleBuyer,
		JTI:      s.accessID,
	})
	if err != nil {
		return nil, err
	}
	return &authsvc.LoginResponse{TokenPair: authsvc.TokenPair{AccessToken: token, RefreshToken: "refresh"}}, nil
}

type stubRegister struct {
	err error
}

func (s stubRegister) Register(_ context.Context, req authsvc.RegisterRequest) (*users.UserDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &users.UserDTO{Username: req.Username}, nil
}

func TestAuthRegisterSignsInAndQueuesFlash(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "homescout", ExpirationMinutes: 15}
	authStub := &stubAuth{cfg: cfg, userID: uuid.New(), accessID: "jti-1"}
	flashes := &fakeFlashes{}
	body := map[string]any{"username": " nadia ", "password": "pw", "role": "Buyer", "full_name": "Nadia Islam"}
	rec := httptest.NewRecorder()

	AuthRegister(stubRegister{}, authStub, flashes, cfg, logger.Nop())(rec, newRequest(http.MethodPost, "/api/v1/auth/register", body))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, authStub.logins, 1)
	assert.Equal(t, "nadia", authStub.logins[0].Identifier)
	require.Len(t, flashes.pushed, 1)
	assert.Equal(t, "jti-1", flashes.pushed[0].accessID)
	assert.Equal(t, "Registration successful", flashes.pushed[0].flash.Message)
}

func TestAuthRegisterConflictSkipsLogin(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "homescout", ExpirationMinutes: 15}
	authStub := &stubAuth{cfg: cfg}
	body := map[string]any{"username": "nadia", "password": "pw", "role": "Buyer", "full_name": "Nadia Islam"}
	rec := httptest.NewRecorder()

	AuthRegister(stubRegister{err: pkgerrors.New(pkgerrors.CodeConflict, "username already taken")}, authStub, nil, cfg, logger.Nop())(rec, newRequest(http.MethodPost, "/api/v1/auth/register", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, authStub.logins)
}

func TestAuthRefreshRequiresBearer(t *testing.T) {
	rec := httptest.NewRecorder()
	AuthRefresh(&stubAuth{}, logger.Nop())(rec, newRequest(http.MethodPost, "/api/v1/auth/refresh", map[string]any{"refresh_token": "r"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
