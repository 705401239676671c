package controllers

import (
	"net/http"
	"strings"

	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/api/validators"
	authsvc "github.com/homescout/homescout-backend/internal/auth"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	"github.com/homescout/homescout-backend/pkg/config"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/logger"
)

// AuthLogin exchanges an identifier and credential for a token pair.
func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "auth")
			return
		}
		var req authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req.Identifier = strings.TrimSpace(req.Identifier)

		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthRegister opens an account and signs the new user in.
func AuthRegister(registerSvc authsvc.RegisterService, authSvc authsvc.Service, flashes flashPusher, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registerSvc == nil || authSvc == nil {
			serviceUnavailable(r.Context(), logg, w, "auth")
			return
		}
		var req authsvc.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var err error
		if req.Username, err = validators.BoundedString("username", req.Username, 64); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.FullName, err = validators.BoundedString("full_name", req.FullName, 150); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := registerSvc.Register(r.Context(), req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := authSvc.Login(r.Context(), authsvc.LoginRequest{Identifier: req.Username, Password: req.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if claims, err := auth.ParseAccessToken(jwtCfg, resp.AccessToken); err == nil {
			ctx := middleware.WithActor(r.Context(), claims.Actor(), claims.ID)
			flash(r.WithContext(ctx), logg, flashes, session.FlashSuccess, "Registration successful")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// AuthRefresh rotates the refresh session. The possibly expired access token
// travels in the Authorization header.
func AuthRefresh(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "auth")
			return
		}
		accessToken := middleware.BearerToken(r)
		if accessToken == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing access token"))
			return
		}
		var req authsvc.RefreshRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req.AccessToken = accessToken

		pair, err := svc.Refresh(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pair)
	}
}

// AuthLogout revokes the caller's refresh session.
func AuthLogout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "auth")
			return
		}
		accessToken := middleware.BearerToken(r)
		if accessToken == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing access token"))
			return
		}
		if err := svc.Logout(r.Context(), accessToken); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
