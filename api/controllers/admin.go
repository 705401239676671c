package controllers

import (
	"net/http"
	"strings"

	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/api/validators"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/users"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/logger"
	"github.com/homescout/homescout-backend/pkg/pagination"
)

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}, nil
}

// AdminListUsers pages through the user directory, optionally by role.
func AdminListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "users")
			return
		}
		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := users.ListParams{Params: page}
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter"))
				return
			}
			params.Role = &role
		}
		list, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminGetUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "users")
			return
		}
		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AdminRemoveUser deletes an unreferenced user with its profile.
func AdminRemoveUser(svc users.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "users")
			return
		}
		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), middleware.ActorFromContext(r.Context()), userID); err != nil {
			flash(r, logg, flashes, session.FlashError, "User could not be removed")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "User removed")
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminListProperties pages through every property, optionally by lifecycle.
func AdminListProperties(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := listings.ListParams{Params: page}
		if raw := strings.TrimSpace(r.URL.Query().Get("lifecycle")); raw != "" {
			lifecycle, err := enums.ParseLifecycleStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lifecycle filter"))
				return
			}
			params.Lifecycle = &lifecycle
		}
		list, err := svc.ListAll(r.Context(), middleware.ActorFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminRemoveProperty(svc listings.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		propertyID, err := uuidParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), middleware.ActorFromContext(r.Context()), propertyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "Property removed")
		w.WriteHeader(http.StatusNoContent)
	}
}
