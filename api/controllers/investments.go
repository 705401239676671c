package controllers

import (
	"net/http"

	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/api/validators"
	"github.com/homescout/homescout-backend/internal/investments"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	"github.com/homescout/homescout-backend/pkg/logger"
)

func Invest(svc investments.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "investments")
			return
		}
		var input investments.InvestInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inv, err := svc.Invest(r.Context(), middleware.ActorFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "Investment recorded")
		responses.WriteSuccessStatus(w, http.StatusCreated, inv)
	}
}

func InvestorPortfolio(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "investments")
			return
		}
		portfolio, err := svc.Portfolio(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, portfolio)
	}
}
