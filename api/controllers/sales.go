package controllers

import (
	"net/http"

	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/api/validators"
	"github.com/homescout/homescout-backend/internal/sales"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/logger"
)

// CompleteSale closes a deal and writes the commission ledger.
func CompleteSale(svc sales.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "sales")
			return
		}
		var input sales.CompleteSaleInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.CompleteSale(r.Context(), middleware.ActorFromContext(r.Context()), input)
		if err != nil {
			if pkgerrors.Is(err, pkgerrors.CodeSaleFailed) {
				flash(r, logg, flashes, session.FlashError, "Sale could not be completed. Please try again")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "Sale completed")
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

func AgentSales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "sales")
			return
		}
		list, err := svc.ListForEmployee(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "sales")
			return
		}
		saleID, err := uuidParam(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.GetSale(r.Context(), middleware.ActorFromContext(r.Context()), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}
