package controllers

import (
	"context"
	"net/http"

	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/internal/reports"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/logger"
)

func report[T any](fn func(context.Context, auth.Actor) (*reports.Report[T], error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// ReportHandlers exposes one handler per admin report.
type ReportHandlers struct {
	BestEmployees       http.HandlerFunc
	TopLocations        http.HandlerFunc
	UserDistribution    http.HandlerFunc
	DistrictProperties  http.HandlerFunc
	MonthlyRevenue      http.HandlerFunc
	PropertyStatusStats http.HandlerFunc
	WeeklySummary       http.HandlerFunc
	FinancialOverview   http.HandlerFunc
	Dashboard           http.HandlerFunc
}

func NewReportHandlers(svc reports.Service, logg *logger.Logger) ReportHandlers {
	if svc == nil {
		unavailable := func(w http.ResponseWriter, r *http.Request) {
			serviceUnavailable(r.Context(), logg, w, "reports")
		}
		return ReportHandlers{
			BestEmployees:       unavailable,
			TopLocations:        unavailable,
			UserDistribution:    unavailable,
			DistrictProperties:  unavailable,
			MonthlyRevenue:      unavailable,
			PropertyStatusStats: unavailable,
			WeeklySummary:       unavailable,
			FinancialOverview:   unavailable,
			Dashboard:           unavailable,
		}
	}
	return ReportHandlers{
		BestEmployees:       report(svc.BestEmployees, logg),
		TopLocations:        report(svc.TopLocations, logg),
		UserDistribution:    report(svc.UserDistribution, logg),
		DistrictProperties:  report(svc.DistrictProperties, logg),
		MonthlyRevenue:      report(svc.MonthlyRevenue, logg),
		PropertyStatusStats: report(svc.PropertyStatusStats, logg),
		WeeklySummary:       report(svc.WeeklySummary, logg),
		FinancialOverview:   report(svc.FinancialOverview, logg),
		Dashboard:           report(svc.AdminDashboard, logg),
	}
}
