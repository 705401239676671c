package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/homescout/homescout-backend/internal/investments"
	"github.com/homescout/homescout-backend/internal/reports"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/enums"
)

type stubInvestments struct {
	investments.Service
	fail map[uuid.UUID]bool
}

func (s stubInvestments) Reconcile(_ context.Context, id uuid.UUID) (*investments.ReconcileResult, error) {
	if s.fail[id] {
		return nil, errors.New("profile missing")
	}
	return &investments.ReconcileResult{
		InvestorID: id,
		Previous:   decimal.NewFromInt(10),
		Recomputed: decimal.NewFromInt(12),
		Changed:    true,
	}, nil
}

func TestReconcileAllCollectsEveryFailure(t *testing.T) {
	ok := uuid.New()
	bad1, bad2 := uuid.New(), uuid.New()
	svc := stubInvestments{fail: map[uuid.UUID]bool{bad1: true, bad2: true}}

	results, err := reconcileAll(context.Background(), svc, []uuid.UUID{bad1, ok, bad2})

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	require.Len(t, results, 1)
	assert.Equal(t, ok, results[0].InvestorID)

	var out bytes.Buffer
	printReconcile(&out, results)
	assert.Contains(t, out.String(), "10.00 -> 12.00")
	assert.Contains(t, out.String(), "reconciled 1 investors, 1 corrected")
}

type stubReports struct {
	reports.Service
	seen auth.Actor
}

func (s *stubReports) WeeklySummary(_ context.Context, actor auth.Actor) (*reports.Report[reports.WeeklySummary], error) {
	s.seen = actor
	return &reports.Report[reports.WeeklySummary]{Sample: true}, nil
}

func (s *stubReports) TopLocations(context.Context, auth.Actor) (*reports.Report[[]reports.LocationStat], error) {
	return nil, errors.New("db down")
}

func TestDumpReports(t *testing.T) {
	svc := &stubReports{}
	var out bytes.Buffer

	require.NoError(t, dumpReports(context.Background(), svc, []string{"weekly_summary"}, &out))
	assert.Equal(t, enums.RoleAdmin, svc.seen.Role)

	var decoded map[string]struct {
		Sample bool `json:"sample"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.True(t, decoded["weekly_summary"].Sample)

	err := dumpReports(context.Background(), svc, []string{"top_locations"}, &out)
	require.ErrorContains(t, err, "top_locations")

	err = dumpReports(context.Background(), svc, []string{"sales_forecast"}, &out)
	require.ErrorContains(t, err, "unknown report")
}

func TestReportNamesCoverEveryEndpoint(t *testing.T) {
	assert.Equal(t, []string{
		"best_employees",
		"dashboard",
		"district_properties",
		"financial_overview",
		"monthly_revenue",
		"property_status_stats",
		"top_locations",
		"user_distribution",
		"weekly_summary",
	}, reportNames())
}
