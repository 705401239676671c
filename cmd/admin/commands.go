package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/homescout/homescout-backend/internal/investments"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/reports"
	"github.com/homescout/homescout-backend/internal/users"
)

func usersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage user accounts"}
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <user-id>",
		Short: "Delete a user and its role profile when nothing references it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			svc, err := users.NewService(users.NewRepository(a.db.DB()), a.db)
			if err != nil {
				return err
			}
			if err := svc.Remove(cmd.Context(), cliActor, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed user %s\n", id)
			return nil
		},
	})
	return cmd
}

func propertiesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "properties", Short: "Manage listings"}
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <property-id>",
		Short: "Mark a property Removed/Inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid property id: %w", err)
			}
			svc, err := listings.NewService(listings.ServiceParams{
				Repo:  listings.NewRepository(a.db.DB()),
				Names: users.NewRepository(a.db.DB()),
				TX:    a.db,
			})
			if err != nil {
				return err
			}
			if err := svc.Remove(cmd.Context(), cliActor, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed property %s\n", id)
			return nil
		},
	})
	return cmd
}

func investorsCmd(a *app) *cobra.Command {
	var investorID string
	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute investor totals from their investment rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn := a.db.DB()
			svc, err := investments.NewService(investments.NewRepository(conn), listings.NewRepository(conn), a.db)
			if err != nil {
				return err
			}
			var ids []uuid.UUID
			if investorID != "" {
				id, err := uuid.Parse(investorID)
				if err != nil {
					return fmt.Errorf("invalid investor id: %w", err)
				}
				ids = []uuid.UUID{id}
			} else if ids, err = svc.InvestorIDs(cmd.Context()); err != nil {
				return err
			}
			results, err := reconcileAll(cmd.Context(), svc, ids)
			printReconcile(cmd.OutOrStdout(), results)
			return err
		},
	}
	reconcile.Flags().StringVar(&investorID, "investor", "", "only reconcile this investor")

	cmd := &cobra.Command{Use: "investors", Short: "Investor maintenance"}
	cmd.AddCommand(reconcile)
	return cmd
}

// reconcileAll keeps going past failures and returns every error combined.
func reconcileAll(ctx context.Context, svc investments.Service, ids []uuid.UUID) ([]investments.ReconcileResult, error) {
	var (
		results []investments.ReconcileResult
		errs    error
	)
	for _, id := range ids {
		res, err := svc.Reconcile(ctx, id)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("investor %s: %w", id, err))
			continue
		}
		results = append(results, *res)
	}
	return results, errs
}

func printReconcile(w io.Writer, results []investments.ReconcileResult) {
	changed := 0
	for _, r := range results {
		if !r.Changed {
			continue
		}
		changed++
		fmt.Fprintf(w, "%s: %s -> %s\n", r.InvestorID, r.Previous.StringFixed(2), r.Recomputed.StringFixed(2))
	}
	fmt.Fprintf(w, "reconciled %d investors, %d corrected\n", len(results), changed)
}

type reportDumper func(ctx context.Context, svc reports.Service) (any, error)

func untyped[T any](r *reports.Report[T], err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

var reportDumpers = map[string]reportDumper{
	"best_employees": func(ctx context.Context, s reports.Service) (any, error) {
		return untyped(s.BestEmployees(ctx, cliActor))
	},
	"top_locations": func(ctx context.Context, s reports.Service) (any, error) {
		return untyped(s.TopLocations(ctx, cliActor))
	},
	"user_distribution": func(ctx context.Context, s reports.Service) (any, error) {
		return untyped(s.UserDistribution(ctx, cliActor))
	},
	"district_properties": func(ctx context.Context, s reports.Service) (any, error) {
		return untyped(s.DistrictProperties(ctx, cliActor))
	},
	"monthly_revenue": func(ctx context.Context, s reports.Service) (any, error) {
		return untyped(s.MonthlyRevenue(ctx, cliActor))
	},
	"property_status_stats": func(ctx context.Context, s reports.Service) (any, error) {
		return untyped(s.PropertyStatusStats(ctx, cliActor))
	},
	"weekly_summary": func(ctx context.Context, s reports.Service) (any, error) {
		return untyped(s.WeeklySummary(ctx, cliActor))
	},
	"financial_overview": func(ctx context.Context, s reports.Service) (any, error) {
		return untyped(s.FinancialOverview(ctx, cliActor))
	},
	"dashboard": func(ctx context.Context, s reports.Service) (any, error) {
		return untyped(s.AdminDashboard(ctx, cliActor))
	},
}

func reportNames() []string {
	names := make([]string, 0, len(reportDumpers))
	for name := range reportDumpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// dumpReports writes the named reports as one JSON object keyed by report name.
func dumpReports(ctx context.Context, svc reports.Service, names []string, w io.Writer) error {
	out := make(map[string]any, len(names))
	for _, name := range names {
		dump, ok := reportDumpers[name]
		if !ok {
			return fmt.Errorf("unknown report %q (want one of: %s)", name, strings.Join(reportNames(), ", "))
		}
		data, err := dump(ctx, svc)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out[name] = data
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func reportsCmd(a *app) *cobra.Command {
	var noSamples bool
	dump := &cobra.Command{
		Use:   "dump [report...]",
		Short: "Print reports as JSON; all reports when none are named",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn := a.db.DB()
			svc, err := reports.NewService(reports.ServiceParams{
				Repo:           reports.NewRepository(conn),
				Users:          users.NewRepository(conn),
				SampleFallback: a.cfg.Reports.SampleFallback && !noSamples,
			})
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = reportNames()
			}
			return dumpReports(cmd.Context(), svc, names, cmd.OutOrStdout())
		},
	}
	dump.Flags().BoolVar(&noSamples, "live-only", false, "never substitute sample data")

	cmd := &cobra.Command{Use: "reports", Short: "Admin reports"}
	cmd.AddCommand(dump)
	return cmd
}

func photosCmd(a *app) *cobra.Command {
	check := &cobra.Command{
		Use:   "check",
		Short: "List photo rows whose image file is missing from the static directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := listings.NewRepository(a.db.DB()).PhotoFileNames(cmd.Context())
			if err != nil {
				return err
			}
			missing, err := listings.MissingPhotoFiles(a.cfg.Static.Dir, names)
			if err != nil {
				return err
			}
			for _, name := range missing {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			if len(missing) > 0 {
				return fmt.Errorf("%d of %d photo files missing", len(missing), len(names))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "all %d photo files present\n", len(names))
			return nil
		},
	}
	cmd := &cobra.Command{Use: "photos", Short: "Listing photo maintenance"}
	cmd.AddCommand(check)
	return cmd
}
