package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/config"
	"github.com/homescout/homescout-backend/pkg/db"
	"github.com/homescout/homescout-backend/pkg/enums"
	"github.com/homescout/homescout-backend/pkg/logger"
)

// cliActor is the identity maintenance commands run under.
var cliActor = auth.Actor{Username: "admin-cli", Role: enums.RoleAdmin}

type app struct {
	cfg  *config.Config
	logg *logger.Logger
	db   *db.Client
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.logg = logger.New(logger.Options{
		ServiceName: "admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})
	client, err := db.New(ctx, cfg.DB, a.logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	a.db = client
	return nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logg.Error(context.Background(), "error closing database", err)
	}
	a.db = nil
}

func main() {
	_ = godotenv.Load()

	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "homescout-admin",
		Short:         "HomeScout maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	rootCmd.AddCommand(
		usersCmd(a),
		propertiesCmd(a),
		investorsCmd(a),
		reportsCmd(a),
		photosCmd(a),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		a.close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
