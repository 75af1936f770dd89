package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"goclean-be-svc/internal/cache"
	"goclean-be-svc/internal/config"
	"goclean-be-svc/internal/database"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/internal/scheduler"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "goclean-admin",
		Short:        "Maintenance commands for the GoClean backend",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(expirePickupsCmd())
	rootCmd.AddCommand(setServiceFeeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env bundles what every command needs
type env struct {
	cfg    *config.Config
	db     *database.Database
	logger *logger.Logger
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &env{cfg: cfg, db: db, logger: appLogger}, nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.logger.WithError(err).Error("Failed to close database connection")
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.db.AutoMigrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert waste categories from a YAML file",
		Long: `Upsert waste categories from a YAML file keyed by category code.

Example file:
  categories:
    - code: PLASTIC
      name: Plastik
      price_per_kg: 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			categories := service.NewWasteCategoryService(repository.NewWasteCategoryRepository(e.db.DB), e.logger)
			count, err := categories.Seed(f)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d waste categories\n", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "configs/categories.yaml", "YAML file with the categories")

	return cmd
}

func createAdminCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			auth := service.NewAuthService(repository.NewUserRepository(e.db.DB), e.cfg.JWT.Secret, e.cfg.JWT.TTL, e.logger)
			admin, err := auth.CreateAdmin(name, email, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func expirePickupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire-pickups",
		Short: "Cancel pickups pending longer than PICKUP_MAX_PENDING_AGE",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			db := e.db.DB
			tpsRepo := repository.NewTPSRepository(db)
			notifications := service.NewNotificationService(repository.NewNotificationRepository(db), tpsRepo, e.logger)
			pickups := service.NewPickupService(
				repository.NewPickupRepository(db),
				repository.NewWasteCategoryRepository(db),
				tpsRepo,
				repository.NewPaymentConfigRepository(db),
				cache.NewNopLocationCache(),
				notifications,
				service.PickupServiceConfig{UploadDir: e.cfg.Upload.Dir, MaxUploadBytes: e.cfg.Upload.MaxSizeBytes},
				e.logger,
			)

			jobs := scheduler.NewScheduler(pickups, notifications, repository.NewLogSchedulerRepository(db), e.cfg.Scheduler, e.logger)
			if err := jobs.RunPickupExpiry(); err != nil {
				return fmt.Errorf("expire pickups: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Pickup expiry completed")
			return nil
		},
	}
}

func setServiceFeeCmd() *cobra.Command {
	var fee int64

	cmd := &cobra.Command{
		Use:   "set-service-fee",
		Short: "Set the flat fee added to every completed pickup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fee < 0 {
				return fmt.Errorf("fee cannot be negative")
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			current, err := repository.NewPaymentConfigRepository(e.db.DB).SetServiceFee(fee)
			if err != nil {
				return fmt.Errorf("set service fee: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Service fee is now %d (config %d)\n", current.ServiceFee, current.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&fee, "fee", 0, "fee in rupiah")
	_ = cmd.MarkFlagRequired("fee")

	return cmd
}
