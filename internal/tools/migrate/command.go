package migrate

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sandeepkv93/storefront-crud-api/internal/database"
	"github.com/sandeepkv93/storefront-crud-api/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func (o *options) runner() common.Runner {
	return common.Runner{Tool: "migrate", CI: o.ci, Timeout: o.timeout}
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tooling",
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")

	cmd.AddCommand(
		newUpCommand(opts),
		newStatusCommand(opts),
		newPlanCommand(opts),
	)
	return cmd
}

func newUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.runner().Run("up", func(ctx context.Context) ([]string, error) {
				cfg, db, closeDB, err := common.OpenDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				return Up(db, database.DriverFor(cfg.DatabaseURL))
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connectivity and pending tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.runner().Run("status", func(ctx context.Context) ([]string, error) {
				cfg, db, closeDB, err := common.OpenDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				return Status(ctx, db, database.DriverFor(cfg.DatabaseURL))
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newPlanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show migration plan (dry-run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.runner().Run("plan", func(ctx context.Context) ([]string, error) {
				_, db, closeDB, err := common.OpenDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				return Plan(db)
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func Up(db *gorm.DB, driver string) ([]string, error) {
	pending, err := database.PendingTables(db)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return []string{
		"schema migration applied",
		"driver: " + driver,
		"created tables: " + joinOrNone(pending),
	}, nil
}

func Status(ctx context.Context, db *gorm.DB, driver string) ([]string, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	pending, err := database.PendingTables(db)
	if err != nil {
		return nil, err
	}
	state := "up to date"
	if len(pending) > 0 {
		state = "pending"
	}
	return []string{
		"database reachable",
		"driver: " + driver,
		"migrations: " + state,
		"pending tables: " + joinOrNone(pending),
	}, nil
}

func Plan(db *gorm.DB) ([]string, error) {
	pending, err := database.PendingTables(db)
	if err != nil {
		return nil, err
	}
	return []string{
		"would apply AutoMigrate for products and users",
		"would create tables: " + joinOrNone(pending),
		"no mutation executed in plan mode",
	}, nil
}

func joinOrNone(v []string) string {
	if len(v) == 0 {
		return "none"
	}
	return strings.Join(v, ", ")
}
