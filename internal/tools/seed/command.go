package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sandeepkv93/storefront-crud-api/internal/database"
	"github.com/sandeepkv93/storefront-crud-api/internal/repository"
	"github.com/sandeepkv93/storefront-crud-api/internal/tools/common"
)

type options struct {
	envFile string
	ci      bool
}

func (o *options) runner() common.Runner {
	return common.Runner{Tool: "seed", CI: o.ci}
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts), newClearCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Insert the sample product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.runner().Run("apply", func(ctx context.Context) ([]string, error) {
				_, db, closeDB, err := common.OpenDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				return Apply(db)
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.runner().Run("dry-run", func(ctx context.Context) ([]string, error) {
				return DryRun(), nil
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newClearCommand(opts *options) *cobra.Command {
	var withUsers bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every product, and optionally every user",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := opts.runner().Run("clear", func(ctx context.Context) ([]string, error) {
				_, db, closeDB, err := common.OpenDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				return Clear(ctx, db, withUsers)
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withUsers, "users", false, "also delete all users")
	return cmd
}

func Apply(db *gorm.DB) ([]string, error) {
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	report, err := database.SeedProducts(db)
	if err != nil {
		return nil, err
	}
	details := []string{fmt.Sprintf("created_products=%d", report.CreatedProducts)}
	if report.Noop {
		details = append(details, "sample catalog already present")
	}
	return details, nil
}

func DryRun() []string {
	details := make([]string, 0, len(database.SampleProducts)+1)
	details = append(details, "would ensure tables: products, users")
	for _, p := range database.SampleProducts {
		details = append(details, fmt.Sprintf("would ensure product %q price=%.2f availability=%t", p.Name, p.Price, p.Availability))
	}
	return details
}

func Clear(ctx context.Context, db *gorm.DB, withUsers bool) ([]string, error) {
	n, err := repository.NewProductRepository(db).DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	details := []string{fmt.Sprintf("deleted_products=%d", n)}
	if withUsers {
		n, err := repository.NewUserRepository(db).DeleteAll(ctx)
		if err != nil {
			return details, err
		}
		details = append(details, fmt.Sprintf("deleted_users=%d", n))
	}
	return details, nil
}
