package health

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sandeepkv93/storefront-crud-api/internal/database"
)

// CheckFunc adapts a named probe function to Checker. A nil error is healthy.
type CheckFunc struct {
	Name  string
	Probe func(ctx context.Context) error
}

func (f CheckFunc) Check(ctx context.Context) CheckResult {
	res := CheckResult{Name: f.Name, Healthy: true}
	if err := f.Probe(ctx); err != nil {
		res.Healthy = false
		res.Error = err.Error()
	}
	return res
}

// NewDBChecker pings the connection pool behind db.
func NewDBChecker(db *gorm.DB) Checker {
	if db == nil {
		return nil
	}
	return CheckFunc{Name: "db", Probe: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

// NewSchemaChecker reports unready until the product and user tables exist.
func NewSchemaChecker(db *gorm.DB) Checker {
	if db == nil {
		return nil
	}
	return CheckFunc{Name: "schema", Probe: func(ctx context.Context) error {
		missing, err := database.PendingTables(db.WithContext(ctx))
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return errors.New("missing tables: " + strings.Join(missing, ", "))
		}
		return nil
	}}
}
