package database

import (
	"context"
	"time"

	"github.com/sandeepkv93/storefront-crud-api/internal/domain"
	"github.com/sandeepkv93/storefront-crud-api/internal/observability"

	"gorm.io/gorm"
)

// SampleProducts is the catalog inserted by SeedProducts.
var SampleProducts = []domain.Product{
	{Name: "Mechanical Keyboard", Price: 89.99, Availability: true},
	{Name: "Wireless Mouse", Price: 24.5, Availability: true},
	{Name: "27in Monitor", Price: 229, Availability: true},
	{Name: "USB-C Hub", Price: 39.9, Availability: false},
	{Name: "Laptop Stand", Price: 31, Availability: true},
}

type SeedReport struct {
	CreatedProducts int  `json:"created_products"`
	Noop            bool `json:"noop"`
}

// SeedProducts inserts SampleProducts, skipping names that already exist.
func SeedProducts(db *gorm.DB) (*SeedReport, error) {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "seed", time.Since(start))
	}()

	report := &SeedReport{}
	for _, sample := range SampleProducts {
		p := sample
		res := db.Where("name = ?", p.Name).FirstOrCreate(&p)
		if res.Error != nil {
			observability.RecordDatabaseStartupEvent(context.Background(), "seed", "error")
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedProducts++
		}
	}
	report.Noop = report.CreatedProducts == 0
	observability.RecordDatabaseStartupEvent(context.Background(), "seed", "success")
	return report, nil
}
