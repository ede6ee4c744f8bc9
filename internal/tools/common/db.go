package common

import (
	"github.com/sandeepkv93/storefront-crud-api/internal/config"
	"github.com/sandeepkv93/storefront-crud-api/internal/database"

	"gorm.io/gorm"
)

// OpenDB loads envFile, reads the config and opens the database. The returned
// close func is safe to call on every path.
func OpenDB(envFile string) (*config.Config, *gorm.DB, func(), error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, nil, func() {}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, func() {}, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, func() {}, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return cfg, db, closeFn, nil
}
