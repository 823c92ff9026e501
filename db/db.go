// Package db opens the daemon's sqlite database and runs migrations.
package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/flokiorg/lokilsp/lsps/persist"
)

// NewDB opens the sqlite database at uri and migrates the schema.
func NewDB(uri string, logQueries bool) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
	}
	if !logQueries {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	gormDB, err := gorm.Open(sqlite.Open(uri), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", uri, err)
	}

	if err := gormDB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}
	if err := gormDB.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, err
	}

	if err := Migrate(gormDB); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return gormDB, nil
}

// Migrate runs the schema migrations for all persisted models.
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&persist.LSPS1Order{},
	)
}
