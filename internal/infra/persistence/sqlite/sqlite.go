// Package sqlite opens the embedded database used by local runs and repository tests.
package sqlite

import (
	"fmt"
	"sync/atomic"

	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/postgres"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var memoryDBSeq atomic.Int64

// Open connects to the SQLite file at dsn with the same settings the PostgreSQL
// connection uses and migrates the schema. The pool is limited to one connection
// so an in-memory database is shared by every query.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	postgres.Configure(db)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sqlite sql.DB")
	}
	sqlDB.SetMaxOpenConns(1)

	if err := postgres.AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// OpenMemory opens a fresh private in-memory database.
func OpenMemory() (*gorm.DB, error) {
	return Open(fmt.Sprintf("file:rentalhub_%d?mode=memory&cache=shared", memoryDBSeq.Add(1)))
}
