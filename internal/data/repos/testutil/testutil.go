package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/yungbote/moodly-backend/internal/data/db"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	dbOnce sync.Once
	testDB *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database shared by the package's tests: Postgres when
// TEST_POSTGRES_DSN is set, otherwise an in-memory sqlite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		cfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		}

		var err error
		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			testDB, err = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			name := fmt.Sprintf("file:moodly_test_%d?mode=memory&cache=shared", os.Getpid())
			testDB, err = gorm.Open(sqlite.Open(name), cfg)
		}
		if err != nil {
			dbErr = err
			return
		}

		if err := db.AutoMigrateAll(testDB); err != nil {
			dbErr = err
			return
		}
		dbErr = db.EnsureMoodIndexes(testDB)
	})

	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return testDB
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
