/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package conn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/masteryyh/jobboard/pkg/config"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/masteryyh/jobboard/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrDatabaseLocked = errors.New("database file is used by another server process")

var (
	db     *gorm.DB
	dbLock *flock.Flock
	dbOnce sync.Once
)

// InitDB opens the configured database, migrates it and keeps it as the
// process wide connection.
func InitDB(ctx context.Context, cfg *config.DatabaseConfig) error {
	var err error
	dbOnce.Do(func() {
		if cfg.Driver == config.DBDriverSQLite && cfg.Path != ":memory:" {
			lock, lockErr := lockFile(cfg.Path)
			if lockErr != nil {
				err = lockErr
				return
			}
			dbLock = lock
		}

		dbConn, openErr := OpenDB(ctx, cfg)
		if openErr != nil {
			err = openErr
			return
		}
		db = dbConn
	})
	return err
}

// OpenDB opens and migrates a database without touching the process wide
// connection.
func OpenDB(ctx context.Context, cfg *config.DatabaseConfig) (*gorm.DB, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DBDriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DBDriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	dbConn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver != config.DBDriverPostgres {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer, and every :memory: connection is a
		// separate database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := dbConn.WithContext(timeoutCtx).AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return dbConn, nil
}

func lockFile(dbPath string) (*flock.Flock, error) {
	path, err := utils.GetCleanPath(dbPath+".lock", true)
	if err != nil {
		return nil, err
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseLocked, path)
	}
	slog.Info("acquired database lock", "file", path)
	return lock, nil
}

func GetDB() *gorm.DB {
	if db == nil {
		panic("database not initialized, call InitDB first")
	}
	return db
}

// CloseDB closes the connection and releases the sqlite file lock.
func CloseDB() error {
	var errs []error
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if dbLock != nil {
		errs = append(errs, dbLock.Unlock())
	}
	return errors.Join(errs...)
}
