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
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return db, mock
}

func TestHealthOK(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing()

	status, err := Health(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != "ok" || status.Database != "ok" {
		t.Fatalf("unexpected status %+v", status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHealthDegraded(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	status, err := Health(context.Background(), db)
	if err == nil {
		t.Fatal("expected ping error")
	}
	if status.Status != "degraded" {
		t.Fatalf("expected degraded status, got %+v", status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
