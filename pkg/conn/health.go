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
	"fmt"

	"gorm.io/gorm"
)

type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Ping checks that the database answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func Health(ctx context.Context, db *gorm.DB) (*HealthStatus, error) {
	if err := Ping(ctx, db); err != nil {
		return &HealthStatus{Status: "degraded", Database: "unreachable"}, err
	}
	return &HealthStatus{Status: "ok", Database: "ok"}, nil
}
