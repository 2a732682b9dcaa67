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

package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionEarned    TransactionType = "earned"
	TransactionSpent     TransactionType = "spent"
	TransactionPurchased TransactionType = "purchased"
)

var TransactionTypes = []TransactionType{TransactionEarned, TransactionSpent, TransactionPurchased}

// Transaction is one movement of wallet points. Points is always positive,
// Type tells the direction.
type Transaction struct {
	Base
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        TransactionType `gorm:"type:varchar(20);not null"`
	Category    string          `gorm:"type:varchar(50);not null;default:''"`
	Points      int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(255);not null;default:''"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) ToDto() *TransactionDto {
	return &TransactionDto{
		ID:          t.ID,
		UserID:      t.UserID,
		Type:        t.Type,
		Category:    t.Category,
		Points:      t.Points,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

type CreateTransactionDto struct {
	UserID      uuid.UUID       `json:"userId" binding:"required"`
	Type        TransactionType `json:"type" binding:"required,oneof=earned spent purchased"`
	Category    string          `json:"category" binding:"omitempty,max=50"`
	Points      int             `json:"points" binding:"required,min=1"`
	Description string          `json:"description" binding:"omitempty,max=255"`
}

type UpdateTransactionDto struct {
	Category    string `json:"category" binding:"omitempty,max=50"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

type TransactionDto struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Points      int             `json:"points"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (d TransactionDto) RecordID() string {
	return d.ID.String()
}
