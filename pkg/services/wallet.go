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

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/masteryyh/jobboard/pkg/conn"
	"github.com/masteryyh/jobboard/pkg/customerrors"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
	"github.com/masteryyh/jobboard/pkg/wallet"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

var transactionListSpec = &listSpec{
	name:          "transactions",
	searchColumns: []string{"description", "category"},
	filters: map[string]filterFunc{
		"userId":   uuidFilter("user_id"),
		"type":     enumFilter("type", models.TransactionTypes),
		"category": eqFilter("category"),
	},
	sorts: map[string]string{
		"createdAt": "created_at",
		"points":    "points",
		"category":  "category",
	},
	defaultOrder: "created_at DESC",
}

type WalletService struct {
	db  *gorm.DB
	now func() time.Time
}

var (
	walletService *WalletService
	walletOnce    sync.Once
)

func GetWalletService() *WalletService {
	walletOnce.Do(func() {
		walletService = NewWalletService(conn.GetDB())
	})
	return walletService
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db, now: time.Now}
}

// CreateTransaction records a points movement. Spending more than the
// current balance is rejected.
func (s *WalletService) CreateTransaction(ctx context.Context, dto *models.CreateTransactionDto) (*models.TransactionDto, error) {
	tx := &models.Transaction{
		UserID:      dto.UserID,
		Type:        dto.Type,
		Category:    dto.Category,
		Points:      dto.Points,
		Description: dto.Description,
	}

	if err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if _, err := NewUserService(db).find(ctx, dto.UserID); err != nil {
			return err
		}

		if dto.Type == models.TransactionSpent {
			history, err := userTransactions(ctx, db, dto.UserID)
			if err != nil {
				return fmt.Errorf("failed to load wallet history: %w", err)
			}
			balance := wallet.Summarize(history, s.now()).Balance
			if dto.Points > balance {
				verr := customerrors.NewValidationError(nil)
				verr.Add("points", fmt.Sprintf("exceeds the available balance of %d", balance))
				return verr
			}
		}

		return gorm.G[models.Transaction](db).Create(ctx, tx)
	}); err != nil {
		if customerrors.GetBusinessError(err) == nil && customerrors.GetValidationError(err) == nil {
			slog.ErrorContext(ctx, "failed to create transaction", "error", err, "user_id", dto.UserID)
		}
		return nil, err
	}
	return tx.ToDto(), nil
}

func (s *WalletService) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.TransactionDto, error) {
	tx, err := s.find(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return tx.ToDto(), nil
}

func (s *WalletService) ListTransactions(ctx context.Context, request *pagination.PageRequest) (*pagination.PagedResponse[models.TransactionDto], error) {
	txs, total, err := listPage[models.Transaction](ctx, s.db, transactionListSpec, request)
	if err != nil {
		return nil, err
	}

	return &pagination.PagedResponse[models.TransactionDto]{
		Data: lo.Map(txs, func(t models.Transaction, _ int) models.TransactionDto {
			return *t.ToDto()
		}),
		Meta: pagination.NewMeta(request.ListQuery, total),
	}, nil
}

// UpdateTransaction only touches the bookkeeping fields. Points and type are
// fixed once recorded.
func (s *WalletService) UpdateTransaction(ctx context.Context, transactionID uuid.UUID, dto *models.UpdateTransactionDto) (*models.TransactionDto, error) {
	tx, err := s.find(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if dto.Category != "" {
		tx.Category = dto.Category
	}
	if dto.Description != "" {
		tx.Description = dto.Description
	}
	tx.UpdatedAt = time.Now()

	if _, err := gorm.G[models.Transaction](s.db).
		Where("id = ?", transactionID).
		Select("category", "description", "updated_at").
		Updates(ctx, *tx); err != nil {
		slog.ErrorContext(ctx, "failed to update transaction", "error", err, "transaction_id", transactionID)
		return nil, err
	}
	return tx.ToDto(), nil
}

func (s *WalletService) DeleteTransaction(ctx context.Context, transactionID uuid.UUID) error {
	affected, err := gorm.G[models.Transaction](s.db).
		Where("id = ? AND deleted_at IS NULL", transactionID).
		Update(ctx, "deleted_at", time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete transaction", "error", err, "transaction_id", transactionID)
		return err
	}
	if affected == 0 {
		return customerrors.ErrTransactionNotFound
	}
	return nil
}

// Summary computes wallet analytics over the user's whole history.
func (s *WalletService) Summary(ctx context.Context, userID uuid.UUID) (*wallet.Summary, error) {
	if _, err := NewUserService(s.db).find(ctx, userID); err != nil {
		return nil, err
	}

	history, err := userTransactions(ctx, s.db, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load wallet history", "error", err, "user_id", userID)
		return nil, err
	}
	summary := wallet.Summarize(history, s.now())
	return &summary, nil
}

func (s *WalletService) find(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	tx, err := gorm.G[models.Transaction](s.db).
		Where("id = ? AND deleted_at IS NULL", transactionID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrTransactionNotFound
		}
		slog.ErrorContext(ctx, "failed to find transaction", "error", err, "transaction_id", transactionID)
		return nil, err
	}
	return &tx, nil
}

func userTransactions(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]models.TransactionDto, error) {
	txs, err := gorm.G[models.Transaction](db).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at ASC").
		Find(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(txs, func(t models.Transaction, _ int) models.TransactionDto {
		return *t.ToDto()
	}), nil
}
