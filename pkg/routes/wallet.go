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

package routes

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/masteryyh/jobboard/pkg/customerrors"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/masteryyh/jobboard/pkg/services"
	"github.com/masteryyh/jobboard/pkg/utils/response"
)

type WalletRoutes struct {
	service *services.WalletService
}

var (
	walletRoutes *WalletRoutes
	walletOnce   sync.Once
)

func GetWalletRoutes() *WalletRoutes {
	walletOnce.Do(func() {
		walletRoutes = NewWalletRoutes(services.GetWalletService())
	})
	return walletRoutes
}

func NewWalletRoutes(service *services.WalletService) *WalletRoutes {
	return &WalletRoutes{service: service}
}

func (r *WalletRoutes) RegisterRoutes(router *gin.RouterGroup) {
	walletGroup := router.Group("/wallet")
	{
		walletGroup.GET("/summary", r.GetSummary)

		transactionGroup := walletGroup.Group("/transactions")
		transactionGroup.POST("", r.CreateTransaction)
		transactionGroup.GET("", r.ListTransactions)
		transactionGroup.GET("/:id", r.GetTransaction)
		transactionGroup.PUT("/:id", r.UpdateTransaction)
		transactionGroup.DELETE("/:id", r.DeleteTransaction)
	}
}

func (r *WalletRoutes) GetSummary(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		verr := customerrors.NewValidationError(nil)
		verr.Add("userId", "must be a valid id")
		response.Failed(c, verr)
		return
	}

	summary, err := r.service.Summary(c.Request.Context(), userID)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, summary)
}

func (r *WalletRoutes) CreateTransaction(c *gin.Context) {
	var dto models.CreateTransactionDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	tx, err := r.service.CreateTransaction(c.Request.Context(), &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Created(c, tx)
}

func (r *WalletRoutes) ListTransactions(c *gin.Context) {
	pageRequest, ok := parsePageRequest(c)
	if !ok {
		return
	}

	txs, err := r.service.ListTransactions(c.Request.Context(), pageRequest)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Paged(c, txs)
}

func (r *WalletRoutes) GetTransaction(c *gin.Context) {
	transactionID, ok := parseID(c)
	if !ok {
		return
	}

	tx, err := r.service.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, tx)
}

func (r *WalletRoutes) UpdateTransaction(c *gin.Context) {
	transactionID, ok := parseID(c)
	if !ok {
		return
	}

	var dto models.UpdateTransactionDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	tx, err := r.service.UpdateTransaction(c.Request.Context(), transactionID, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, tx)
}

func (r *WalletRoutes) DeleteTransaction(c *gin.Context) {
	transactionID, ok := parseID(c)
	if !ok {
		return
	}

	if err := r.service.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, nil)
}
