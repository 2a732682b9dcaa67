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
	"github.com/samber/lo"
	"gorm.io/gorm"
)

var companyListSpec = &listSpec{
	name:          "companies",
	searchColumns: []string{"name", "industry", "location"},
	filters: map[string]filterFunc{
		"size":     enumFilter("size", models.CompanySizes),
		"industry": eqFilter("industry"),
		"location": containsFilter("location"),
	},
	sorts: map[string]string{
		"name":      "name",
		"industry":  "industry",
		"size":      "size",
		"createdAt": "created_at",
	},
	defaultOrder: "created_at DESC",
}

type CompanyService struct {
	db *gorm.DB
}

var (
	companyService *CompanyService
	companyOnce    sync.Once
)

func GetCompanyService() *CompanyService {
	companyOnce.Do(func() {
		companyService = NewCompanyService(conn.GetDB())
	})
	return companyService
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

func (s *CompanyService) CreateCompany(ctx context.Context, dto *models.CreateCompanyDto) (*models.CompanyDto, error) {
	if err := s.ensureNameFree(ctx, dto.Name, uuid.Nil); err != nil {
		return nil, err
	}

	company := &models.Company{
		Name:        dto.Name,
		Industry:    dto.Industry,
		Size:        dto.Size,
		Location:    dto.Location,
		Website:     dto.Website,
		Description: dto.Description,
	}
	if err := gorm.G[models.Company](s.db).Create(ctx, company); err != nil {
		slog.ErrorContext(ctx, "failed to create company", "error", err)
		return nil, err
	}
	return company.ToDto(), nil
}

func (s *CompanyService) GetCompany(ctx context.Context, companyID uuid.UUID) (*models.CompanyDto, error) {
	company, err := s.find(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	return company.ToDto(), nil
}

func (s *CompanyService) ListCompanies(ctx context.Context, request *pagination.PageRequest) (*pagination.PagedResponse[models.CompanyDto], error) {
	companies, total, err := listPage[models.Company](ctx, s.db, companyListSpec, request)
	if err != nil {
		return nil, err
	}

	return &pagination.PagedResponse[models.CompanyDto]{
		Data: lo.Map(companies, func(c models.Company, _ int) models.CompanyDto {
			return *c.ToDto()
		}),
		Meta: pagination.NewMeta(request.ListQuery, total),
	}, nil
}

func (s *CompanyService) UpdateCompany(ctx context.Context, companyID uuid.UUID, dto *models.UpdateCompanyDto) (*models.CompanyDto, error) {
	company, err := s.find(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}

	if dto.Name != "" && dto.Name != company.Name {
		if err := s.ensureNameFree(ctx, dto.Name, companyID); err != nil {
			return nil, err
		}
		company.Name = dto.Name
	}
	if dto.Industry != "" {
		company.Industry = dto.Industry
	}
	if dto.Size != "" {
		company.Size = dto.Size
	}
	if dto.Location != "" {
		company.Location = dto.Location
	}
	if dto.Website != "" {
		company.Website = dto.Website
	}
	if dto.Description != "" {
		company.Description = dto.Description
	}
	company.UpdatedAt = time.Now()

	if _, err := gorm.G[models.Company](s.db).
		Where("id = ?", companyID).
		Select("*").
		Omit("id", "created_at").
		Updates(ctx, *company); err != nil {
		slog.ErrorContext(ctx, "failed to update company", "error", err, "company_id", companyID)
		return nil, err
	}
	return company.ToDto(), nil
}

// DeleteCompany soft deletes a company. Companies with live job listings are
// only deleted with force, which deletes the listings too.
func (s *CompanyService) DeleteCompany(ctx context.Context, companyID uuid.UUID, force bool) error {
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.find(ctx, tx, companyID); err != nil {
			return err
		}

		jobs, err := gorm.G[models.JobListing](tx).
			Where("company_id = ? AND deleted_at IS NULL", companyID).
			Count(ctx, "id")
		if err != nil {
			return fmt.Errorf("failed to check company usage: %w", err)
		}

		now := time.Now()
		if jobs > 0 {
			if !force {
				return customerrors.ErrCompanyInUse
			}
			if _, err := gorm.G[models.JobListing](tx).
				Where("company_id = ? AND deleted_at IS NULL", companyID).
				Update(ctx, "deleted_at", now); err != nil {
				return fmt.Errorf("failed to delete job listings of company: %w", err)
			}
		}

		if _, err := gorm.G[models.Company](tx).
			Where("id = ? AND deleted_at IS NULL", companyID).
			Update(ctx, "deleted_at", now); err != nil {
			return fmt.Errorf("failed to delete company: %w", err)
		}
		return nil
	}); err != nil {
		if customerrors.GetBusinessError(err) == nil {
			slog.ErrorContext(ctx, "failed to delete company", "error", err, "company_id", companyID)
		}
		return err
	}
	return nil
}

func (s *CompanyService) find(ctx context.Context, db *gorm.DB, companyID uuid.UUID) (*models.Company, error) {
	company, err := gorm.G[models.Company](db).
		Where("id = ? AND deleted_at IS NULL", companyID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrCompanyNotFound
		}
		slog.ErrorContext(ctx, "failed to find company", "error", err, "company_id", companyID)
		return nil, err
	}
	return &company, nil
}

func (s *CompanyService) ensureNameFree(ctx context.Context, name string, except uuid.UUID) error {
	exists, err := gorm.G[models.Company](s.db).
		Where("name = ? AND id != ? AND deleted_at IS NULL", name, except).
		Count(ctx, "id")
	if err != nil {
		slog.ErrorContext(ctx, "failed to check company existence", "error", err)
		return err
	}
	if exists > 0 {
		return customerrors.ErrCompanyAlreadyExists
	}
	return nil
}

// companiesByID loads the live companies with the given ids.
func companiesByID(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.Company, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return map[uuid.UUID]models.Company{}, nil
	}
	companies, err := gorm.G[models.Company](db).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Find(ctx)
	if err != nil {
		return nil, err
	}
	return lo.KeyBy(companies, func(c models.Company) uuid.UUID { return c.ID }), nil
}
