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
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/masteryyh/jobboard/pkg/conn"
	"github.com/masteryyh/jobboard/pkg/customerrors"
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
	"github.com/masteryyh/jobboard/pkg/wallet"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var candidateListSpec = &listSpec{
	name:          "candidates",
	searchColumns: []string{"name", "email", "headline", "location"},
	filters: map[string]filterFunc{
		"experienceLevel": enumFilter("experience_level", models.CandidateLevels),
		"hasPortfolio":    boolFilter("has_portfolio"),
		"location":        containsFilter("location"),
		"skill":           skillFilter("skills"),
		"minScore":        minFilter("resume_quality_score"),
	},
	sorts: map[string]string{
		"name":      "name",
		"createdAt": "created_at",
		"score":     "resume_quality_score",
	},
	defaultOrder: "created_at DESC",
}

type CandidateService struct {
	db *gorm.DB
}

var (
	candidateService *CandidateService
	candidateOnce    sync.Once
)

func GetCandidateService() *CandidateService {
	candidateOnce.Do(func() {
		candidateService = NewCandidateService(conn.GetDB())
	})
	return candidateService
}

func NewCandidateService(db *gorm.DB) *CandidateService {
	return &CandidateService{db: db}
}

func (s *CandidateService) CreateCandidate(ctx context.Context, dto *models.CreateCandidateDto) (*models.CandidateDto, error) {
	email := strings.ToLower(dto.Email)
	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	level := dto.ExperienceLevel
	if level == "" {
		level = wallet.LevelForYears(lo.FromPtr(dto.YearsOfExperience))
	}

	candidate := &models.Candidate{
		Name:                dto.Name,
		Email:               email,
		Headline:            dto.Headline,
		Location:            dto.Location,
		ExperienceLevel:     level,
		Skills:              datatypes.NewJSONSlice(lo.Uniq(dto.Skills)),
		HasPortfolio:        dto.HasPortfolio,
		CertificationsCount: dto.CertificationsCount,
		ResumeQualityScore:  dto.ResumeQualityScore,
	}
	if err := gorm.G[models.Candidate](s.db).Create(ctx, candidate); err != nil {
		slog.ErrorContext(ctx, "failed to create candidate", "error", err)
		return nil, err
	}
	return toCandidateDto(candidate), nil
}

func (s *CandidateService) GetCandidate(ctx context.Context, candidateID uuid.UUID) (*models.CandidateDto, error) {
	candidate, err := s.find(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return toCandidateDto(candidate), nil
}

func (s *CandidateService) ListCandidates(ctx context.Context, request *pagination.PageRequest) (*pagination.PagedResponse[models.CandidateDto], error) {
	candidates, total, err := listPage[models.Candidate](ctx, s.db, candidateListSpec, request)
	if err != nil {
		return nil, err
	}

	return &pagination.PagedResponse[models.CandidateDto]{
		Data: lo.Map(candidates, func(c models.Candidate, _ int) models.CandidateDto {
			return *toCandidateDto(&c)
		}),
		Meta: pagination.NewMeta(request.ListQuery, total),
	}, nil
}

func (s *CandidateService) UpdateCandidate(ctx context.Context, candidateID uuid.UUID, dto *models.UpdateCandidateDto) (*models.CandidateDto, error) {
	candidate, err := s.find(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if dto.Email != "" && !strings.EqualFold(dto.Email, candidate.Email) {
		email := strings.ToLower(dto.Email)
		if err := s.ensureEmailFree(ctx, email, candidateID); err != nil {
			return nil, err
		}
		candidate.Email = email
	}
	if dto.Name != "" {
		candidate.Name = dto.Name
	}
	if dto.Headline != nil {
		candidate.Headline = *dto.Headline
	}
	if dto.Location != nil {
		candidate.Location = *dto.Location
	}
	if dto.ExperienceLevel != "" {
		candidate.ExperienceLevel = dto.ExperienceLevel
	}
	if dto.Skills != nil {
		candidate.Skills = datatypes.NewJSONSlice(lo.Uniq(dto.Skills))
	}
	if dto.HasPortfolio != nil {
		candidate.HasPortfolio = *dto.HasPortfolio
	}
	if dto.CertificationsCount != nil {
		candidate.CertificationsCount = *dto.CertificationsCount
	}
	if dto.ResumeQualityScore != nil {
		candidate.ResumeQualityScore = *dto.ResumeQualityScore
	}
	candidate.UpdatedAt = time.Now()

	if _, err := gorm.G[models.Candidate](s.db).
		Where("id = ?", candidateID).
		Select("*").
		Omit("id", "created_at").
		Updates(ctx, *candidate); err != nil {
		slog.ErrorContext(ctx, "failed to update candidate", "error", err, "candidate_id", candidateID)
		return nil, err
	}
	return toCandidateDto(candidate), nil
}

func (s *CandidateService) DeleteCandidate(ctx context.Context, candidateID uuid.UUID) error {
	affected, err := gorm.G[models.Candidate](s.db).
		Where("id = ? AND deleted_at IS NULL", candidateID).
		Update(ctx, "deleted_at", time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete candidate", "error", err, "candidate_id", candidateID)
		return err
	}
	if affected == 0 {
		return customerrors.ErrCandidateNotFound
	}
	return nil
}

func (s *CandidateService) find(ctx context.Context, candidateID uuid.UUID) (*models.Candidate, error) {
	candidate, err := gorm.G[models.Candidate](s.db).
		Where("id = ? AND deleted_at IS NULL", candidateID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrCandidateNotFound
		}
		slog.ErrorContext(ctx, "failed to find candidate", "error", err, "candidate_id", candidateID)
		return nil, err
	}
	return &candidate, nil
}

func (s *CandidateService) ensureEmailFree(ctx context.Context, email string, except uuid.UUID) error {
	exists, err := gorm.G[models.Candidate](s.db).
		Where("email = ? AND id != ? AND deleted_at IS NULL", email, except).
		Count(ctx, "id")
	if err != nil {
		slog.ErrorContext(ctx, "failed to check candidate existence", "error", err)
		return err
	}
	if exists > 0 {
		return customerrors.ErrCandidateAlreadyExists
	}
	return nil
}

func toCandidateDto(c *models.Candidate) *models.CandidateDto {
	dto := c.ToDto()
	dto.ResumeAccessPoints = wallet.ResumeAccessPoints(dto)
	return dto
}
