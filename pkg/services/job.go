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

var jobListSpec = &listSpec{
	name:          "job listings",
	searchColumns: []string{"title", "description", "location"},
	filters: map[string]filterFunc{
		"status":          enumFilter("status", models.JobStatuses),
		"type":            enumFilter("type", models.JobTypes),
		"experienceLevel": enumFilter("experience_level", models.JobExperienceLevels),
		"companyId":       uuidFilter("company_id"),
		"remote":          boolFilter("is_remote"),
		"location":        containsFilter("location"),
		"salaryMin":       minFilter("salary_max"),
		"skill":           skillFilter("skills"),
	},
	sorts: map[string]string{
		"title":      "title",
		"createdAt":  "created_at",
		"salaryMin":  "salary_min",
		"salaryMax":  "salary_max",
		"postedAt":   "posted_at",
		"applicants": "applicants_count",
	},
	defaultOrder: "created_at DESC",
}

// premium listings cost more to apply to
var premiumLevels = []models.JobExperienceLevel{
	models.JobLevelSenior, models.JobLevelLead, models.JobLevelExecutive,
}

type JobService struct {
	db *gorm.DB
}

var (
	jobService *JobService
	jobOnce    sync.Once
)

func GetJobService() *JobService {
	jobOnce.Do(func() {
		jobService = NewJobService(conn.GetDB())
	})
	return jobService
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

func (s *JobService) CreateJob(ctx context.Context, dto *models.CreateJobListingDto) (*models.JobListingDto, error) {
	if dto.SalaryMax > 0 && dto.SalaryMax < dto.SalaryMin {
		return nil, salaryRangeError()
	}

	company, err := NewCompanyService(s.db).find(ctx, s.db, dto.CompanyID)
	if err != nil {
		return nil, err
	}

	job := &models.JobListing{
		CompanyID:       dto.CompanyID,
		Title:           dto.Title,
		Description:     dto.Description,
		Location:        dto.Location,
		IsRemote:        dto.IsRemote,
		Type:            dto.Type,
		ExperienceLevel: dto.ExperienceLevel,
		SalaryMin:       dto.SalaryMin,
		SalaryMax:       dto.SalaryMax,
		SalaryCurrency:  lo.CoalesceOrEmpty(dto.SalaryCurrency, "USD"),
		Status:          lo.CoalesceOrEmpty(dto.Status, models.JobStatusDraft),
		Skills:          datatypes.NewJSONSlice(lo.Uniq(dto.Skills)),
	}
	if job.Status == models.JobStatusPublished {
		now := time.Now()
		job.PostedAt = &now
	}

	if err := gorm.G[models.JobListing](s.db).Create(ctx, job); err != nil {
		slog.ErrorContext(ctx, "failed to create job listing", "error", err)
		return nil, err
	}
	return toJobDto(job, company), nil
}

func (s *JobService) GetJob(ctx context.Context, jobID uuid.UUID) (*models.JobListingDto, error) {
	job, err := s.find(ctx, jobID)
	if err != nil {
		return nil, err
	}

	companies, err := companiesByID(ctx, s.db, []uuid.UUID{job.CompanyID})
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve company of job listing", "error", err, "job_id", jobID)
		return nil, err
	}
	company, ok := companies[job.CompanyID]
	if !ok {
		return toJobDto(job, nil), nil
	}
	return toJobDto(job, &company), nil
}

func (s *JobService) ListJobs(ctx context.Context, request *pagination.PageRequest) (*pagination.PagedResponse[models.JobListingDto], error) {
	jobs, total, err := listPage[models.JobListing](ctx, s.db, jobListSpec, request)
	if err != nil {
		return nil, err
	}

	companies, err := companiesByID(ctx, s.db, lo.Map(jobs, func(j models.JobListing, _ int) uuid.UUID {
		return j.CompanyID
	}))
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve companies of job listings", "error", err)
		return nil, err
	}

	return &pagination.PagedResponse[models.JobListingDto]{
		Data: lo.Map(jobs, func(j models.JobListing, _ int) models.JobListingDto {
			company, ok := companies[j.CompanyID]
			if !ok {
				return *toJobDto(&j, nil)
			}
			return *toJobDto(&j, &company)
		}),
		Meta: pagination.NewMeta(request.ListQuery, total),
	}, nil
}

func (s *JobService) UpdateJob(ctx context.Context, jobID uuid.UUID, dto *models.UpdateJobListingDto) (*models.JobListingDto, error) {
	job, err := s.find(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if dto.Title != "" {
		job.Title = dto.Title
	}
	if dto.Description != nil {
		job.Description = *dto.Description
	}
	if dto.Location != nil {
		job.Location = *dto.Location
	}
	if dto.IsRemote != nil {
		job.IsRemote = *dto.IsRemote
	}
	if dto.Type != "" {
		job.Type = dto.Type
	}
	if dto.ExperienceLevel != "" {
		job.ExperienceLevel = dto.ExperienceLevel
	}
	if dto.SalaryMin != nil {
		job.SalaryMin = *dto.SalaryMin
	}
	if dto.SalaryMax != nil {
		job.SalaryMax = *dto.SalaryMax
	}
	if dto.SalaryCurrency != "" {
		job.SalaryCurrency = dto.SalaryCurrency
	}
	if dto.Skills != nil {
		job.Skills = datatypes.NewJSONSlice(lo.Uniq(dto.Skills))
	}
	if dto.Status != "" && dto.Status != job.Status {
		job.Status = dto.Status
		if job.Status == models.JobStatusPublished && job.PostedAt == nil {
			now := time.Now()
			job.PostedAt = &now
		}
	}
	if job.SalaryMax > 0 && job.SalaryMax < job.SalaryMin {
		return nil, salaryRangeError()
	}
	job.UpdatedAt = time.Now()

	if _, err := gorm.G[models.JobListing](s.db).
		Where("id = ?", jobID).
		Select("*").
		Omit("id", "created_at").
		Updates(ctx, *job); err != nil {
		slog.ErrorContext(ctx, "failed to update job listing", "error", err, "job_id", jobID)
		return nil, err
	}

	companies, err := companiesByID(ctx, s.db, []uuid.UUID{job.CompanyID})
	if err != nil {
		return nil, err
	}
	company, ok := companies[job.CompanyID]
	if !ok {
		return toJobDto(job, nil), nil
	}
	return toJobDto(job, &company), nil
}

func (s *JobService) DeleteJob(ctx context.Context, jobID uuid.UUID) error {
	affected, err := gorm.G[models.JobListing](s.db).
		Where("id = ? AND deleted_at IS NULL", jobID).
		Update(ctx, "deleted_at", time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete job listing", "error", err, "job_id", jobID)
		return err
	}
	if affected == 0 {
		return customerrors.ErrJobListingNotFound
	}
	return nil
}

func (s *JobService) find(ctx context.Context, jobID uuid.UUID) (*models.JobListing, error) {
	job, err := gorm.G[models.JobListing](s.db).
		Where("id = ? AND deleted_at IS NULL", jobID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrJobListingNotFound
		}
		slog.ErrorContext(ctx, "failed to find job listing", "error", err, "job_id", jobID)
		return nil, err
	}
	return &job, nil
}

// toJobDto fills the company derived fields. company is nil when the
// company has been deleted since.
func toJobDto(job *models.JobListing, company *models.Company) *models.JobListingDto {
	premium := lo.Contains(premiumLevels, job.ExperienceLevel)
	if company == nil {
		dto := job.ToDto("")
		dto.ApplyPoints = wallet.JobApplicationPoints("", premium)
		return dto
	}
	dto := job.ToDto(company.Name)
	dto.ApplyPoints = wallet.JobApplicationPoints(company.Size, premium)
	return dto
}

func salaryRangeError() error {
	verr := customerrors.NewValidationError(nil)
	verr.Add("salaryMax", "must be greater than or equal to salaryMin")
	return verr
}
