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
	"gorm.io/datatypes"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeFreelance  JobType = "freelance"
	JobTypeInternship JobType = "internship"
)

var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeFreelance, JobTypeInternship}

type JobExperienceLevel string

const (
	JobLevelEntry     JobExperienceLevel = "entry"
	JobLevelJunior    JobExperienceLevel = "junior"
	JobLevelMid       JobExperienceLevel = "mid"
	JobLevelSenior    JobExperienceLevel = "senior"
	JobLevelLead      JobExperienceLevel = "lead"
	JobLevelExecutive JobExperienceLevel = "executive"
)

var JobExperienceLevels = []JobExperienceLevel{
	JobLevelEntry, JobLevelJunior, JobLevelMid, JobLevelSenior, JobLevelLead, JobLevelExecutive,
}

type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusClosed    JobStatus = "closed"
)

var JobStatuses = []JobStatus{JobStatusDraft, JobStatusPublished, JobStatusClosed}

type JobListing struct {
	Base
	CompanyID       uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Title           string                      `gorm:"type:varchar(255);not null"`
	Description     string                      `gorm:"type:text;not null;default:''"`
	Location        string                      `gorm:"type:varchar(255);not null;default:''"`
	IsRemote        bool                        `gorm:"not null;default:false"`
	Type            JobType                     `gorm:"type:varchar(20);not null"`
	ExperienceLevel JobExperienceLevel          `gorm:"type:varchar(20);not null"`
	SalaryMin       int64                       `gorm:"not null;default:0"`
	SalaryMax       int64                       `gorm:"not null;default:0"`
	SalaryCurrency  string                      `gorm:"type:varchar(3);not null;default:'USD'"`
	Status          JobStatus                   `gorm:"type:varchar(20);not null;default:'draft';index"`
	Skills          datatypes.JSONSlice[string] `gorm:"type:json"`
	ApplicantsCount int                         `gorm:"not null;default:0"`
	ViewsCount      int                         `gorm:"not null;default:0"`
	PostedAt        *time.Time
}

func (JobListing) TableName() string {
	return "job_listings"
}

// ToDto converts the row; companyName is resolved by the caller.
func (j *JobListing) ToDto(companyName string) *JobListingDto {
	skills := []string(j.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &JobListingDto{
		ID:              j.ID,
		CompanyID:       j.CompanyID,
		CompanyName:     companyName,
		Title:           j.Title,
		Description:     j.Description,
		Location:        j.Location,
		IsRemote:        j.IsRemote,
		Type:            j.Type,
		ExperienceLevel: j.ExperienceLevel,
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
		SalaryCurrency:  j.SalaryCurrency,
		Status:          j.Status,
		Skills:          skills,
		ApplicantsCount: j.ApplicantsCount,
		ViewsCount:      j.ViewsCount,
		PostedAt:        j.PostedAt,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

type CreateJobListingDto struct {
	CompanyID       uuid.UUID          `json:"companyId" binding:"required"`
	Title           string             `json:"title" binding:"required,max=255"`
	Description     string             `json:"description" binding:"omitempty"`
	Location        string             `json:"location" binding:"omitempty,max=255"`
	IsRemote        bool               `json:"isRemote"`
	Type            JobType            `json:"type" binding:"required,oneof=full-time part-time contract freelance internship"`
	ExperienceLevel JobExperienceLevel `json:"experienceLevel" binding:"required,oneof=entry junior mid senior lead executive"`
	SalaryMin       int64              `json:"salaryMin" binding:"omitempty,min=0"`
	SalaryMax       int64              `json:"salaryMax" binding:"omitempty,min=0,gtefield=SalaryMin"`
	SalaryCurrency  string             `json:"salaryCurrency" binding:"omitempty,currency"`
	Status          JobStatus          `json:"status" binding:"omitempty,oneof=draft published closed"`
	Skills          []string           `json:"skills" binding:"omitempty,dive,required,max=50"`
}

type UpdateJobListingDto struct {
	Title           string             `json:"title" binding:"omitempty,max=255"`
	Description     *string            `json:"description" binding:"omitempty"`
	Location        *string            `json:"location" binding:"omitempty,max=255"`
	IsRemote        *bool              `json:"isRemote"`
	Type            JobType            `json:"type" binding:"omitempty,oneof=full-time part-time contract freelance internship"`
	ExperienceLevel JobExperienceLevel `json:"experienceLevel" binding:"omitempty,oneof=entry junior mid senior lead executive"`
	SalaryMin       *int64             `json:"salaryMin" binding:"omitempty,min=0"`
	SalaryMax       *int64             `json:"salaryMax" binding:"omitempty,min=0"`
	SalaryCurrency  string             `json:"salaryCurrency" binding:"omitempty,currency"`
	Status          JobStatus          `json:"status" binding:"omitempty,oneof=draft published closed"`
	Skills          []string           `json:"skills" binding:"omitempty,dive,required,max=50"`
}

type JobListingDto struct {
	ID              uuid.UUID          `json:"id"`
	CompanyID       uuid.UUID          `json:"companyId"`
	CompanyName     string             `json:"companyName"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Location        string             `json:"location"`
	IsRemote        bool               `json:"isRemote"`
	Type            JobType            `json:"type"`
	ExperienceLevel JobExperienceLevel `json:"experienceLevel"`
	SalaryMin       int64              `json:"salaryMin"`
	SalaryMax       int64              `json:"salaryMax"`
	SalaryCurrency  string             `json:"salaryCurrency"`
	Status          JobStatus          `json:"status"`
	Skills          []string           `json:"skills"`
	ApplicantsCount int                `json:"applicantsCount"`
	ViewsCount      int                `json:"viewsCount"`
	ApplyPoints     int                `json:"applyPoints"`
	PostedAt        *time.Time         `json:"postedAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func (d JobListingDto) RecordID() string {
	return d.ID.String()
}
