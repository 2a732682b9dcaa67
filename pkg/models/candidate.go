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

type CandidateLevel string

const (
	CandidateLevelFresher CandidateLevel = "fresher"
	CandidateLevelJunior  CandidateLevel = "junior"
	CandidateLevelMid     CandidateLevel = "mid"
	CandidateLevelSenior  CandidateLevel = "senior"
	CandidateLevelExpert  CandidateLevel = "expert"
)

var CandidateLevels = []CandidateLevel{
	CandidateLevelFresher, CandidateLevelJunior, CandidateLevelMid, CandidateLevelSenior, CandidateLevelExpert,
}

type Candidate struct {
	Base
	Name                string                      `gorm:"type:varchar(255);not null"`
	Email               string                      `gorm:"type:varchar(255);not null;index"`
	Headline            string                      `gorm:"type:varchar(255);not null;default:''"`
	Location            string                      `gorm:"type:varchar(255);not null;default:''"`
	ExperienceLevel     CandidateLevel              `gorm:"type:varchar(20);not null"`
	Skills              datatypes.JSONSlice[string] `gorm:"type:json"`
	HasPortfolio        bool                        `gorm:"not null;default:false"`
	CertificationsCount int                         `gorm:"not null;default:0"`
	ResumeQualityScore  float64                     `gorm:"not null;default:0"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) ToDto() *CandidateDto {
	skills := []string(c.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &CandidateDto{
		ID:                  c.ID,
		Name:                c.Name,
		Email:               c.Email,
		Headline:            c.Headline,
		Location:            c.Location,
		ExperienceLevel:     c.ExperienceLevel,
		Skills:              skills,
		HasPortfolio:        c.HasPortfolio,
		CertificationsCount: c.CertificationsCount,
		ResumeQualityScore:  c.ResumeQualityScore,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

type CreateCandidateDto struct {
	Name                string         `json:"name" binding:"required,max=255"`
	Email               string         `json:"email" binding:"required,email"`
	Headline            string         `json:"headline" binding:"omitempty,max=255"`
	Location            string         `json:"location" binding:"omitempty,max=255"`
	ExperienceLevel     CandidateLevel `json:"experienceLevel" binding:"required_without=YearsOfExperience,omitempty,oneof=fresher junior mid senior expert"`
	// YearsOfExperience derives the level when experienceLevel is left out.
	YearsOfExperience   *int           `json:"yearsOfExperience" binding:"omitempty,min=0,max=60"`
	Skills              []string       `json:"skills" binding:"omitempty,dive,required,max=50"`
	HasPortfolio        bool           `json:"hasPortfolio"`
	CertificationsCount int            `json:"certificationsCount" binding:"omitempty,min=0"`
	ResumeQualityScore  float64        `json:"resumeQualityScore" binding:"omitempty,min=0,max=10"`
}

type UpdateCandidateDto struct {
	Name                string         `json:"name" binding:"omitempty,max=255"`
	Email               string         `json:"email" binding:"omitempty,email"`
	Headline            *string        `json:"headline" binding:"omitempty,max=255"`
	Location            *string        `json:"location" binding:"omitempty,max=255"`
	ExperienceLevel     CandidateLevel `json:"experienceLevel" binding:"omitempty,oneof=fresher junior mid senior expert"`
	Skills              []string       `json:"skills" binding:"omitempty,dive,required,max=50"`
	HasPortfolio        *bool          `json:"hasPortfolio"`
	CertificationsCount *int           `json:"certificationsCount" binding:"omitempty,min=0"`
	ResumeQualityScore  *float64       `json:"resumeQualityScore" binding:"omitempty,min=0,max=10"`
}

type CandidateDto struct {
	ID                  uuid.UUID      `json:"id"`
	Name                string         `json:"name"`
	Email               string         `json:"email"`
	Headline            string         `json:"headline"`
	Location            string         `json:"location"`
	ExperienceLevel     CandidateLevel `json:"experienceLevel"`
	Skills              []string       `json:"skills"`
	HasPortfolio        bool           `json:"hasPortfolio"`
	CertificationsCount int            `json:"certificationsCount"`
	ResumeQualityScore  float64        `json:"resumeQualityScore"`
	ResumeAccessPoints  int            `json:"resumeAccessPoints"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (d CandidateDto) RecordID() string {
	return d.ID.String()
}
