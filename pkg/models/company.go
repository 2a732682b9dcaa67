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

type CompanySize string

const (
	CompanySizeStartup    CompanySize = "startup"
	CompanySizeMidCompany CompanySize = "mid_company"
	CompanySizeEnterprise CompanySize = "enterprise"
)

var CompanySizes = []CompanySize{CompanySizeStartup, CompanySizeMidCompany, CompanySizeEnterprise}

type Company struct {
	Base
	Name        string      `gorm:"type:varchar(255);not null"`
	Industry    string      `gorm:"type:varchar(100);not null;default:''"`
	Size        CompanySize `gorm:"type:varchar(20);not null"`
	Location    string      `gorm:"type:varchar(255);not null;default:''"`
	Website     string      `gorm:"type:varchar(255);not null;default:''"`
	Description string      `gorm:"type:text;not null;default:''"`
}

func (Company) TableName() string {
	return "companies"
}

func (c *Company) ToDto() *CompanyDto {
	return &CompanyDto{
		ID:          c.ID,
		Name:        c.Name,
		Industry:    c.Industry,
		Size:        c.Size,
		Location:    c.Location,
		Website:     c.Website,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CreateCompanyDto struct {
	Name        string      `json:"name" binding:"required,max=255"`
	Industry    string      `json:"industry" binding:"omitempty,max=100"`
	Size        CompanySize `json:"size" binding:"required,oneof=startup mid_company enterprise"`
	Location    string      `json:"location" binding:"omitempty,max=255"`
	Website     string      `json:"website" binding:"omitempty,url"`
	Description string      `json:"description" binding:"omitempty"`
}

type UpdateCompanyDto struct {
	Name        string      `json:"name" binding:"omitempty,max=255"`
	Industry    string      `json:"industry" binding:"omitempty,max=100"`
	Size        CompanySize `json:"size" binding:"omitempty,oneof=startup mid_company enterprise"`
	Location    string      `json:"location" binding:"omitempty,max=255"`
	Website     string      `json:"website" binding:"omitempty,url"`
	Description string      `json:"description" binding:"omitempty"`
}

type CompanyDto struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Industry    string      `json:"industry"`
	Size        CompanySize `json:"size"`
	Location    string      `json:"location"`
	Website     string      `json:"website"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (d CompanyDto) RecordID() string {
	return d.ID.String()
}
