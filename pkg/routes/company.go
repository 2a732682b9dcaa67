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
	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/masteryyh/jobboard/pkg/services"
	"github.com/masteryyh/jobboard/pkg/utils/response"
	"github.com/masteryyh/jobboard/pkg/utils/typeutil"
)

type CompanyRoutes struct {
	service *services.CompanyService
}

var (
	companyRoutes *CompanyRoutes
	companyOnce   sync.Once
)

func GetCompanyRoutes() *CompanyRoutes {
	companyOnce.Do(func() {
		companyRoutes = NewCompanyRoutes(services.GetCompanyService())
	})
	return companyRoutes
}

func NewCompanyRoutes(service *services.CompanyService) *CompanyRoutes {
	return &CompanyRoutes{service: service}
}

func (r *CompanyRoutes) RegisterRoutes(router *gin.RouterGroup) {
	companyGroup := router.Group("/companies")
	{
		companyGroup.POST("", r.CreateCompany)
		companyGroup.GET("", r.ListCompanies)
		companyGroup.GET("/:id", r.GetCompany)
		companyGroup.PUT("/:id", r.UpdateCompany)
		companyGroup.DELETE("/:id", r.DeleteCompany)
	}
}

func (r *CompanyRoutes) CreateCompany(c *gin.Context) {
	var dto models.CreateCompanyDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	company, err := r.service.CreateCompany(c.Request.Context(), &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Created(c, company)
}

func (r *CompanyRoutes) ListCompanies(c *gin.Context) {
	pageRequest, ok := parsePageRequest(c)
	if !ok {
		return
	}

	companies, err := r.service.ListCompanies(c.Request.Context(), pageRequest)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Paged(c, companies)
}

func (r *CompanyRoutes) GetCompany(c *gin.Context) {
	companyID, ok := parseID(c)
	if !ok {
		return
	}

	company, err := r.service.GetCompany(c.Request.Context(), companyID)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, company)
}

func (r *CompanyRoutes) UpdateCompany(c *gin.Context) {
	companyID, ok := parseID(c)
	if !ok {
		return
	}

	var dto models.UpdateCompanyDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	company, err := r.service.UpdateCompany(c.Request.Context(), companyID, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, company)
}

func (r *CompanyRoutes) DeleteCompany(c *gin.Context) {
	companyID, ok := parseID(c)
	if !ok {
		return
	}

	force := typeutil.ParseBoolQueryParam(c.Query("force"))
	if err := r.service.DeleteCompany(c.Request.Context(), companyID, force); err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, nil)
}
