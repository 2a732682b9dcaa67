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
)

type CandidateRoutes struct {
	service *services.CandidateService
}

var (
	candidateRoutes *CandidateRoutes
	candidateOnce   sync.Once
)

func GetCandidateRoutes() *CandidateRoutes {
	candidateOnce.Do(func() {
		candidateRoutes = NewCandidateRoutes(services.GetCandidateService())
	})
	return candidateRoutes
}

func NewCandidateRoutes(service *services.CandidateService) *CandidateRoutes {
	return &CandidateRoutes{service: service}
}

func (r *CandidateRoutes) RegisterRoutes(router *gin.RouterGroup) {
	candidateGroup := router.Group("/candidates")
	{
		candidateGroup.POST("", r.CreateCandidate)
		candidateGroup.GET("", r.ListCandidates)
		candidateGroup.GET("/:id", r.GetCandidate)
		candidateGroup.PUT("/:id", r.UpdateCandidate)
		candidateGroup.DELETE("/:id", r.DeleteCandidate)
	}
}

func (r *CandidateRoutes) CreateCandidate(c *gin.Context) {
	var dto models.CreateCandidateDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	candidate, err := r.service.CreateCandidate(c.Request.Context(), &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Created(c, candidate)
}

func (r *CandidateRoutes) ListCandidates(c *gin.Context) {
	pageRequest, ok := parsePageRequest(c)
	if !ok {
		return
	}

	candidates, err := r.service.ListCandidates(c.Request.Context(), pageRequest)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Paged(c, candidates)
}

func (r *CandidateRoutes) GetCandidate(c *gin.Context) {
	candidateID, ok := parseID(c)
	if !ok {
		return
	}

	candidate, err := r.service.GetCandidate(c.Request.Context(), candidateID)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, candidate)
}

func (r *CandidateRoutes) UpdateCandidate(c *gin.Context) {
	candidateID, ok := parseID(c)
	if !ok {
		return
	}

	var dto models.UpdateCandidateDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	candidate, err := r.service.UpdateCandidate(c.Request.Context(), candidateID, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, candidate)
}

func (r *CandidateRoutes) DeleteCandidate(c *gin.Context) {
	candidateID, ok := parseID(c)
	if !ok {
		return
	}

	if err := r.service.DeleteCandidate(c.Request.Context(), candidateID); err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, nil)
}
