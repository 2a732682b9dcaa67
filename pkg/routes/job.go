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

type JobRoutes struct {
	service *services.JobService
}

var (
	jobRoutes *JobRoutes
	jobOnce   sync.Once
)

func GetJobRoutes() *JobRoutes {
	jobOnce.Do(func() {
		jobRoutes = NewJobRoutes(services.GetJobService())
	})
	return jobRoutes
}

func NewJobRoutes(service *services.JobService) *JobRoutes {
	return &JobRoutes{service: service}
}

func (r *JobRoutes) RegisterRoutes(router *gin.RouterGroup) {
	jobGroup := router.Group("/job-listings")
	{
		jobGroup.POST("", r.CreateJobListing)
		jobGroup.GET("", r.ListJobListings)
		jobGroup.GET("/:id", r.GetJobListing)
		jobGroup.PUT("/:id", r.UpdateJobListing)
		jobGroup.DELETE("/:id", r.DeleteJobListing)
	}
}

func (r *JobRoutes) CreateJobListing(c *gin.Context) {
	var dto models.CreateJobListingDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	job, err := r.service.CreateJob(c.Request.Context(), &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Created(c, job)
}

func (r *JobRoutes) ListJobListings(c *gin.Context) {
	pageRequest, ok := parsePageRequest(c)
	if !ok {
		return
	}

	jobs, err := r.service.ListJobs(c.Request.Context(), pageRequest)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Paged(c, jobs)
}

func (r *JobRoutes) GetJobListing(c *gin.Context) {
	jobID, ok := parseID(c)
	if !ok {
		return
	}

	job, err := r.service.GetJob(c.Request.Context(), jobID)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, job)
}

func (r *JobRoutes) UpdateJobListing(c *gin.Context) {
	jobID, ok := parseID(c)
	if !ok {
		return
	}

	var dto models.UpdateJobListingDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	job, err := r.service.UpdateJob(c.Request.Context(), jobID, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, job)
}

func (r *JobRoutes) DeleteJobListing(c *gin.Context) {
	jobID, ok := parseID(c)
	if !ok {
		return
	}

	if err := r.service.DeleteJob(c.Request.Context(), jobID); err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, nil)
}
