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

type UserRoutes struct {
	service *services.UserService
}

var (
	userRoutes *UserRoutes
	userOnce   sync.Once
)

func GetUserRoutes() *UserRoutes {
	userOnce.Do(func() {
		userRoutes = NewUserRoutes(services.GetUserService())
	})
	return userRoutes
}

func NewUserRoutes(service *services.UserService) *UserRoutes {
	return &UserRoutes{service: service}
}

func (r *UserRoutes) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/users")
	{
		userGroup.POST("", r.CreateUser)
		userGroup.GET("", r.ListUsers)
		userGroup.GET("/:id", r.GetUser)
		userGroup.PUT("/:id", r.UpdateUser)
		userGroup.DELETE("/:id", r.DeleteUser)
	}
}

func (r *UserRoutes) CreateUser(c *gin.Context) {
	var dto models.CreateUserDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	user, err := r.service.CreateUser(c.Request.Context(), &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Created(c, user)
}

func (r *UserRoutes) ListUsers(c *gin.Context) {
	pageRequest, ok := parsePageRequest(c)
	if !ok {
		return
	}

	users, err := r.service.ListUsers(c.Request.Context(), pageRequest)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Paged(c, users)
}

func (r *UserRoutes) GetUser(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}

	user, err := r.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, user)
}

func (r *UserRoutes) UpdateUser(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}

	var dto models.UpdateUserDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BindFailed(c, err)
		return
	}

	user, err := r.service.UpdateUser(c.Request.Context(), userID, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, user)
}

func (r *UserRoutes) DeleteUser(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}

	if err := r.service.DeleteUser(c.Request.Context(), userID); err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, nil)
}
