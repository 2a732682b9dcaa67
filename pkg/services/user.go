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
	"github.com/samber/lo"
	"gorm.io/gorm"
)

var userListSpec = &listSpec{
	name:          "users",
	searchColumns: []string{"name", "email"},
	filters: map[string]filterFunc{
		"role":   enumFilter("role", models.UserRoles),
		"status": enumFilter("status", models.UserStatuses),
	},
	sorts: map[string]string{
		"name":      "name",
		"email":     "email",
		"role":      "role",
		"createdAt": "created_at",
	},
	defaultOrder: "created_at DESC",
}

type UserService struct {
	db *gorm.DB
}

var (
	userService *UserService
	userOnce    sync.Once
)

func GetUserService() *UserService {
	userOnce.Do(func() {
		userService = NewUserService(conn.GetDB())
	})
	return userService
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, dto *models.CreateUserDto) (*models.UserDto, error) {
	email := strings.ToLower(dto.Email)
	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:   dto.Name,
		Email:  email,
		Role:   dto.Role,
		Status: lo.CoalesceOrEmpty(dto.Status, models.UserStatusActive),
	}
	if err := gorm.G[models.User](s.db).Create(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, err
	}
	return user.ToDto(), nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.UserDto, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToDto(), nil
}

func (s *UserService) ListUsers(ctx context.Context, request *pagination.PageRequest) (*pagination.PagedResponse[models.UserDto], error) {
	users, total, err := listPage[models.User](ctx, s.db, userListSpec, request)
	if err != nil {
		return nil, err
	}

	return &pagination.PagedResponse[models.UserDto]{
		Data: lo.Map(users, func(u models.User, _ int) models.UserDto {
			return *u.ToDto()
		}),
		Meta: pagination.NewMeta(request.ListQuery, total),
	}, nil
}

func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, dto *models.UpdateUserDto) (*models.UserDto, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	if dto.Email != "" && !strings.EqualFold(dto.Email, user.Email) {
		email := strings.ToLower(dto.Email)
		if err := s.ensureEmailFree(ctx, email, userID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if dto.Name != "" {
		user.Name = dto.Name
	}
	if dto.Role != "" {
		user.Role = dto.Role
	}
	if dto.Status != "" {
		user.Status = dto.Status
	}
	user.UpdatedAt = time.Now()

	if _, err := gorm.G[models.User](s.db).
		Where("id = ?", userID).
		Select("*").
		Omit("id", "created_at").
		Updates(ctx, *user); err != nil {
		slog.ErrorContext(ctx, "failed to update user", "error", err, "user_id", userID)
		return nil, err
	}
	return user.ToDto(), nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	affected, err := gorm.G[models.User](s.db).
		Where("id = ? AND deleted_at IS NULL", userID).
		Update(ctx, "deleted_at", time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete user", "error", err, "user_id", userID)
		return err
	}
	if affected == 0 {
		return customerrors.ErrUserNotFound
	}
	return nil
}

func (s *UserService) find(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := gorm.G[models.User](s.db).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrUserNotFound
		}
		slog.ErrorContext(ctx, "failed to find user", "error", err, "user_id", userID)
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, except uuid.UUID) error {
	exists, err := gorm.G[models.User](s.db).
		Where("email = ? AND id != ? AND deleted_at IS NULL", email, except).
		Count(ctx, "id")
	if err != nil {
		slog.ErrorContext(ctx, "failed to check user existence", "error", err)
		return err
	}
	if exists > 0 {
		return customerrors.ErrUserAlreadyExists
	}
	return nil
}
