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

type UserRole string

const (
	UserRoleCandidate UserRole = "candidate"
	UserRoleEmployer  UserRole = "employer"
	UserRoleAdmin     UserRole = "admin"
)

var UserRoles = []UserRole{UserRoleCandidate, UserRoleEmployer, UserRoleAdmin}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

var UserStatuses = []UserStatus{UserStatusActive, UserStatusSuspended}

type User struct {
	Base
	Name   string     `gorm:"type:varchar(255);not null"`
	Email  string     `gorm:"type:varchar(255);not null;index"`
	Role   UserRole   `gorm:"type:varchar(20);not null;index"`
	Status UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) ToDto() *UserDto {
	return &UserDto{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type CreateUserDto struct {
	Name   string     `json:"name" binding:"required,max=255"`
	Email  string     `json:"email" binding:"required,email"`
	Role   UserRole   `json:"role" binding:"required,oneof=candidate employer admin"`
	Status UserStatus `json:"status" binding:"omitempty,oneof=active suspended"`
}

type UpdateUserDto struct {
	Name   string     `json:"name" binding:"omitempty,max=255"`
	Email  string     `json:"email" binding:"omitempty,email"`
	Role   UserRole   `json:"role" binding:"omitempty,oneof=candidate employer admin"`
	Status UserStatus `json:"status" binding:"omitempty,oneof=active suspended"`
}

type UserDto struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (d UserDto) RecordID() string {
	return d.ID.String()
}
