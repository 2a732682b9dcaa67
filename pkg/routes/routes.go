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
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/masteryyh/jobboard/pkg/customerrors"
	"github.com/masteryyh/jobboard/pkg/services"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
	"github.com/masteryyh/jobboard/pkg/utils/response"
	"gorm.io/gorm"
)

type V1Routes struct {
	companyRoutes   *CompanyRoutes
	jobRoutes       *JobRoutes
	candidateRoutes *CandidateRoutes
	userRoutes      *UserRoutes
	walletRoutes    *WalletRoutes
}

var (
	v1Routes *V1Routes
	v1Once   sync.Once

	validatorOnce sync.Once
	validatorErr  error
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

func GetV1Routes() *V1Routes {
	v1Once.Do(func() {
		v1Routes = &V1Routes{
			companyRoutes:   GetCompanyRoutes(),
			jobRoutes:       GetJobRoutes(),
			candidateRoutes: GetCandidateRoutes(),
			userRoutes:      GetUserRoutes(),
			walletRoutes:    GetWalletRoutes(),
		}
	})
	return v1Routes
}

// NewV1Routes builds the routes on top of db instead of the process wide
// connection.
func NewV1Routes(db *gorm.DB) *V1Routes {
	return &V1Routes{
		companyRoutes:   NewCompanyRoutes(services.NewCompanyService(db)),
		jobRoutes:       NewJobRoutes(services.NewJobService(db)),
		candidateRoutes: NewCandidateRoutes(services.NewCandidateService(db)),
		userRoutes:      NewUserRoutes(services.NewUserService(db)),
		walletRoutes:    NewWalletRoutes(services.NewWalletService(db)),
	}
}

func (r *V1Routes) RegisterRoutes(routerGroup *gin.RouterGroup) error {
	if err := registerValidators(); err != nil {
		return err
	}

	r.companyRoutes.RegisterRoutes(routerGroup)
	r.jobRoutes.RegisterRoutes(routerGroup)
	r.candidateRoutes.RegisterRoutes(routerGroup)
	r.userRoutes.RegisterRoutes(routerGroup)
	r.walletRoutes.RegisterRoutes(routerGroup)
	return nil
}

// registerValidators adds the custom binding tags and reports field errors
// under their json names.
func registerValidators() error {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		validatorErr = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return currencyRegex.MatchString(fl.Field().String())
		})
	})
	return validatorErr
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Failed(c, customerrors.ErrInvalidParams)
		return uuid.Nil, false
	}
	return id, true
}

func parsePageRequest(c *gin.Context) (*pagination.PageRequest, bool) {
	pageRequest, err := pagination.ParsePageRequest(c.Request.URL.Query())
	if err != nil {
		response.Failed(c, customerrors.NewBusinessError(http.StatusBadRequest, err.Error()))
		return nil, false
	}
	return pageRequest, true
}
