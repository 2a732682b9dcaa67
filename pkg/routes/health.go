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

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/jobboard/pkg/conn"
	"github.com/masteryyh/jobboard/pkg/utils/response"
	"gorm.io/gorm"
)

// HealthHandler reports whether the database answers. A degraded database
// turns the response into a 503 so load balancers stop routing to it.
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := conn.Health(c.Request.Context(), db)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, response.NewGenericResponse(http.StatusServiceUnavailable, err.Error(), status))
			return
		}
		response.OK(c, status)
	}
}
