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

package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/jobboard/pkg/config"
	"github.com/masteryyh/jobboard/pkg/customerrors"
	"github.com/masteryyh/jobboard/pkg/utils/response"
)

// BasicAuthMiddleware guards the API with a single shared credential.
func BasicAuthMiddleware(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || !cfg.Enabled {
			c.Next()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="Authorization Required"`)
			response.Abort(c, customerrors.ErrUnauthorized)
			return
		}

		usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
		passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1

		if !usernameMatch || !passwordMatch {
			c.Header("WWW-Authenticate", `Basic realm="Authorization Required"`)
			response.Abort(c, customerrors.ErrInvalidCredentials)
			return
		}

		c.Next()
	}
}
