package middleware

import (
	"garage_manager/internal/apperr"

	"github.com/gin-gonic/gin"
)

// abort stops the chain with the same error envelope the handlers use.
func abort(c *gin.Context, kind apperr.Kind, message string) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(kind), gin.H{
		"error": message,
		"code":  string(kind),
	})
}
