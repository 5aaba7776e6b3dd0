package handlers

import (
	"net/http"
	"strconv"

	"garage_manager/internal/apperr"
	"garage_manager/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const msgBadRequest = "Dữ liệu không hợp lệ"

type responder struct {
	log zerolog.Logger
}

func (r responder) ok(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail writes the error envelope. Internal errors are logged with their stack
// and answered with a generic message.
func (r responder) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		r.log.Error().Stack().Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(kind), gin.H{
		"error": apperr.Message(err),
		"code":  string(kind),
	})
}

// bind decodes the JSON body and answers 400 on failure.
func (r responder) bind(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		r.fail(c, apperr.Validation(msgBadRequest))
		return false
	}
	return true
}

// idParam parses a positive numeric path parameter.
func (r responder) idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		r.fail(c, apperr.Validation("ID không hợp lệ"))
		return 0, false
	}
	return uint(id), true
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
