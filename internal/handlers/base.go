package handlers

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/response"
)

// baseHandler carries the logging helpers shared by every handler
type baseHandler struct {
	log *log.Logger
}

// Error response helper. Client errors are logged as warnings, the rest as errors.
func (h *baseHandler) errorResponse(c *gin.Context, message string, err error, details ...any) {
	status, code := response.FromError(err)

	keyvals := append([]any{"error", err, "code", code}, details...)
	if status >= 500 {
		h.log.Error(message, keyvals...)
	} else {
		h.log.Warn(message, keyvals...)
	}

	response.ErrorResponseWithMessage(c, status, code, err.Error())
}

// Success response helper
func (h *baseHandler) successResponse(c *gin.Context, statusCode int, data any, message string) {
	h.log.Debug(message)
	response.SuccessResponse(c, statusCode, message, data)
}

// Success response helper with the payload keys beside success
func (h *baseHandler) fieldsResponse(c *gin.Context, statusCode int, fields gin.H, message string) {
	h.log.Debug(message)
	response.Success(c, statusCode, message, fields)
}

// bindError wraps a gin binding failure as a validation error
func bindError(err error) error {
	return common.NewValidationError("body", err.Error())
}
