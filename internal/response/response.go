package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/votacion-api/internal/domain/common"
)

// Response representa la estructura estándar de respuesta de la API
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail"`
	Code    string `json:"code"`
}

// Error codes returned in ErrorResponse.Code
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeAlreadyVoted      = "ALREADY_VOTED"
	CodeEmailAlreadyUsed  = "EMAIL_ALREADY_USED"
	CodeCandidateNotFound = "CANDIDATE_NOT_FOUND"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicateNumber   = "DUPLICATE_BALLOT_NUMBER"
	CodeVoteInProgress    = "VOTE_IN_PROGRESS"
	CodeNotEligible       = "NOT_ELIGIBLE"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
	CodeInternal          = "INTERNAL_ERROR"
)

// classification maps sentinel errors to status and code, checked in order
var classification = []struct {
	err    error
	status int
	code   string
}{
	{common.ErrAlreadyVoted, http.StatusBadRequest, CodeAlreadyVoted},
	{common.ErrEmailAlreadyUsed, http.StatusBadRequest, CodeEmailAlreadyUsed},
	{common.ErrCandidateNotFound, http.StatusBadRequest, CodeCandidateNotFound},
	{common.ErrDuplicateBallotNumber, http.StatusBadRequest, CodeDuplicateNumber},
	{common.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{common.ErrVoteInProgress, http.StatusConflict, CodeVoteInProgress},
	{common.ErrNotEligible, http.StatusForbidden, CodeNotEligible},
	{common.ErrStoreUnavailable, http.StatusInternalServerError, CodeStoreUnavailable},
}

// FromError returns the HTTP status and error code for err
func FromError(err error) (int, string) {
	if common.IsValidation(err) {
		return http.StatusBadRequest, CodeValidation
	}
	for _, cl := range classification {
		if errors.Is(err, cl.err) {
			return cl.status, cl.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// SuccessResponse envía una respuesta exitosa
func SuccessResponse(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Success envía {success, mensaje, ...payload} con las claves del payload al
// nivel superior. La clave success del payload se ignora.
func Success(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["mensaje"] = message
	}
	for k, v := range payload {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	c.JSON(status, body)
}

// ErrorResponseWithMessage envía una respuesta de error con mensaje personalizado
func ErrorResponseWithMessage(c *gin.Context, status int, code, detail string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Detail:  detail,
		Code:    code,
	})
}

// FromErrorResponse envía el error clasificado con su mensaje
func FromErrorResponse(c *gin.Context, err error) {
	status, code := FromError(err)
	ErrorResponseWithMessage(c, status, code, err.Error())
}

// BadRequestError envía un error 400
func BadRequestError(c *gin.Context, detail string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, CodeValidation, detail)
}

// NotFoundError envía un error 404
func NotFoundError(c *gin.Context, detail string) {
	ErrorResponseWithMessage(c, http.StatusNotFound, CodeNotFound, detail)
}

// InternalServerError envía un error 500
func InternalServerError(c *gin.Context, detail string) {
	ErrorResponseWithMessage(c, http.StatusInternalServerError, CodeInternal, detail)
}
