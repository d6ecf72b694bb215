package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/resultdesk/internal/app/models/dto"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
	"github.com/yigit/resultdesk/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// ErrorDetailFor maps an application error to its HTTP status and body
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found")
	case errors.Is(err, apperrors.ErrFormNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeFormNotFound, "Form not found or expired")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageOr(err, "Resource not found"))

	case errors.Is(err, apperrors.ErrFormDisabled):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeFormDisabled, "Form is saving, try again when it completes").
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceConflict, messageOr(err, "Conflict"))

	case errors.Is(err, apperrors.ErrUnknownField):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeFormFieldError, err.Error())
	case errors.Is(err, apperrors.ErrReadOnlyField):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeFormFieldError, "Grade is derived from marks and cannot be edited").
			WithField("grade")
	case errors.Is(err, apperrors.ErrUnknownSection):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeFormFieldError, "Section must be one of 3CA, 3CB, 3CC").
			WithField("section")
	case errors.Is(err, apperrors.ErrInvalidStudentID):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Student ID must be a positive number")
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, messageOr(err, "Bad request"))

	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		if details := apperrors.DetailsOf(err); len(details) > 0 {
			detail = detail.WithDetails(details)
		}
		return http.StatusUnprocessableEntity, detail

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func messageOr(err error, fallback string) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
