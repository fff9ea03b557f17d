package api

import (
	"errors"
	"net/http"

	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var statusByCode = map[string]int{
	apperrors.ErrCodeInvalidRequest:      http.StatusBadRequest,
	apperrors.ErrCodeEdgeNotFound:        http.StatusNotFound,
	apperrors.ErrCodeConstraintViolation: http.StatusUnprocessableEntity,
	apperrors.ErrCodeNotFound:            http.StatusNotFound,
	apperrors.ErrCodeUnauthorized:        http.StatusUnauthorized,
	apperrors.ErrCodeForbidden:           http.StatusForbidden,
	apperrors.ErrCodeInternalError:       http.StatusInternalServerError,
	apperrors.ErrCodeRateLimitExceeded:   http.StatusTooManyRequests,
}

// StatusFor переводит код ошибки в HTTP-статус
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, apperrors.ErrCodeInternalError, "internal server error")
	}

	status := StatusFor(appErr.Code)
	resp := errorResponse{
		Error:   appErr.Code,
		Message: appErr.Message,
		Fields:  appErr.Fields,
	}

	// подробности внутренних ошибок только в лог
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		resp.Message = "internal server error"
	}

	c.AbortWithStatusJSON(status, resp)
}

func badRequest(message string) error {
	return apperrors.New(apperrors.ErrCodeInvalidRequest, message)
}
