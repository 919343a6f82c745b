package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "nutripae-rh/pkg/errors"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

// StatusForKind is the single place where error kinds become HTTP status codes.
// InvalidState keeps answering 404 because existing clients of the availability
// endpoints rely on it.
func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound, apperrors.KindInvalidState:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindInvalidArgument:
		return http.StatusBadRequest
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.KindInternalAuthorization, apperrors.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Warn("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		var validationErrors validator.ValidationErrors
		if errors.As(httpErr.Err, &validationErrors) {
			return c.JSON(http.StatusBadRequest, &HTTPResponse{Status: false, Message: validationMessage(validationErrors)})
		}
		return c.JSON(httpErr.Code, &HTTPResponse{Status: false, Message: httpErr.Message, Body: httpErr.Details})
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		code := StatusForKind(appErr.Kind)
		if appErr.Err != nil || code >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("kind", appErr.Kind.String()),
				zap.String("message", appErr.Message),
				zap.Error(appErr.Err),
			)
		}
		if appErr.Kind == apperrors.KindUnauthenticated {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		message := appErr.Message
		if appErr.Kind == apperrors.KindInternal {
			message = apperrors.ErrInternalServer.Message
		}
		return c.JSON(code, &HTTPResponse{Status: false, Message: message})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return c.JSON(http.StatusBadRequest, &HTTPResponse{Status: false, Message: validationMessage(validationErrors)})
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{
		Status:  false,
		Message: apperrors.ErrInternalServer.Message,
	})
}

func validationMessage(validationErrors validator.ValidationErrors) string {
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", e.Field(), e.Tag()))
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}
