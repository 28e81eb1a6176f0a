package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/pkg/metrics"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Stack   string `json:"stack,omitempty"`
}

// NewHTTPErrorHandler maps domain errors to status codes and renders
// {"success": false, "error": "..."}. Unexpected errors are logged and, unless
// production is set, carry the wrapped chain under "stack".
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		resp := errorResponse{Success: false, Error: msg}

		if code == http.StatusInternalServerError {
			log.Error().
				Stack().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
			if !production {
				resp.Stack = fmt.Sprintf("%+v", err)
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error) (int, string) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNoToken):
		return http.StatusUnauthorized, "not authorized, no token"
	case errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, "not authorized, token expired"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "not authorized, invalid token"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, domain.ErrNotOwner):
		metrics.OwnershipDenialsTotal.Inc()
		return http.StatusForbidden, "not_owner"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrProgramNotFound):
		return http.StatusNotFound, "program not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, "only image uploads are allowed"
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "file too large"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "image upload failed"
	}

	return http.StatusInternalServerError, "internal server error"
}
