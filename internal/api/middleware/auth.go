package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
	"github.com/fitexperts/experts-api/internal/pkg/metrics"
)

const (
	identityKey = "identity"

	ReasonNoToken      = "no_token"
	ReasonInvalidToken = "invalid_token"
)

var tracer = otel.Tracer("experts-api/middleware")

// rejection is the 401 body. Reason is machine-readable.
type rejection struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Reason  string `json:"reason"`
}

// AuthGuard resolves "Authorization: Bearer <token>" to an identity and
// stores it on the context. Anything else ends the request with 401.
func AuthGuard(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), "AuthGuard")
			defer span.End()

			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				span.SetStatus(codes.Error, ReasonNoToken)
				return reject(c, ReasonNoToken, "not authorized, no token")
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, ReasonInvalidToken)
				msg := "not authorized, invalid token"
				if errors.Is(err, domain.ErrExpiredToken) {
					msg = "not authorized, token expired"
				}
				return reject(c, ReasonInvalidToken, msg)
			}

			span.SetAttributes(attribute.String("identity.id", subject))
			c.Set(identityKey, domain.Identity{ID: subject})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by AuthGuard.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok && id.ID != ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(c echo.Context, reason, msg string) error {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	return c.JSON(http.StatusUnauthorized, rejection{Success: false, Error: msg, Reason: reason})
}
