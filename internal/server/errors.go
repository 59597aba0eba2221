package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	admindomain "github.com/offerdesk/offerdesk/internal/admin/domain"
	authdomain "github.com/offerdesk/offerdesk/internal/auth/domain"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	customerdomain "github.com/offerdesk/offerdesk/internal/customer/domain"
	offerdomain "github.com/offerdesk/offerdesk/internal/offer/domain"
	productdomain "github.com/offerdesk/offerdesk/internal/product/domain"
	userdomain "github.com/offerdesk/offerdesk/internal/user/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

// ErrorHandlingMiddleware turns the last error a handler attached into the
// JSON error envelope. Handlers that already wrote a body are left alone.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, admindomain.ErrForbidden),
		errors.Is(err, authdomain.ErrUserInactive):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, companydomain.ErrQuotaExceeded),
		errors.Is(err, companydomain.ErrSubscriptionExpired):
		return http.StatusPaymentRequired, errorPayload{
			Type:    "plan_limit",
			Message: err.Error(),
		}
	case errors.Is(err, userdomain.ErrEmailTaken),
		errors.Is(err, productdomain.ErrDuplicateName):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, offerdomain.ErrTokenExpired):
		return http.StatusGone, errorPayload{
			Type:    "link_expired",
			Message: "link expired",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isDependencyError(err):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "dependency_failure",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidInput),
		errors.Is(err, companydomain.ErrInvalidInput),
		errors.Is(err, companydomain.ErrInvalidPlan),
		errors.Is(err, customerdomain.ErrInvalidInput),
		errors.Is(err, productdomain.ErrInvalidInput),
		errors.Is(err, userdomain.ErrInvalidInput),
		errors.Is(err, offerdomain.ErrInvalidInput):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, companydomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, offerdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isDependencyError(err error) bool {
	switch {
	case errors.Is(err, offerdomain.ErrSendFailed),
		errors.Is(err, offerdomain.ErrRenderFailed),
		errors.Is(err, offerdomain.ErrSweepFailed),
		errors.Is(err, companydomain.ErrLogoWriteFailed):
		return true
	default:
		return false
	}
}
