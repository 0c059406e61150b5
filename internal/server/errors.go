package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/salesops/internal/authorization"
	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
	salesdomain "github.com/smallbiznis/salesops/internal/sales/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	// A sale that cannot be calculated is well formed but unprocessable.
	if errors.Is(err, commissiondomain.ErrInvalidInput) {
		code := inputErrorCode(err)
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "invalid_sale",
			Message: "sale cannot be calculated",
			Errors: []ValidationError{
				{
					Field:   inputErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "actor role is required",
		}
	case errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog returns the error type and code attached to request logs.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError {
		return "internal", code
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, commissiondomain.ErrInvalidDSR),
		errors.Is(err, commissiondomain.ErrInvalidTeamLeader),
		errors.Is(err, commissiondomain.ErrInvalidManager),
		errors.Is(err, commissiondomain.ErrInvalidPeriod),
		errors.Is(err, salesdomain.ErrInvalidID),
		errors.Is(err, salesdomain.ErrInvalidFlag),
		errors.Is(err, salesdomain.ErrInvalidPaymentStatus):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, commissiondomain.ErrNotFound),
		errors.Is(err, salesdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, commissiondomain.ErrInvalidDSR):
		return commissiondomain.ErrInvalidDSR.Error()
	case errors.Is(err, commissiondomain.ErrInvalidTeamLeader):
		return commissiondomain.ErrInvalidTeamLeader.Error()
	case errors.Is(err, commissiondomain.ErrInvalidManager):
		return commissiondomain.ErrInvalidManager.Error()
	case errors.Is(err, commissiondomain.ErrInvalidPeriod):
		return commissiondomain.ErrInvalidPeriod.Error()
	case errors.Is(err, salesdomain.ErrInvalidID):
		return salesdomain.ErrInvalidID.Error()
	case errors.Is(err, salesdomain.ErrInvalidFlag):
		return salesdomain.ErrInvalidFlag.Error()
	case errors.Is(err, salesdomain.ErrInvalidPaymentStatus):
		return salesdomain.ErrInvalidPaymentStatus.Error()
	default:
		return "invalid_request"
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func inputErrorCode(err error) string {
	switch {
	case errors.Is(err, commissiondomain.ErrDVSRequiresPackage):
		return "dvs_requires_package"
	case errors.Is(err, commissiondomain.ErrUnknownProductType):
		return "unknown_product_type"
	default:
		return commissiondomain.ErrInvalidInput.Error()
	}
}

func inputErrorField(code string) string {
	switch code {
	case "dvs_requires_package":
		return "package_code"
	case "unknown_product_type":
		return "product_type"
	default:
		return "sale"
	}
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "invalid_period":
		return "period must be formatted as YYYY-MM"
	case "dvs_requires_package":
		return "DVS sales require a package"
	case "unknown_product_type":
		return "unknown product type"
	default:
		return "invalid value"
	}
}
