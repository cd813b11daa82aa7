package server

import (
	"errors"
	"net/http"
	"strings"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/authorization"
	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	obsmiddleware "github.com/Henok-Haile/crm-dashboard/internal/observability/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
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
		if status >= http.StatusInternalServerError {
			obsmiddleware.FromContext(c.Request.Context()).Error("unhandled request error", zap.Error(lastErr.Err))
		}
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

	var fieldErr *customerdomain.ValidationError
	if errors.As(err, &fieldErr) {
		fields := make([]ValidationError, 0, len(fieldErr.Fields))
		for _, f := range fieldErr.Fields {
			fields = append(fields, ValidationError{Field: f.Field, Code: f.Code, Message: f.Message})
		}
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: fieldErr.Error(),
			Errors:  fields,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		field := validationErrorField(code)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: validationErrorMessage(err, code),
			Errors: []ValidationError{
				{
					Field:   field,
					Code:    code,
					Message: validationErrorMessage(err, code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: authdomain.ErrInvalidCredentials.Error(),
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked),
		errors.Is(err, authorization.ErrInvalidActor),
		errors.Is(err, dashboard.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
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

// classifyErrorForLog reports the payload type and code written to the request log.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError {
		code = "internal_error"
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
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrWeakPassword),
		errors.Is(err, dashboard.ErrInvalidDate):
		return true
	case isCustomerValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, authdomain.ErrInvalidEmail):
		return "invalid_email"
	case errors.Is(err, authdomain.ErrWeakPassword):
		return "invalid_password"
	case errors.Is(err, dashboard.ErrInvalidDate):
		return "invalid_time"
	case isCustomerValidationError(err):
		return customerSentinel(err).Error()
	default:
		return err.Error()
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

func validationErrorMessage(err error, code string) string {
	switch {
	case code == "invalid_request":
		return "invalid request"
	case errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrWeakPassword):
		return err.Error()
	default:
		return "invalid value"
	}
}

func conflictMessage(err error) string {
	if errors.Is(err, authdomain.ErrUserExists) {
		return authdomain.ErrUserExists.Error()
	}
	return "conflict"
}

var customerValidationErrors = []error{
	customerdomain.ErrInvalidOwner,
	customerdomain.ErrInvalidName,
	customerdomain.ErrInvalidEmail,
	customerdomain.ErrInvalidPhone,
	customerdomain.ErrInvalidNotes,
	customerdomain.ErrInvalidID,
	customerdomain.ErrInvalidSort,
}

func isCustomerValidationError(err error) bool {
	return customerSentinel(err) != nil
}

func customerSentinel(err error) error {
	for _, sentinel := range customerValidationErrors {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

var authMessages = []error{
	authdomain.ErrInvalidCredentials,
	authdomain.ErrInvalidEmail,
	authdomain.ErrWeakPassword,
	authdomain.ErrUserExists,
}

// userMessage is the text shown to a person for err on the web pages.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	var fieldErr *customerdomain.ValidationError
	if errors.As(err, &fieldErr) {
		return fieldErr.Error()
	}
	for _, sentinel := range authMessages {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "something went wrong, please try again"
	}
	return payload.Message
}
