package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Error types
const (
	ErrorTypeValidation = "https://sunduq.app/errors/validation"
	ErrorTypeNotFound   = "https://sunduq.app/errors/not-found"
	ErrorTypeConflict   = "https://sunduq.app/errors/conflict"
	ErrorTypeInternal   = "https://sunduq.app/errors/internal"
)

// NewBadRequestError creates a malformed-input error response
func NewBadRequestError(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Bad Request",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response for invariant violations
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// ValidationFailedResponse carries the structured validation result back to
// the caller when a mutation was blocked
type ValidationFailedResponse struct {
	Message    string                  `json:"message"`
	Validation domain.ValidationResult `json:"validation"`
}

// NewValidationFailed returns 422 with the full validation result so the
// caller can show errors, warnings and the override path
func NewValidationFailed(c echo.Context, result domain.ValidationResult) error {
	return c.JSON(http.StatusUnprocessableEntity, ValidationFailedResponse{
		Message:    "validation failed",
		Validation: result,
	})
}

// parseIDParam parses a positive int32 path parameter
func parseIDParam(c echo.Context, name string) (int32, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return int32(id), nil
}

// parseQueryID parses a positive int32 query parameter value
func parseQueryID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return int32(id), nil
}

// parseDate parses a YYYY-MM-DD date string
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// parseAmount parses a positive-or-zero decimal carried as a JSON string
func parseAmount(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(value)
}
