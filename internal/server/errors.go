package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/verdantio/carbonledger/internal/analytics/domain"
	emissiondomain "github.com/verdantio/carbonledger/internal/emission/domain"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	metricdomain "github.com/verdantio/carbonledger/internal/metric/domain"
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
	ErrRateLimited = errors.New("rate_limited")
	ErrInternal    = errors.New("internal_error")
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

// validationSentinels maps domain validation errors to the request
// field they reject. Anything listed here is a 400.
var validationSentinels = map[error]string{
	factordomain.ErrInvalidActivityName: "activity_name",
	factordomain.ErrInvalidScope:        "scope",
	factordomain.ErrInvalidDate:         "date",
	factordomain.ErrInvalidRate:         "co2e_per_unit",
	factordomain.ErrInvalidUnit:         "activity_unit",
	factordomain.ErrInvalidValidity:     "valid_to",

	emissiondomain.ErrInvalidActivityValue: "activity_value",
	emissiondomain.ErrInvalidFactorRate:    "co2e_per_unit",
	emissiondomain.ErrFutureDate:           "activity_date",
	emissiondomain.ErrUnitMismatch:         "activity_unit",
	emissiondomain.ErrInvalidID:            "id",
	emissiondomain.ErrInvalidOverride:      "overridden_co2e",

	metricdomain.ErrInvalidMetricName: "metric_name",
	metricdomain.ErrInvalidValue:      "value",
	metricdomain.ErrInvalidUnit:       "unit",
	metricdomain.ErrInvalidDate:       "metric_date",
	metricdomain.ErrFutureDate:        "metric_date",

	analyticsdomain.ErrInvalidYear:       "year",
	analyticsdomain.ErrInvalidYearOrder:  "previous_year",
	analyticsdomain.ErrInvalidDate:       "date",
	analyticsdomain.ErrInvalidDateRange:  "end_date",
	analyticsdomain.ErrDateRangeTooWide:  "end_date",
	analyticsdomain.ErrInvalidMetricName: "metric_name",
	analyticsdomain.ErrInvalidScope:      "scope",
	analyticsdomain.ErrInvalidLimit:      "limit",
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	for sentinel, field := range validationSentinels {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, errorPayload{
				Type:    "validation_error",
				Message: "validation error",
				Errors: []ValidationError{
					{
						Field:   field,
						Code:    sentinel.Error(),
						Message: sentinel.Error(),
					},
				},
			}
		}
	}

	switch {
	case errors.Is(err, factordomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "no emission factor valid for the given activity, scope and date",
		}
	case errors.Is(err, emissiondomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "resource not found",
		}
	case errors.Is(err, metricdomain.ErrDuplicate):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "a metric for this name and date already exists",
		}
	case errors.Is(err, analyticsdomain.ErrNoProductionData):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "no_production_data",
			Message: "no production data found for the given metric and period",
		}
	case errors.Is(err, analyticsdomain.ErrZeroProduction):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "no_production_data",
			Message: "zero production recorded for the given metric and period",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}
