package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	analyticsdomain "github.com/verdantio/carbonledger/internal/analytics/domain"
	emissiondomain "github.com/verdantio/carbonledger/internal/emission/domain"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	metricdomain "github.com/verdantio/carbonledger/internal/metric/domain"
	"gorm.io/gorm"
)

func TestMapErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"validation sentinel", emissiondomain.ErrFutureDate, http.StatusBadRequest, "validation_error"},
		{"wrapped sentinel", newValidationError("scope", "invalid_scope", "scope must be 1, 2 or 3"), http.StatusBadRequest, "validation_error"},
		{"factor not found", factordomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"record not found", emissiondomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"metric duplicate", metricdomain.ErrDuplicate, http.StatusConflict, "conflict"},
		{"no production data", analyticsdomain.ErrNoProductionData, http.StatusUnprocessableEntity, "no_production_data"},
		{"zero production", analyticsdomain.ErrZeroProduction, http.StatusUnprocessableEntity, "no_production_data"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.typ, payload.Type)
		})
	}
}

func TestMapErrorValidationCarriesField(t *testing.T) {
	status, payload := mapError(metricdomain.ErrInvalidMetricName)
	require.Equal(t, http.StatusBadRequest, status)
	require.Len(t, payload.Errors, 1)
	require.Equal(t, "metric_name", payload.Errors[0].Field)
}

func TestErrorHandlingMiddlewareWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	r.GET("/boom", func(c *gin.Context) {
		AbortWithError(c, factordomain.ErrNotFound)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":{"type":"not_found","message":"no emission factor valid for the given activity, scope and date"}}`, w.Body.String())
}
