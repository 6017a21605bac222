package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	metricdomain "github.com/verdantio/carbonledger/internal/metric/domain"
	"go.uber.org/zap"
)

type createMetricRequest struct {
	MetricName     string  `json:"metric_name"`
	MetricCategory string  `json:"metric_category"`
	Value          float64 `json:"value"`
	Unit           string  `json:"unit"`
	MetricDate     string  `json:"metric_date"`
	Notes          string  `json:"notes"`
}

func (s *Server) CreateBusinessMetric(c *gin.Context) {
	var req createMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	name := strings.TrimSpace(req.MetricName)
	date := strings.TrimSpace(req.MetricDate)

	// Serialize same-row submissions so concurrent duplicates surface
	// as a clean conflict instead of racing the unique index.
	if s.limiter.Enabled() && name != "" && date != "" {
		token, ok, err := s.limiter.TryLockMetric(ctx, name, date)
		if err != nil {
			s.log.Warn("metric lock unavailable", zap.Error(err))
		} else if !ok {
			AbortWithError(c, metricdomain.ErrDuplicate)
			return
		} else {
			defer func() {
				if err := s.limiter.ReleaseMetric(ctx, name, date, token); err != nil {
					s.log.Warn("metric lock release failed", zap.Error(err))
				}
			}()
		}
	}

	resp, err := s.metricSvc.Create(ctx, metricdomain.CreateRequest{
		MetricName:     name,
		MetricCategory: strings.TrimSpace(req.MetricCategory),
		Value:          req.Value,
		Unit:           strings.TrimSpace(req.Unit),
		MetricDate:     date,
		Notes:          strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListMetricNames(c *gin.Context) {
	names, err := s.metricSvc.ListNames(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": names})
}
