package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/verdantio/carbonledger/internal/clock"
	metricdomain "github.com/verdantio/carbonledger/internal/metric/domain"
	"github.com/verdantio/carbonledger/internal/observability/metrics"
	"github.com/verdantio/carbonledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    metricdomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    metricdomain.Repository
	metrics *metrics.Metrics
}

func New(p Params) metricdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("metric.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req metricdomain.CreateRequest) (*metricdomain.Response, error) {
	name := strings.TrimSpace(req.MetricName)
	if name == "" {
		return nil, metricdomain.ErrInvalidMetricName
	}
	if req.Value < 0 {
		return nil, metricdomain.ErrInvalidValue
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		return nil, metricdomain.ErrInvalidUnit
	}

	date, err := metricdomain.ParseDate(strings.TrimSpace(req.MetricDate))
	if err != nil {
		return nil, err
	}
	if date.After(today(s.clock)) {
		return nil, metricdomain.ErrFutureDate
	}

	now := time.Now().UTC()
	metric := &metricdomain.BusinessMetric{
		ID:             s.genID.Generate(),
		MetricName:     name,
		MetricCategory: strings.TrimSpace(req.MetricCategory),
		Value:          req.Value,
		Unit:           unit,
		MetricDate:     date,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, metric); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, metricdomain.ErrDuplicate
		}
		return nil, err
	}

	s.metrics.RecordMetricIngest(ctx, name)
	s.log.Info("business metric recorded",
		zap.String("metric_name", name),
		zap.String("metric_date", metricdomain.FormatDate(date)),
	)

	return toResponse(metric), nil
}

func (s *Service) ListNames(ctx context.Context) ([]metricdomain.MetricName, error) {
	return s.repo.DistinctNames(ctx, s.db)
}

func today(c clock.Clock) time.Time {
	now := c.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func toResponse(m *metricdomain.BusinessMetric) *metricdomain.Response {
	return &metricdomain.Response{
		ID:             m.ID.String(),
		MetricName:     m.MetricName,
		MetricCategory: m.MetricCategory,
		Value:          m.Value,
		Unit:           m.Unit,
		MetricDate:     metricdomain.FormatDate(m.MetricDate),
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
	}
}
