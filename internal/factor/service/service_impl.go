package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	"github.com/verdantio/carbonledger/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    factordomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    factordomain.Repository
	genID   *snowflake.Node
	metrics *metrics.Metrics
}

func New(p Params) factordomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("factor.service"),
		repo:    p.Repo,
		genID:   p.GenID,
		metrics: p.Metrics,
	}
}

func (s *Service) Resolve(ctx context.Context, req factordomain.ResolveRequest) (*factordomain.Response, error) {
	name := strings.TrimSpace(req.ActivityName)
	if name == "" {
		return nil, factordomain.ErrInvalidActivityName
	}
	if !factordomain.ValidScope(req.Scope) {
		return nil, factordomain.ErrInvalidScope
	}
	date, err := factordomain.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, err
	}

	factor, err := s.repo.FindValid(ctx, s.db, name, req.Scope, date)
	if err != nil {
		return nil, err
	}
	if factor == nil {
		s.metrics.RecordFactorResolution(ctx, scopeLabel(req.Scope), "not_found")
		return nil, factordomain.ErrNotFound
	}

	s.metrics.RecordFactorResolution(ctx, scopeLabel(req.Scope), "resolved")
	return toResponse(factor), nil
}

func (s *Service) Create(ctx context.Context, req factordomain.CreateRequest) (*factordomain.Response, error) {
	name := strings.TrimSpace(req.ActivityName)
	if name == "" {
		return nil, factordomain.ErrInvalidActivityName
	}
	if !factordomain.ValidScope(req.Scope) {
		return nil, factordomain.ErrInvalidScope
	}
	if req.CO2ePerUnit < 0 {
		return nil, factordomain.ErrInvalidRate
	}
	unit := strings.TrimSpace(req.ActivityUnit)
	if unit == "" {
		return nil, factordomain.ErrInvalidUnit
	}

	validFrom, err := factordomain.ParseDate(strings.TrimSpace(req.ValidFrom))
	if err != nil {
		return nil, err
	}

	var validTo *time.Time
	if req.ValidTo != nil && strings.TrimSpace(*req.ValidTo) != "" {
		parsed, err := factordomain.ParseDate(strings.TrimSpace(*req.ValidTo))
		if err != nil {
			return nil, err
		}
		if parsed.Before(validFrom) {
			return nil, factordomain.ErrInvalidValidity
		}
		validTo = &parsed
	}

	now := time.Now().UTC()
	factor := &factordomain.EmissionFactor{
		ID:           s.genID.Generate(),
		ActivityName: name,
		Scope:        req.Scope,
		CO2ePerUnit:  req.CO2ePerUnit,
		ActivityUnit: unit,
		Source:       strings.TrimSpace(req.Source),
		ValidFrom:    validFrom,
		ValidTo:      validTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, factor); err != nil {
		return nil, err
	}

	s.log.Info("emission factor created",
		zap.String("activity_name", name),
		zap.Int("scope", req.Scope),
		zap.String("valid_from", validFrom.Format(factordomain.DateLayout)),
	)

	return toResponse(factor), nil
}

func (s *Service) List(ctx context.Context, req factordomain.ListRequest) ([]factordomain.Response, error) {
	if req.Scope != 0 && !factordomain.ValidScope(req.Scope) {
		return nil, factordomain.ErrInvalidScope
	}

	factors, err := s.repo.List(ctx, s.db, factordomain.ListFilter{
		ActivityName: strings.TrimSpace(req.ActivityName),
		Scope:        req.Scope,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]factordomain.Response, 0, len(factors))
	for i := range factors {
		resp = append(resp, *toResponse(&factors[i]))
	}
	return resp, nil
}

func toResponse(f *factordomain.EmissionFactor) *factordomain.Response {
	var validTo *string
	if f.ValidTo != nil {
		s := f.ValidTo.Format(factordomain.DateLayout)
		validTo = &s
	}
	return &factordomain.Response{
		ID:           f.ID.String(),
		ActivityName: f.ActivityName,
		Scope:        f.Scope,
		CO2ePerUnit:  f.CO2ePerUnit,
		ActivityUnit: f.ActivityUnit,
		Source:       f.Source,
		ValidFrom:    f.ValidFrom.Format(factordomain.DateLayout),
		ValidTo:      validTo,
		CreatedAt:    f.CreatedAt,
	}
}

func scopeLabel(scope int) string {
	switch scope {
	case 1:
		return "scope1"
	case 2:
		return "scope2"
	case 3:
		return "scope3"
	default:
		return "unknown"
	}
}
