package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/verdantio/carbonledger/internal/clock"
	emissiondomain "github.com/verdantio/carbonledger/internal/emission/domain"
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
	Clock   clock.Clock
	Repo    emissiondomain.Repository
	Factors factordomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    emissiondomain.Repository
	factors factordomain.Repository
	metrics *metrics.Metrics
}

func New(p Params) emissiondomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("emission.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		factors: p.Factors,
		metrics: p.Metrics,
	}
}

// Create resolves the factor valid on the activity date, computes the
// CO2e amount, and persists the record bound to that factor version.
// The bound factor_id and calculated_co2e are never re-derived later.
func (s *Service) Create(ctx context.Context, req emissiondomain.CreateRequest) (*emissiondomain.Response, error) {
	name := strings.TrimSpace(req.ActivityName)
	if name == "" {
		return nil, factordomain.ErrInvalidActivityName
	}
	if !factordomain.ValidScope(req.Scope) {
		return nil, factordomain.ErrInvalidScope
	}
	if req.ActivityValue <= 0 {
		return nil, emissiondomain.ErrInvalidActivityValue
	}
	unit := strings.TrimSpace(req.ActivityUnit)
	if unit == "" {
		return nil, factordomain.ErrInvalidUnit
	}

	date, err := factordomain.ParseDate(strings.TrimSpace(req.ActivityDate))
	if err != nil {
		return nil, err
	}
	if date.After(today(s.clock)) {
		return nil, emissiondomain.ErrFutureDate
	}

	factor, err := s.factors.FindValid(ctx, s.db, name, req.Scope, date)
	if err != nil {
		return nil, err
	}
	if factor == nil {
		return nil, factordomain.ErrNotFound
	}

	// Exact unit equality; no unit conversion is attempted.
	if unit != factor.ActivityUnit {
		return nil, emissiondomain.ErrUnitMismatch
	}

	co2e, err := emissiondomain.Calculate(req.ActivityValue, factor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &emissiondomain.EmissionRecord{
		ID:             s.genID.Generate(),
		FactorID:       factor.ID,
		ActivityName:   name,
		ActivityValue:  req.ActivityValue,
		ActivityUnit:   unit,
		Scope:          factor.Scope,
		ActivityDate:   date,
		CalculatedCO2e: co2e,
		Location:       strings.TrimSpace(req.Location),
		Department:     strings.TrimSpace(req.Department),
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, rec); err != nil {
		return nil, err
	}

	s.metrics.RecordEmissionCreated(ctx, scopeLabel(rec.Scope))
	s.log.Info("emission record created",
		zap.String("record_id", rec.ID.String()),
		zap.String("factor_id", factor.ID.String()),
		zap.String("activity_name", name),
		zap.Int("scope", rec.Scope),
	)

	return toResponse(rec), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*emissiondomain.Response, error) {
	recordID, err := emissiondomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, emissiondomain.ErrInvalidID
	}

	rec, err := s.repo.FindByID(ctx, s.db, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, emissiondomain.ErrNotFound
	}
	return toResponse(rec), nil
}

// Override sets the manual correction that supersedes calculated_co2e in
// every aggregation. The calculated amount itself is left untouched.
func (s *Service) Override(ctx context.Context, req emissiondomain.OverrideRequest) (*emissiondomain.Response, error) {
	recordID, err := emissiondomain.ParseID(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, emissiondomain.ErrInvalidID
	}
	if req.OverriddenCO2e < 0 {
		return nil, emissiondomain.ErrInvalidOverride
	}

	rec, err := s.repo.FindByID(ctx, s.db, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, emissiondomain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := s.repo.SetOverride(ctx, s.db, recordID, req.OverriddenCO2e, now); err != nil {
		return nil, err
	}

	override := req.OverriddenCO2e
	rec.OverriddenCO2e = &override
	rec.UpdatedAt = now

	s.log.Info("emission record overridden",
		zap.String("record_id", rec.ID.String()),
		zap.Float64("overridden_co2e", override),
	)

	return toResponse(rec), nil
}

func today(c clock.Clock) time.Time {
	now := c.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func toResponse(rec *emissiondomain.EmissionRecord) *emissiondomain.Response {
	return &emissiondomain.Response{
		ID:             rec.ID.String(),
		FactorID:       rec.FactorID.String(),
		ActivityName:   rec.ActivityName,
		ActivityValue:  rec.ActivityValue,
		ActivityUnit:   rec.ActivityUnit,
		Scope:          rec.Scope,
		ActivityDate:   rec.ActivityDate.Format(factordomain.DateLayout),
		CalculatedCO2e: rec.CalculatedCO2e,
		OverriddenCO2e: rec.OverriddenCO2e,
		EffectiveCO2e:  rec.EffectiveCO2e(),
		Location:       rec.Location,
		Department:     rec.Department,
		Notes:          rec.Notes,
		CreatedAt:      rec.CreatedAt,
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
