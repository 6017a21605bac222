package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/verdantio/carbonledger/internal/clock"
	emissiondomain "github.com/verdantio/carbonledger/internal/emission/domain"
	"github.com/verdantio/carbonledger/internal/emission/repository"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	factorrepository "github.com/verdantio/carbonledger/internal/factor/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     emissiondomain.Service
	factors factordomain.Repository
	clock   *clock.FakeClock
	node    *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&factordomain.EmissionFactor{},
		&emissiondomain.EmissionRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
	factors := factorrepository.Provide()

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fakeClock,
		Repo:    repository.Provide(),
		Factors: factors,
	})

	return &fixture{db: db, svc: svc, factors: factors, clock: fakeClock, node: node}
}

func (f *fixture) seedFactor(t *testing.T, name string, scope int, rate float64, unit, validFrom, validTo string) *factordomain.EmissionFactor {
	t.Helper()

	from, err := factordomain.ParseDate(validFrom)
	require.NoError(t, err)

	var to *time.Time
	if validTo != "" {
		parsed, err := factordomain.ParseDate(validTo)
		require.NoError(t, err)
		to = &parsed
	}

	now := time.Now().UTC()
	factor := &factordomain.EmissionFactor{
		ID:           f.node.Generate(),
		ActivityName: name,
		Scope:        scope,
		CO2ePerUnit:  rate,
		ActivityUnit: unit,
		ValidFrom:    from,
		ValidTo:      to,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.factors.Insert(context.Background(), f.db, factor))
	return factor
}

func TestCreateBindsFactorValidOnActivityDate(t *testing.T) {
	f := newFixture(t)
	f2023 := f.seedFactor(t, "Diesel", 1, 2.71, "litre", "2023-01-01", "2023-12-31")
	f2024 := f.seedFactor(t, "Diesel", 1, 2.73, "litre", "2024-01-01", "")

	rec2023, err := f.svc.Create(context.Background(), emissiondomain.CreateRequest{
		ActivityName: "Diesel", ActivityValue: 1000, ActivityUnit: "litre",
		Scope: 1, ActivityDate: "2023-06-15",
	})
	require.NoError(t, err)
	require.InDelta(t, 2710.0, rec2023.CalculatedCO2e, 1e-9)
	require.Equal(t, f2023.ID.String(), rec2023.FactorID)
	require.Equal(t, 1, rec2023.Scope)

	rec2024, err := f.svc.Create(context.Background(), emissiondomain.CreateRequest{
		ActivityName: "Diesel", ActivityValue: 1000, ActivityUnit: "litre",
		Scope: 1, ActivityDate: "2024-06-15",
	})
	require.NoError(t, err)
	require.InDelta(t, 2730.0, rec2024.CalculatedCO2e, 1e-9)
	require.Equal(t, f2024.ID.String(), rec2024.FactorID)
}

func TestCreateHistoricalRecordUnchangedByNewFactorVersion(t *testing.T) {
	f := newFixture(t)
	f.seedFactor(t, "Diesel", 1, 2.71, "litre", "2023-01-01", "")

	rec, err := f.svc.Create(context.Background(), emissiondomain.CreateRequest{
		ActivityName: "Diesel", ActivityValue: 100, ActivityUnit: "litre",
		Scope: 1, ActivityDate: "2023-06-15",
	})
	require.NoError(t, err)
	require.InDelta(t, 271.0, rec.CalculatedCO2e, 1e-9)

	// A newer version is appended afterwards; the stored record keeps
	// its original factor and amount.
	f.seedFactor(t, "Diesel", 1, 9.99, "litre", "2023-06-01", "")

	got, err := f.svc.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	require.InDelta(t, 271.0, got.CalculatedCO2e, 1e-9)
	require.Equal(t, rec.FactorID, got.FactorID)
}

func TestCreateRejectsFutureDate(t *testing.T) {
	f := newFixture(t)
	f.seedFactor(t, "Diesel", 1, 2.71, "litre", "2023-01-01", "")

	_, err := f.svc.Create(context.Background(), emissiondomain.CreateRequest{
		ActivityName: "Diesel", ActivityValue: 100, ActivityUnit: "litre",
		Scope: 1, ActivityDate: "2024-08-01",
	})
	require.ErrorIs(t, err, emissiondomain.ErrFutureDate)

	// The clock's own day is not "future".
	_, err = f.svc.Create(context.Background(), emissiondomain.CreateRequest{
		ActivityName: "Diesel", ActivityValue: 100, ActivityUnit: "litre",
		Scope: 1, ActivityDate: "2024-07-01",
	})
	require.NoError(t, err)
}

func TestCreateRejectsUnitMismatch(t *testing.T) {
	f := newFixture(t)
	f.seedFactor(t, "Diesel", 1, 2.71, "litre", "2023-01-01", "")

	_, err := f.svc.Create(context.Background(), emissiondomain.CreateRequest{
		ActivityName: "Diesel", ActivityValue: 100, ActivityUnit: "gallon",
		Scope: 1, ActivityDate: "2023-06-15",
	})
	require.ErrorIs(t, err, emissiondomain.ErrUnitMismatch)
}

func TestCreateRejectsMissingFactor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), emissiondomain.CreateRequest{
		ActivityName: "Diesel", ActivityValue: 100, ActivityUnit: "litre",
		Scope: 1, ActivityDate: "2023-06-15",
	})
	require.ErrorIs(t, err, factordomain.ErrNotFound)
}

func TestCreateRejectsNonPositiveValue(t *testing.T) {
	f := newFixture(t)
	f.seedFactor(t, "Diesel", 1, 2.71, "litre", "2023-01-01", "")

	for _, value := range []float64{0, -5} {
		_, err := f.svc.Create(context.Background(), emissiondomain.CreateRequest{
			ActivityName: "Diesel", ActivityValue: value, ActivityUnit: "litre",
			Scope: 1, ActivityDate: "2023-06-15",
		})
		require.ErrorIs(t, err, emissiondomain.ErrInvalidActivityValue)
	}
}

func TestOverrideSupersedesCalculated(t *testing.T) {
	f := newFixture(t)
	f.seedFactor(t, "Diesel", 1, 2.71, "litre", "2023-01-01", "")

	rec, err := f.svc.Create(context.Background(), emissiondomain.CreateRequest{
		ActivityName: "Diesel", ActivityValue: 100, ActivityUnit: "litre",
		Scope: 1, ActivityDate: "2023-06-15",
	})
	require.NoError(t, err)

	overridden, err := f.svc.Override(context.Background(), emissiondomain.OverrideRequest{
		ID: rec.ID, OverriddenCO2e: 999.5,
	})
	require.NoError(t, err)
	require.InDelta(t, 271.0, overridden.CalculatedCO2e, 1e-9)
	require.NotNil(t, overridden.OverriddenCO2e)
	require.Equal(t, 999.5, *overridden.OverriddenCO2e)
	require.Equal(t, 999.5, overridden.EffectiveCO2e)

	got, err := f.svc.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Equal(t, 999.5, got.EffectiveCO2e)
}

func TestOverrideValidation(t *testing.T) {
	f := newFixture(t)
	f.seedFactor(t, "Diesel", 1, 2.71, "litre", "2023-01-01", "")

	rec, err := f.svc.Create(context.Background(), emissiondomain.CreateRequest{
		ActivityName: "Diesel", ActivityValue: 100, ActivityUnit: "litre",
		Scope: 1, ActivityDate: "2023-06-15",
	})
	require.NoError(t, err)

	_, err = f.svc.Override(context.Background(), emissiondomain.OverrideRequest{
		ID: rec.ID, OverriddenCO2e: -10,
	})
	require.ErrorIs(t, err, emissiondomain.ErrInvalidOverride)

	_, err = f.svc.Override(context.Background(), emissiondomain.OverrideRequest{
		ID: "123456789", OverriddenCO2e: 10,
	})
	require.ErrorIs(t, err, emissiondomain.ErrNotFound)
}

func TestGetByIDUnknownRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), "not-a-snowflake")
	require.ErrorIs(t, err, emissiondomain.ErrInvalidID)

	_, err = f.svc.GetByID(context.Background(), "123456789")
	require.ErrorIs(t, err, emissiondomain.ErrNotFound)
}
