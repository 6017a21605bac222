package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	"github.com/verdantio/carbonledger/internal/factor/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&factordomain.EmissionFactor{}))
	return db
}

func newService(t *testing.T, db *gorm.DB) factordomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func createFactor(t *testing.T, svc factordomain.Service, name string, scope int, rate float64, unit, validFrom, validTo string) *factordomain.Response {
	t.Helper()
	req := factordomain.CreateRequest{
		ActivityName: name,
		Scope:        scope,
		CO2ePerUnit:  rate,
		ActivityUnit: unit,
		Source:       "test",
		ValidFrom:    validFrom,
	}
	if validTo != "" {
		req.ValidTo = &validTo
	}
	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func TestResolvePicksVersionCoveringDate(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	createFactor(t, svc, "Diesel", 1, 2.71, "litre", "2023-01-01", "2023-12-31")
	createFactor(t, svc, "Diesel", 1, 2.73, "litre", "2024-01-01", "")

	resp, err := svc.Resolve(context.Background(), factordomain.ResolveRequest{
		ActivityName: "Diesel", Scope: 1, Date: "2023-06-15",
	})
	require.NoError(t, err)
	require.Equal(t, 2.71, resp.CO2ePerUnit)

	resp, err = svc.Resolve(context.Background(), factordomain.ResolveRequest{
		ActivityName: "Diesel", Scope: 1, Date: "2024-06-15",
	})
	require.NoError(t, err)
	require.Equal(t, 2.73, resp.CO2ePerUnit)
}

func TestResolveBoundsAreInclusive(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	createFactor(t, svc, "Diesel", 1, 2.71, "litre", "2023-01-01", "2023-12-31")

	for _, date := range []string{"2023-01-01", "2023-12-31"} {
		resp, err := svc.Resolve(context.Background(), factordomain.ResolveRequest{
			ActivityName: "Diesel", Scope: 1, Date: date,
		})
		require.NoError(t, err, date)
		require.Equal(t, 2.71, resp.CO2ePerUnit)
	}

	_, err := svc.Resolve(context.Background(), factordomain.ResolveRequest{
		ActivityName: "Diesel", Scope: 1, Date: "2022-12-31",
	})
	require.ErrorIs(t, err, factordomain.ErrNotFound)
}

func TestResolveOverlapPrefersLaterValidFrom(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	// Both windows are open-ended and cover the probe date.
	createFactor(t, svc, "Electricity", 2, 0.21, "kWh", "2023-01-01", "")
	createFactor(t, svc, "Electricity", 2, 0.19, "kWh", "2023-06-01", "")

	resp, err := svc.Resolve(context.Background(), factordomain.ResolveRequest{
		ActivityName: "Electricity", Scope: 2, Date: "2023-07-01",
	})
	require.NoError(t, err)
	require.Equal(t, 0.19, resp.CO2ePerUnit)

	// Before the newer window starts, the older version still applies.
	resp, err = svc.Resolve(context.Background(), factordomain.ResolveRequest{
		ActivityName: "Electricity", Scope: 2, Date: "2023-03-01",
	})
	require.NoError(t, err)
	require.Equal(t, 0.21, resp.CO2ePerUnit)
}

func TestResolveOverlapTieBreaksOnCreationTime(t *testing.T) {
	db := newTestDB(t)
	repo := repository.Provide()
	svc := newService(t, db)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	validFrom, err := factordomain.ParseDate("2023-01-01")
	require.NoError(t, err)

	older := &factordomain.EmissionFactor{
		ID:           node.Generate(),
		ActivityName: "Natural Gas",
		Scope:        1,
		CO2ePerUnit:  2.02,
		ActivityUnit: "m3",
		ValidFrom:    validFrom,
		CreatedAt:    time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &factordomain.EmissionFactor{
		ID:           node.Generate(),
		ActivityName: "Natural Gas",
		Scope:        1,
		CO2ePerUnit:  2.05,
		ActivityUnit: "m3",
		ValidFrom:    validFrom,
		CreatedAt:    time.Date(2023, 2, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2023, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(context.Background(), db, older))
	require.NoError(t, repo.Insert(context.Background(), db, newer))

	resp, err := svc.Resolve(context.Background(), factordomain.ResolveRequest{
		ActivityName: "Natural Gas", Scope: 1, Date: "2023-06-01",
	})
	require.NoError(t, err)
	require.Equal(t, 2.05, resp.CO2ePerUnit)
}

func TestResolveValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	_, err := svc.Resolve(context.Background(), factordomain.ResolveRequest{
		ActivityName: "  ", Scope: 1, Date: "2023-01-01",
	})
	require.ErrorIs(t, err, factordomain.ErrInvalidActivityName)

	_, err = svc.Resolve(context.Background(), factordomain.ResolveRequest{
		ActivityName: "Diesel", Scope: 4, Date: "2023-01-01",
	})
	require.ErrorIs(t, err, factordomain.ErrInvalidScope)

	_, err = svc.Resolve(context.Background(), factordomain.ResolveRequest{
		ActivityName: "Diesel", Scope: 1, Date: "01-01-2023",
	})
	require.ErrorIs(t, err, factordomain.ErrInvalidDate)
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	_, err := svc.Create(context.Background(), factordomain.CreateRequest{
		ActivityName: "Diesel", Scope: 1, CO2ePerUnit: -1, ActivityUnit: "litre", ValidFrom: "2023-01-01",
	})
	require.ErrorIs(t, err, factordomain.ErrInvalidRate)

	validTo := "2022-12-31"
	_, err = svc.Create(context.Background(), factordomain.CreateRequest{
		ActivityName: "Diesel", Scope: 1, CO2ePerUnit: 2.71, ActivityUnit: "litre",
		ValidFrom: "2023-01-01", ValidTo: &validTo,
	})
	require.ErrorIs(t, err, factordomain.ErrInvalidValidity)

	_, err = svc.Create(context.Background(), factordomain.CreateRequest{
		ActivityName: "Diesel", Scope: 1, CO2ePerUnit: 2.71, ActivityUnit: " ", ValidFrom: "2023-01-01",
	})
	require.ErrorIs(t, err, factordomain.ErrInvalidUnit)
}

func TestListFiltersByActivityAndScope(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	createFactor(t, svc, "Diesel", 1, 2.71, "litre", "2023-01-01", "")
	createFactor(t, svc, "Diesel", 1, 2.73, "litre", "2024-01-01", "")
	createFactor(t, svc, "Electricity", 2, 0.21, "kWh", "2023-01-01", "")

	all, err := svc.List(context.Background(), factordomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	diesel, err := svc.List(context.Background(), factordomain.ListRequest{ActivityName: "Diesel"})
	require.NoError(t, err)
	require.Len(t, diesel, 2)

	scope2, err := svc.List(context.Background(), factordomain.ListRequest{Scope: 2})
	require.NoError(t, err)
	require.Len(t, scope2, 1)
	require.Equal(t, "Electricity", scope2[0].ActivityName)
}
