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
	metricdomain "github.com/verdantio/carbonledger/internal/metric/domain"
	"github.com/verdantio/carbonledger/internal/metric/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) metricdomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&metricdomain.BusinessMetric{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func TestCreateMetric(t *testing.T) {
	svc := newService(t)

	resp, err := svc.Create(context.Background(), metricdomain.CreateRequest{
		MetricName: "Tons of Steel Produced",
		Value:      4500,
		Unit:       "tonnes",
		MetricDate: "2024-01-31",
	})
	require.NoError(t, err)
	require.Equal(t, "Tons of Steel Produced", resp.MetricName)
	require.Equal(t, "2024-01-31", resp.MetricDate)
}

func TestCreateMetricDuplicateNameAndDate(t *testing.T) {
	svc := newService(t)

	req := metricdomain.CreateRequest{
		MetricName: "Tons of Steel Produced",
		Value:      4500,
		Unit:       "tonnes",
		MetricDate: "2024-01-31",
	}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, metricdomain.ErrDuplicate)

	// A different date for the same metric is a new reporting row.
	req.MetricDate = "2024-02-29"
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateMetricValidation(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), metricdomain.CreateRequest{
		MetricName: "   ", Value: 1, Unit: "tonnes", MetricDate: "2024-01-31",
	})
	require.ErrorIs(t, err, metricdomain.ErrInvalidMetricName)

	_, err = svc.Create(context.Background(), metricdomain.CreateRequest{
		MetricName: "Steel", Value: -1, Unit: "tonnes", MetricDate: "2024-01-31",
	})
	require.ErrorIs(t, err, metricdomain.ErrInvalidValue)

	_, err = svc.Create(context.Background(), metricdomain.CreateRequest{
		MetricName: "Steel", Value: 1, Unit: "tonnes", MetricDate: "2024-08-01",
	})
	require.ErrorIs(t, err, metricdomain.ErrFutureDate)

	_, err = svc.Create(context.Background(), metricdomain.CreateRequest{
		MetricName: "Steel", Value: 1, Unit: "tonnes", MetricDate: "31/01/2024",
	})
	require.ErrorIs(t, err, metricdomain.ErrInvalidDate)
}

func TestListNames(t *testing.T) {
	svc := newService(t)

	for _, m := range []struct {
		name     string
		category string
		unit     string
		date     string
	}{
		{"Tons of Steel Produced", "production", "tonnes", "2024-01-31"},
		{"Tons of Steel Produced", "production", "tonnes", "2024-02-29"},
		{"Widgets Assembled", "production", "units", "2024-01-31"},
	} {
		_, err := svc.Create(context.Background(), metricdomain.CreateRequest{
			MetricName: m.name, MetricCategory: m.category, Value: 100, Unit: m.unit, MetricDate: m.date,
		})
		require.NoError(t, err)
	}

	names, err := svc.ListNames(context.Background())
	require.NoError(t, err)
	require.Equal(t, []metricdomain.MetricName{
		{MetricName: "Tons of Steel Produced", MetricCategory: "production", Unit: "tonnes"},
		{MetricName: "Widgets Assembled", MetricCategory: "production", Unit: "units"},
	}, names)
}
