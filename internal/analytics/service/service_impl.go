package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	analyticsdomain "github.com/verdantio/carbonledger/internal/analytics/domain"
	"github.com/verdantio/carbonledger/internal/clock"
	emissiondomain "github.com/verdantio/carbonledger/internal/emission/domain"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	metricdomain "github.com/verdantio/carbonledger/internal/metric/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minYear = 1900
	maxYear = 2100

	minTrendYear     = 2000
	defaultTrendYear = 2024

	maxRangeDays = 3650

	defaultHotspotLimit = 10
	maxHotspotLimit     = 100
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Records emissiondomain.Repository
	Metrics metricdomain.Repository
}

// Service computes aggregate views over already-persisted emission
// totals. It never resolves factors; records carry their final amounts.
type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	records emissiondomain.Repository
	metrics metricdomain.Repository
}

func New(p Params) analyticsdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("analytics.service"),
		clock:   p.Clock,
		records: p.Records,
		metrics: p.Metrics,
	}
}

func (s *Service) YearOverYear(ctx context.Context, req analyticsdomain.YoYRequest) (*analyticsdomain.YoYResponse, error) {
	if req.CurrentYear == 0 {
		req.CurrentYear = s.clock.Now().UTC().Year()
	}
	if req.PreviousYear == 0 {
		req.PreviousYear = req.CurrentYear - 1
	}
	if req.CurrentYear < minYear || req.CurrentYear > maxYear {
		return nil, analyticsdomain.ErrInvalidYear
	}
	if req.PreviousYear < minYear || req.PreviousYear > maxYear {
		return nil, analyticsdomain.ErrInvalidYear
	}
	if req.PreviousYear >= req.CurrentYear {
		return nil, analyticsdomain.ErrInvalidYearOrder
	}

	current, err := s.yearSummary(ctx, req.CurrentYear)
	if err != nil {
		return nil, err
	}
	previous, err := s.yearSummary(ctx, req.PreviousYear)
	if err != nil {
		return nil, err
	}

	change := current.Total - previous.Total
	return &analyticsdomain.YoYResponse{
		CurrentYear:  roundSummary(current),
		PreviousYear: roundSummary(previous),
		Comparison: analyticsdomain.Comparison{
			Change:           round2(change),
			ChangePercentage: round2(changePercentage(previous.Total, current.Total)),
		},
	}, nil
}

func (s *Service) yearSummary(ctx context.Context, year int) (analyticsdomain.YearSummary, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	totals, err := s.records.ScopeTotals(ctx, s.db, start, end)
	if err != nil {
		return analyticsdomain.YearSummary{}, err
	}

	byScope := map[int]float64{}
	for _, t := range totals {
		byScope[t.Scope] = t.Total
	}

	// Every scope is reported, zero when absent.
	summary := analyticsdomain.YearSummary{Year: year}
	for scope := 1; scope <= 3; scope++ {
		total := byScope[scope]
		summary.Scopes = append(summary.Scopes, analyticsdomain.ScopeEmissions{
			Scope:          scope,
			TotalEmissions: total,
		})
		summary.Total += total
	}
	return summary, nil
}

// changePercentage guards division by zero: a zero previous total yields
// 0 when nothing changed and 100 when emissions appeared.
func changePercentage(previous, current float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

func (s *Service) Intensity(ctx context.Context, req analyticsdomain.IntensityRequest) (*analyticsdomain.IntensityResponse, error) {
	metricName := strings.TrimSpace(req.MetricName)
	if metricName == "" {
		return nil, analyticsdomain.ErrInvalidMetricName
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return nil, analyticsdomain.ErrDateRangeTooWide
	}

	totalEmissions, recordCount, err := s.records.PeriodTotal(ctx, s.db, start, end)
	if err != nil {
		return nil, err
	}

	totalProduction, unit, found, err := s.metrics.PeriodTotal(ctx, s.db, metricName, start, end)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, analyticsdomain.ErrNoProductionData
	}
	if totalProduction == 0 {
		return nil, analyticsdomain.ErrZeroProduction
	}

	return &analyticsdomain.IntensityResponse{
		StartDate:       start.Format(factordomain.DateLayout),
		EndDate:         end.Format(factordomain.DateLayout),
		MetricName:      metricName,
		TotalEmissions:  round2(totalEmissions),
		RecordCount:     recordCount,
		TotalProduction: totalProduction,
		Unit:            unit,
		Intensity:       round4(totalEmissions / totalProduction),
		IntensityUnit:   fmt.Sprintf("kgCO2e per %s", unit),
	}, nil
}

func (s *Service) Hotspots(ctx context.Context, req analyticsdomain.HotspotsRequest) (*analyticsdomain.HotspotsResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultHotspotLimit
	}
	if limit < 1 || limit > maxHotspotLimit {
		return nil, analyticsdomain.ErrInvalidLimit
	}
	if req.Scope != 0 && !factordomain.ValidScope(req.Scope) {
		return nil, analyticsdomain.ErrInvalidScope
	}

	filter := emissiondomain.AggregateFilter{Scope: req.Scope}
	if strings.TrimSpace(req.StartDate) != "" {
		start, err := factordomain.ParseDate(strings.TrimSpace(req.StartDate))
		if err != nil {
			return nil, analyticsdomain.ErrInvalidDate
		}
		filter.Start = &start
	}
	if strings.TrimSpace(req.EndDate) != "" {
		end, err := factordomain.ParseDate(strings.TrimSpace(req.EndDate))
		if err != nil {
			return nil, analyticsdomain.ErrInvalidDate
		}
		filter.End = &end
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, analyticsdomain.ErrInvalidDateRange
	}

	aggregates, err := s.records.SourceAggregates(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	var grandTotal float64
	for _, a := range aggregates {
		grandTotal += a.Total
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		return aggregates[i].Total > aggregates[j].Total
	})
	if len(aggregates) > limit {
		aggregates = aggregates[:limit]
	}

	hotspots := make([]analyticsdomain.Hotspot, 0, len(aggregates))
	for _, a := range aggregates {
		percentage := 0.0
		if grandTotal != 0 {
			percentage = a.Total / grandTotal * 100
		}
		average := 0.0
		if a.Count > 0 {
			average = a.Total / float64(a.Count)
		}
		hotspots = append(hotspots, analyticsdomain.Hotspot{
			ActivityName:     a.ActivityName,
			Scope:            a.Scope,
			TotalEmissions:   round2(a.Total),
			Percentage:       round2(percentage),
			RecordCount:      a.Count,
			AveragePerRecord: round2(average),
		})
	}

	return &analyticsdomain.HotspotsResponse{
		TotalEmissions: round2(grandTotal),
		Hotspots:       hotspots,
	}, nil
}

func (s *Service) Monthly(ctx context.Context, req analyticsdomain.MonthlyRequest) (*analyticsdomain.MonthlyResponse, error) {
	year := req.Year
	if year == 0 {
		year = defaultTrendYear
	}
	if year < minTrendYear || year > maxYear {
		return nil, analyticsdomain.ErrInvalidYear
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	daily, err := s.records.DailyTotals(ctx, s.db, start, end)
	if err != nil {
		return nil, err
	}

	byMonth := map[int]float64{}
	for _, d := range daily {
		byMonth[int(d.ActivityDate.UTC().Month())] += d.Total
	}

	resp := &analyticsdomain.MonthlyResponse{Year: year}
	var total float64
	for m := 1; m <= 12; m++ {
		resp.Months = append(resp.Months, analyticsdomain.MonthTotal{
			Month:          fmt.Sprintf("%04d-%02d", year, m),
			TotalEmissions: round2(byMonth[m]),
		})
		total += byMonth[m]
	}
	resp.Total = round2(total)
	return resp, nil
}

func parseRange(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := factordomain.ParseDate(strings.TrimSpace(startValue))
	if err != nil {
		return time.Time{}, time.Time{}, analyticsdomain.ErrInvalidDate
	}
	end, err := factordomain.ParseDate(strings.TrimSpace(endValue))
	if err != nil {
		return time.Time{}, time.Time{}, analyticsdomain.ErrInvalidDate
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, analyticsdomain.ErrInvalidDateRange
	}
	return start, end, nil
}

func roundSummary(s analyticsdomain.YearSummary) analyticsdomain.YearSummary {
	for i := range s.Scopes {
		s.Scopes[i].TotalEmissions = round2(s.Scopes[i].TotalEmissions)
	}
	s.Total = round2(s.Total)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
