package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/verdantio/carbonledger/internal/analytics"
	analyticsdomain "github.com/verdantio/carbonledger/internal/analytics/domain"
	"github.com/verdantio/carbonledger/internal/config"
	"github.com/verdantio/carbonledger/internal/emission"
	emissiondomain "github.com/verdantio/carbonledger/internal/emission/domain"
	"github.com/verdantio/carbonledger/internal/factor"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	"github.com/verdantio/carbonledger/internal/metric"
	metricdomain "github.com/verdantio/carbonledger/internal/metric/domain"
	obslogger "github.com/verdantio/carbonledger/internal/observability/logger"
	obsmetrics "github.com/verdantio/carbonledger/internal/observability/metrics"
	obstracing "github.com/verdantio/carbonledger/internal/observability/tracing"
	"github.com/verdantio/carbonledger/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	factor.Module,
	emission.Module,
	metric.Module,
	analytics.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(httpMetrics.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	genID        *snowflake.Node
	factorSvc    factordomain.Service
	emissionSvc  emissiondomain.Service
	metricSvc    metricdomain.Service
	analyticsSvc analyticsdomain.Service
	obsMetrics   *obsmetrics.Metrics
	limiter      *ratelimit.IngestLimiter
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	GenID        *snowflake.Node
	FactorSvc    factordomain.Service
	EmissionSvc  emissiondomain.Service
	MetricSvc    metricdomain.Service
	AnalyticsSvc analyticsdomain.Service
	ObsMetrics   *obsmetrics.Metrics      `optional:"true"`
	Limiter      *ratelimit.IngestLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		genID:        p.GenID,
		factorSvc:    p.FactorSvc,
		emissionSvc:  p.EmissionSvc,
		metricSvc:    p.MetricSvc,
		analyticsSvc: p.AnalyticsSvc,
		obsMetrics:   p.ObsMetrics,
		limiter:      p.Limiter,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.POST("/emissions", s.ingestLimit("emissions"), s.CreateEmissionRecord)
		api.GET("/emissions/:id", s.GetEmissionRecord)
		api.PATCH("/emissions/:id/override", s.OverrideEmissionRecord)

		api.POST("/metrics", s.ingestLimit("metrics"), s.CreateBusinessMetric)
		api.GET("/metrics/names", s.ListMetricNames)

		api.GET("/factors/resolve", s.ResolveFactor)

		reports := api.Group("/analytics")
		{
			reports.GET("/yoy", s.YearOverYear)
			reports.GET("/intensity", s.Intensity)
			reports.GET("/hotspots", s.Hotspots)
			reports.GET("/monthly", s.MonthlyTrend)
		}
	}

	admin := s.engine.Group("/admin")
	{
		admin.POST("/factors", s.CreateFactor)
		admin.GET("/factors", s.ListFactors)
	}
}

// ingestLimit throttles write endpoints per client IP when the Redis
// limiter is configured. Limiter failures fail open: a broken Redis
// must not block ingestion.
func (s *Server) ingestLimit(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		allowed, err := s.limiter.Allow(ctx, c.ClientIP(), endpoint)
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			s.obsMetrics.RecordRateLimitDenied(ctx, endpoint, "bucket_exhausted")
			AbortWithError(c, ErrRateLimited)
			return
		}

		s.obsMetrics.RecordRateLimitAllowed(ctx, endpoint)
		c.Next()
	}
}
