package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/salesops/internal/authorization"
	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
	"github.com/smallbiznis/salesops/internal/config"
	"github.com/smallbiznis/salesops/internal/observability"
	obsmiddleware "github.com/smallbiznis/salesops/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/salesops/internal/observability/metrics"
	obstracing "github.com/smallbiznis/salesops/internal/observability/tracing"
	"github.com/smallbiznis/salesops/internal/ratelimit"
	salesdomain "github.com/smallbiznis/salesops/internal/sales/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultHTTPAddr = ":8080"

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, m *obsmetrics.Metrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type ginParams struct {
	fx.In

	ObsCfg  observability.Config
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func registerGin(p ginParams) *gin.Engine {
	return NewEngine(p.ObsCfg, p.Metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = defaultHTTPAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log = log.Named("http.server")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
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
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	commissionSvc commissiondomain.Service
	salesSvc      salesdomain.Service
	limiter       *ratelimit.Limiter
	authz         authorization.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	CommissionSvc commissiondomain.Service
	SalesSvc      salesdomain.Service
	Limiter       *ratelimit.Limiter    `optional:"true"`
	AuthzSvc      authorization.Service `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		commissionSvc: p.CommissionSvc,
		salesSvc:      p.SalesSvc,
		limiter:       p.Limiter,
		authz:         p.AuthzSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Commission --------
	api.POST("/commission/calculate", s.CalculateRateLimit(), s.CalculateCommission)
	api.GET("/rate-catalog", s.authorize(authorization.ObjectCatalog, authorization.ActionCatalogView), s.GetRateCatalog)

	// -------- Hierarchy reports --------
	reportView := s.authorize(authorization.ObjectReport, authorization.ActionReportView)
	api.GET("/dsrs/:id/commission", reportView, s.GetDSRCommission)
	api.GET("/team-leaders/:id/commission", reportView, s.GetTeamCommission)
	api.GET("/managers/:id/commission", reportView, s.GetManagerCommission)

	// -------- Sales workflow --------
	api.GET("/sales/:id", reportView, s.GetSale)
	api.PATCH("/sales/:id/verification", s.authorize(authorization.ObjectSale, authorization.ActionSaleVerify), s.SetSaleVerification)
	api.PATCH("/sales/:id/approval", s.authorize(authorization.ObjectSale, authorization.ActionSaleApprove), s.SetSaleApproval)
	api.PATCH("/sales/:id/payment", s.authorize(authorization.ObjectSale, authorization.ActionSalePayment), s.SetSalePayment)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
