package reportmetrics

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/salesops/internal/clock"
	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
	"github.com/smallbiznis/salesops/internal/config"
	"github.com/smallbiznis/salesops/internal/ratelimit"
	salesdomain "github.com/smallbiznis/salesops/internal/sales/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultInterval = 15 * time.Minute

var Module = fx.Module("report.metrics",
	fx.Provide(NewGauges),
	fx.Provide(NewPusher),
	fx.Provide(NewReporter),
	fx.Invoke(startReporter),
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Clock         clock.Clock
	Config        config.Config
	SalesRepo     salesdomain.Repository
	CommissionSvc commissiondomain.Service
	Gauges        *Gauges
	Pusher        Pusher             `optional:"true"`
	Limiter       *ratelimit.Limiter `optional:"true"`
}

// Reporter snapshots current-period manager summaries and pushes them.
type Reporter struct {
	db            *gorm.DB
	log           *zap.Logger
	clock         clock.Clock
	salesRepo     salesdomain.Repository
	commissionSvc commissiondomain.Service
	gauges        *Gauges
	pusher        Pusher
	lock          pushLock
	interval      time.Duration
}

// pushLock leases the push slot for a period across replicas.
type pushLock interface {
	TryLockReportPush(ctx context.Context, period string, lease time.Duration) (string, bool, error)
	ReleaseReportPush(ctx context.Context, period, token string) error
}

func NewReporter(p Params) *Reporter {
	interval := time.Duration(p.Config.ReportPush.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Reporter{
		db:            p.DB,
		log:           p.Log.Named("report.metrics"),
		clock:         p.Clock,
		salesRepo:     p.SalesRepo,
		commissionSvc: p.CommissionSvc,
		gauges:        p.Gauges,
		pusher:        p.Pusher,
		lock:          p.Limiter,
		interval:      interval,
	}
}

// RunOnce refreshes the gauges and pushes them. The push slot for the period is
// leased for one interval, so replicas push at most once per interval between
// them. A failed push gives the lease back for another replica to retry.
func (r *Reporter) RunOnce(ctx context.Context) (err error) {
	if r.pusher == nil {
		return nil
	}

	period := r.clock.Now().UTC().Format(commissiondomain.PeriodLayout)
	token, ok, err := r.lock.TryLockReportPush(ctx, period, r.interval)
	if err != nil {
		return err
	}
	if !ok {
		r.log.Debug("report push lease held by another instance", zap.String("period", period))
		return nil
	}
	defer func() {
		if err == nil {
			return
		}
		if releaseErr := r.lock.ReleaseReportPush(context.Background(), period, token); releaseErr != nil {
			r.log.Warn("release report push lease failed", zap.Error(releaseErr))
		}
	}()

	managers, err := r.salesRepo.ListManagers(ctx, r.db)
	if err != nil {
		return err
	}

	r.gauges.Reset()
	for _, m := range managers {
		summary, err := r.commissionSvc.ManagerSummary(ctx, m.ID.String(), period)
		if err != nil {
			if errors.Is(err, commissiondomain.ErrNotFound) {
				continue
			}
			return err
		}
		r.gauges.Set(summary.ManagerID, summary.Period, summary.Summary)
	}

	if err := r.pusher.Push(ctx, r.gauges.Registry()); err != nil {
		return err
	}
	r.log.Info("commission report pushed",
		zap.String("period", period),
		zap.Int("managers", len(managers)),
	)
	return nil
}

func startReporter(lc fx.Lifecycle, r *Reporter) {
	if r.pusher == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			r.log.Info("starting report push worker", zap.Duration("interval", r.interval))
			go func() {
				defer close(done)
				ticker := time.NewTicker(r.interval)
				defer ticker.Stop()

				r.runLogged(ctx)
				for {
					select {
					case <-ticker.C:
						r.runLogged(ctx)
					case <-ctx.Done():
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func (r *Reporter) runLogged(ctx context.Context) {
	if err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		r.log.Warn("commission report push failed", zap.Error(err))
	}
}
