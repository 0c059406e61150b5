package reportmetrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/mock/gomock"
	"github.com/golang/snappy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/prometheus/prompb"
	"github.com/smallbiznis/salesops/internal/clock"
	"github.com/smallbiznis/salesops/internal/commission/catalog"
	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
	"github.com/smallbiznis/salesops/internal/commission/mocks"
	commissionservice "github.com/smallbiznis/salesops/internal/commission/service"
	"github.com/smallbiznis/salesops/internal/config"
	"github.com/smallbiznis/salesops/internal/migration"
	salesdomain "github.com/smallbiznis/salesops/internal/sales/domain"
	salesrepository "github.com/smallbiznis/salesops/internal/sales/repository"
	"github.com/smallbiznis/salesops/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturePusher struct {
	calls  int
	values map[string]float64
}

func (c *capturePusher) Push(_ context.Context, registry *prometheus.Registry) error {
	c.calls++
	c.values = map[string]float64{}
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value, _ := metricValue(family.GetType(), metric)
			c.values[family.GetName()] = value
		}
	}
	return nil
}

func TestReporterRunOnce(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	repo := salesrepository.Provide()
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)

	mgr := salesdomain.Manager{ID: node.Generate(), Name: "Grace", CreatedAt: now}
	tl := salesdomain.TeamLeader{ID: node.Generate(), ManagerID: mgr.ID, Name: "Tunde", CreatedAt: now}
	dsr := salesdomain.DSR{ID: node.Generate(), TeamLeaderID: tl.ID, Name: "Amaka", JoinedAt: now.AddDate(0, -6, 0), CreatedAt: now}
	require.NoError(t, repo.InsertManager(ctx, conn, &mgr))
	require.NoError(t, repo.InsertTeamLeader(ctx, conn, &tl))
	require.NoError(t, repo.InsertDSR(ctx, conn, &dsr))

	soldAt := time.Date(2024, 4, 5, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.InsertSale(ctx, conn, &salesdomain.Sale{
		ID:            node.Generate(),
		DSRID:         dsr.ID,
		SaleType:      "FS",
		PackageOption: "no_package",
		PaymentStatus: "paid",
		TLVerified:    true,
		AdminApproved: true,
		SoldAt:        soldAt,
		CreatedAt:     soldAt,
		UpdatedAt:     soldAt,
	}))

	rates, err := catalog.DefaultFile().RateCatalog()
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(now)
	svc := commissionservice.NewService(commissionservice.Params{
		DB:        conn,
		Log:       zap.NewNop(),
		Clock:     fakeClock,
		Catalog:   catalog.NewStaticHolder(rates, zap.NewNop()),
		SalesRepo: repo,
	})

	pusher := &capturePusher{}
	r := NewReporter(Params{
		DB:            conn,
		Log:           zap.NewNop(),
		Clock:         fakeClock,
		SalesRepo:     repo,
		CommissionSvc: svc,
		Gauges:        NewGauges(),
		Pusher:        pusher,
	})

	require.NoError(t, r.RunOnce(ctx))
	assert.Equal(t, 1, pusher.calls)
	assert.Equal(t, 2500.0, pusher.values["salesops_report_commission_earned"])
	assert.Equal(t, 0.0, pusher.values["salesops_report_commission_pending"])
	assert.Equal(t, 1.0, pusher.values["salesops_report_sales_count"])
}

func TestReporterSummaryErrors(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	repo := salesrepository.Provide()
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	gone := salesdomain.Manager{ID: node.Generate(), Name: "Gone", CreatedAt: now}
	kept := salesdomain.Manager{ID: node.Generate(), Name: "Kept", CreatedAt: now}
	require.NoError(t, repo.InsertManager(ctx, conn, &gone))
	require.NoError(t, repo.InsertManager(ctx, conn, &kept))

	newReporter := func(svc commissiondomain.Service, pusher Pusher) *Reporter {
		return NewReporter(Params{
			DB:            conn,
			Log:           zap.NewNop(),
			Clock:         clock.NewFakeClock(now),
			SalesRepo:     repo,
			CommissionSvc: svc,
			Gauges:        NewGauges(),
			Pusher:        pusher,
		})
	}

	t.Run("missing manager is skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().ManagerSummary(gomock.Any(), gone.ID.String(), "2024-04").Return(nil, commissiondomain.ErrNotFound)
		svc.EXPECT().ManagerSummary(gomock.Any(), kept.ID.String(), "2024-04").Return(&commissiondomain.ManagerSummary{
			ManagerID: kept.ID.String(),
			Period:    "2024-04",
			Summary:   commissiondomain.Summary{Earned: 700, SalesCount: 2},
		}, nil)

		pusher := &capturePusher{}
		require.NoError(t, newReporter(svc, pusher).RunOnce(ctx))
		assert.Equal(t, 1, pusher.calls)
		assert.Equal(t, 700.0, pusher.values["salesops_report_commission_earned"])
	})

	t.Run("summary failure aborts the push", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		boom := errors.New("db down")
		svc.EXPECT().ManagerSummary(gomock.Any(), gone.ID.String(), "2024-04").Return(nil, boom)

		pusher := &capturePusher{}
		err := newReporter(svc, pusher).RunOnce(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, pusher.calls)
	})
}

type leaseLock struct {
	held     map[string]time.Duration
	leases   []time.Duration
	released int
}

func (l *leaseLock) TryLockReportPush(_ context.Context, period string, lease time.Duration) (string, bool, error) {
	if _, ok := l.held[period]; ok {
		return "", false, nil
	}
	l.held[period] = lease
	l.leases = append(l.leases, lease)
	return "token-" + period, true, nil
}

func (l *leaseLock) ReleaseReportPush(_ context.Context, period, token string) error {
	if token == "token-"+period {
		delete(l.held, period)
		l.released++
	}
	return nil
}

type failingPusher struct{ calls int }

func (f *failingPusher) Push(context.Context, *prometheus.Registry) error {
	f.calls++
	return errors.New("remote write unavailable")
}

func TestReporterKeepsLeaseForInterval(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	lock := &leaseLock{held: map[string]time.Duration{}}
	newReporter := func(pusher Pusher) *Reporter {
		r := NewReporter(Params{
			DB:        conn,
			Log:       zap.NewNop(),
			Clock:     clock.NewFakeClock(now),
			Config:    config.Config{ReportPush: config.ReportPushConfig{IntervalSeconds: 600}},
			SalesRepo: salesrepository.Provide(),
			Gauges:    NewGauges(),
			Pusher:    pusher,
		})
		r.lock = lock
		return r
	}

	first := &capturePusher{}
	second := &capturePusher{}
	ctx := context.Background()
	require.NoError(t, newReporter(first).RunOnce(ctx))
	require.NoError(t, newReporter(second).RunOnce(ctx))

	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
	assert.Zero(t, lock.released)
	assert.Equal(t, []time.Duration{10 * time.Minute}, lock.leases)
}

func TestReporterReleasesLeaseOnFailedPush(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(conn))

	lock := &leaseLock{held: map[string]time.Duration{}}
	pusher := &failingPusher{}
	r := NewReporter(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		Clock:     clock.NewFakeClock(time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)),
		SalesRepo: salesrepository.Provide(),
		Gauges:    NewGauges(),
		Pusher:    pusher,
	})
	r.lock = lock

	ctx := context.Background()
	assert.Error(t, r.RunOnce(ctx))
	assert.Equal(t, 1, lock.released)
	assert.Empty(t, lock.held)

	assert.Error(t, r.RunOnce(ctx))
	assert.Equal(t, 2, pusher.calls)
}

func TestReporterWithoutPusher(t *testing.T) {
	r := NewReporter(Params{Log: zap.NewNop(), Gauges: NewGauges()})
	assert.NoError(t, r.RunOnce(context.Background()))
	assert.Equal(t, defaultInterval, r.interval)
}

func TestGaugesReset(t *testing.T) {
	g := NewGauges()
	g.Set("1", "2024-04", commissiondomain.Summary{Earned: 10})
	g.Set("", "", commissiondomain.Summary{Earned: 5})

	families, err := g.Registry().Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	assert.Len(t, families[0].GetMetric(), 2)

	g.Reset()
	families, err = g.Registry().Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestRemoteWritePusher(t *testing.T) {
	var got prompb.WriteRequest
	var auth, encoding string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		encoding = r.Header.Get("Content-Encoding")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		raw, err := snappy.Decode(nil, body)
		require.NoError(t, err)
		require.NoError(t, got.Unmarshal(raw))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	g := NewGauges()
	g.Set("42", "2024-04", commissiondomain.Summary{Earned: 1500, SalesCount: 3})

	p := NewRemoteWritePusher(srv.URL, " secret ")
	require.NoError(t, p.Push(context.Background(), g.Registry()))

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "snappy", encoding)
	require.Len(t, got.Timeseries, 5)

	found := false
	for _, ts := range got.Timeseries {
		labels := map[string]string{}
		for _, l := range ts.Labels {
			labels[l.Name] = l.Value
		}
		if labels["__name__"] == "salesops_report_commission_earned" {
			found = true
			assert.Equal(t, "42", labels["manager_id"])
			assert.Equal(t, 1500.0, ts.Samples[0].Value)
		}
	}
	assert.True(t, found)
}

func TestRemoteWritePusherRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGauges()
	g.Set("1", "2024-04", commissiondomain.Summary{})
	err := NewRemoteWritePusher(srv.URL, "").Push(context.Background(), g.Registry())
	assert.Error(t, err)
}

func TestPushgatewayPusher(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewGauges()
	g.Set("1", "2024-04", commissiondomain.Summary{Earned: 1})
	p := NewPushgatewayPusher(srv.URL, "salesops", map[string]string{"environment": "test", "": "skip"})
	require.NoError(t, p.Push(context.Background(), g.Registry()))

	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasPrefix(path, "/metrics/job/salesops"), path)
	assert.Contains(t, path, "environment/test")
}

func TestNewPusher(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ReportPushConfig
		want any
	}{
		{"disabled", config.ReportPushConfig{}, nil},
		{"missing exporter", config.ReportPushConfig{Enabled: true, Endpoint: "http://x"}, nil},
		{"missing endpoint", config.ReportPushConfig{Enabled: true, Exporter: ExporterRemoteWrite}, nil},
		{"bad remote write url", config.ReportPushConfig{Enabled: true, Exporter: ExporterRemoteWrite, Endpoint: "::bad"}, nil},
		{"unknown exporter", config.ReportPushConfig{Enabled: true, Exporter: "statsd", Endpoint: "http://x"}, nil},
		{"remote write", config.ReportPushConfig{Enabled: true, Exporter: ExporterRemoteWrite, Endpoint: "http://x/api/v1/write"}, &RemoteWritePusher{}},
		{"pushgateway", config.ReportPushConfig{Enabled: true, Exporter: ExporterPushgateway, Endpoint: "http://x:9091"}, &PushgatewayPusher{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPusher(config.Config{AppName: "salesops", ReportPush: tt.cfg}, zap.NewNop())
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}
