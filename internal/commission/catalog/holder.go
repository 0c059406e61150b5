package catalog

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/smallbiznis/salesops/internal/commission/domain"
	"github.com/smallbiznis/salesops/internal/config"
	"github.com/smallbiznis/salesops/internal/observability/metrics"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const rootKey = "commission"

// Holder keeps the active rate catalog and swaps it atomically on reload.
type Holder struct {
	log     *zap.Logger
	current atomic.Value // holds domain.RateCatalog
	source  atomic.Value // holds string
}

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

func NewHolder(p Params) (*Holder, error) {
	v := viper.New()

	if path := strings.TrimSpace(p.Config.RateCatalogPath); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("commission")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/salesops")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SALESOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &Holder{log: p.Log.Named("commission.catalog")}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		cat, err := DefaultFile().RateCatalog()
		if err != nil {
			return nil, err
		}
		holder.store(cat, "defaults")
		holder.log.Info("rate catalog file not found, using defaults")
		return holder, nil
	}

	if err := holder.load(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := holder.load(v); err != nil {
			p.Metrics.RecordCatalogReload(context.Background(), "rejected")
			holder.log.Warn("invalid rate catalog ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		p.Metrics.RecordCatalogReload(context.Background(), "applied")
		holder.log.Info("rate catalog reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

// NewStaticHolder wraps a fixed catalog. It never reloads.
func NewStaticHolder(cat domain.RateCatalog, log *zap.Logger) *Holder {
	h := &Holder{log: log.Named("commission.catalog")}
	h.store(cat, "static")
	return h
}

func (h *Holder) Get() domain.RateCatalog {
	return h.current.Load().(domain.RateCatalog)
}

// Source names where the active catalog came from.
func (h *Holder) Source() string {
	return h.source.Load().(string)
}

func (h *Holder) load(v *viper.Viper) error {
	var file File
	if err := v.UnmarshalKey(rootKey, &file); err != nil {
		return err
	}
	cat, err := file.RateCatalog()
	if err != nil {
		return err
	}
	h.store(cat, v.ConfigFileUsed())
	return nil
}

func (h *Holder) store(cat domain.RateCatalog, source string) {
	for _, pair := range cat.OverlappingTiers() {
		h.log.Warn("overlapping bonus tiers, lower tier wins",
			zap.String("tier", string(pair[0])),
			zap.String("overlaps", string(pair[1])),
		)
	}
	h.current.Store(cat)
	h.source.Store(source)
}
