package migration

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesops/internal/config"
	"github.com/smallbiznis/salesops/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if err := Migrate(conn, cfg.DBType); err != nil {
			return err
		}
		if !cfg.SeedDemo {
			return nil
		}
		return seed.EnsureDemoHierarchy(context.Background(), conn, node, log)
	}),
)
